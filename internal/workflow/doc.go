// Package workflow drains the work queues through the encoder one job at a
// time.
//
// The Manager runs a single dispatch goroutine. Each pass pops from the
// primary lane, falls back to the retry lane, and otherwise idles for the
// queue poll interval. A popped job is encoded synchronously, so no second
// job is taken while an encode runs and encodes never overlap.
//
// Results are classified after every attempt. A non-zero exit is retried by
// pushing the job onto the retry lane, optionally after a delay, until the
// configured retry budget is spent; after that the job is dropped with a
// terminal-failure log. A failure to launch the encoder is a configuration
// problem and is dropped immediately. Stopping the Manager lets an in-flight
// encode finish and discards delayed retries that have not been pushed yet.
package workflow
