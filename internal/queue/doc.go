// Package queue holds the in-memory work queues between the watcher and the
// workflow manager.
//
// A Set pairs a primary FIFO for fresh arrivals with a retry FIFO for jobs
// whose encode failed. Next always drains the primary lane first, so retries
// can starve while arrivals keep coming. Nothing is persisted: a restart
// forgets every queued job.
//
// A Job is popped before it is dispatched and only pushed back, onto the
// retry lane, after its attempt finished, so it is never in both lanes.
package queue
