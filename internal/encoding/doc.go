// Package encoding assembles and runs the external encoder for one job.
//
// The argument vector is built from the configured pre-input and post-input
// strings, split on single spaces with no quoting, around the input clause and
// the output path. The destination is always the input's base name under the
// output directory; extension and container are left to the encoder's own
// flags.
//
// Invoke runs the process to completion with stdout and stderr buffered. A
// process that ran and exited non-zero is a Result, not an error; Result.Err
// classifies it for the retry policy. Only an input that vanished before
// dispatch or a failure to launch at all is returned as an error, tagged
// with a marker the workflow never retries.
package encoding
