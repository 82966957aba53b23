// Package parallel provides a streaming stage that applies a transform to every item of an
// input channel, running up to N transforms concurrently, and emits the results either as
// they complete or in the original input order.
//
// Constructors
//   - New(transform, opts ...Option): builds a reusable Stage; Run(ctx, in) starts a run.
//   - Map(ctx, items, transform, opts ...Option): runs a slice through a Stage and collects results.
//
// Defaults
// Unless overridden, the following defaults apply:
//   - MaxConcurrency: 16
//   - Ordered: false (completion order)
//   - Flush: no-op
//   - OutputBufferSize: 0
//   - ErrorTagging: false
//   - Logger: zerolog.Nop()
//   - Metrics: metrics.NoopProvider
//
// Back-pressure
// A run stops receiving from its input channel once MaxConcurrency transforms are in flight.
// In ordered mode it additionally waits until a completion actually lets a result out, so the
// number of buffered results never outgrows the cap.
//
// Flush
// Closing the input channel marks end of input. The flush hook runs once, only after every
// admitted item completed, and the run then closes its results and errors channels.
//
// Errors
// The first transform error, flush error or context cancellation is terminal. It is delivered
// once on the errors channel; completions that arrive later are discarded and flush never runs.
package parallel
