// Package batch splits work into fixed-size batches and runs them
// sequentially or with bounded concurrency.
//
// Scenario comparison uses it to calculate many scenarios at once: each
// batch is handled by one goroutine, results are written to distinct slice
// indexes, and the first failure cancels the remaining batches.
package batch
