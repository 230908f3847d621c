// Package parallel runs filter work over index ranges, either on a bounded
// group of goroutines or sequentially.
//
// Parallel bodies may read array payloads concurrently but must not change
// the topology of the DataStructure they read. Arrays whose payload lives
// outside process memory are not safe for concurrent access; pass them to
// [Algorithm.RequireArraysInMemory] before calling Execute so the work falls
// back to sequential execution.
package parallel
