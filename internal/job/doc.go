// Package job contains the resumable generation pipeline: the tick driver,
// the per-month state machine, and the finalizer.
//
// There is no internal scheduler. Progress happens only when something
// external invokes Driver.Advance, which performs at most one month of work
// under a time-bounded lease and persists the outcome before returning. Any
// number of callers may invoke Advance concurrently or in rapid succession;
// the lease on the job row serializes the actual work.
package job
