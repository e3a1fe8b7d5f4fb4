// Package memo provides a process-lifetime memoization table whose entries are
// computed at most once, even when many goroutines ask for the same key before
// the first computation finishes.
//
// Concurrent first-time callers for a key share a single in-flight call
// (golang.org/x/sync/singleflight). Once the call returns, its value and error
// are stored and every later caller gets them without recomputing. Entries are
// never invalidated.
//
// Errors caused by the caller's context (cancellation or deadline) are handed
// to the callers of that flight but are not stored, so a later caller with a
// live context computes the entry again.
package memo
