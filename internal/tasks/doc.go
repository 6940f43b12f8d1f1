// Package tasks contains long-running background operations for the
// library: paging the full remote catalog into the local cache and
// exporting books to disk, individually or in bulk with a worker pool.
//
// Operations report progress over an optional channel of ProgressUpdate
// values; sends are non-blocking so a slow or absent consumer never
// stalls the work.
package tasks
