// Package repositories implements the SQLite-backed persistence layer.
//
//   - [SessionRepository] : the durable session token (single live row);
//     [SessionStore] adapts it to the session package's TokenStore
//   - [BookRepository] : local cache of catalog entries, deduplicated by
//     remote ID via [BookCacheAdapter]
//   - [HistoryRepository] : per-book reading activity and the counters that
//     feed achievements
//   - [GoalRepository] : locally tracked reading goals
//
// All repositories implement models.Repository[T] with soft deletes and
// sequence generation through [NextSequence].
package repositories
