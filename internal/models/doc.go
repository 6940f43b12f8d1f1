// Package models defines domain entities and persistence interfaces for the NovTok reading client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs mirroring the platform API's JSON
//   - [Book] : Catalog entry with chapters, social sets, and rating
//   - [Chapter] : A titled block of book content
//   - [Comment] : Reader comment on a book
//   - [Profile] : The authenticated user's profile
//   - [BookPage] : One page of the paginated catalog listing
//   - [Notification] : Platform notification
//
// 2. Persistent Entities: database-backed models with full lifecycle management
//   - [Session] : The durable session token (the only state surviving restarts besides local stats)
//   - [CachedBook] : Locally cached catalog entries
//   - [HistoryEntry] : Local reading activity per book
//   - [ReadingGoal] : Locally tracked reading targets
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
