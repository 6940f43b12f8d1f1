// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and reading books:
//  1. [LibraryView] : Browse the paginated catalog with a featured carousel
//  2. [DetailView] : Book metadata, comments, and social actions
//  3. [ReaderView] : Chapter-by-chapter reading with themes, font sizing, and bookmarks
//  4. [NestedConfirmView] : Confirm opening an independent reader on top of the current one
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Catalog fetches are tagged with generation tokens from the collection view so stale responses never clobber newer state.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
