// Package services implements clients for the external collaborators of the
// NovTok terminal app.
//
//   - [APIService] : the platform REST API ([Service] implementation).
//     Authorized calls attach "Authorization: Bearer <token>"; requests are
//     rate limited and carry per-request timeouts. List responses are
//     normalized at the boundary (bare array vs. wrapped object).
//   - [MediaUploader] : direct multipart uploads to the external image host
//     used for book covers.
//
// Failure classification follows the shared sentinel errors: a 401 anywhere
// surfaces [shared.ErrNotAuthenticated] so callers can clear the session, and
// other non-2xx statuses surface [shared.ErrAPIRequest] with the
// server-provided message when one is present.
package services
