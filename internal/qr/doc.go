// Package qr is the permaqr application layer: stored QR codes, the service
// that creates, edits and exports them, and its HTTP API.
//
// A code is owned by whoever holds its edit token. The token is returned once
// by Create (and by RotateToken) and only its salted hash is stored. Every
// mutating call and the owner read require it, passed as X-Edit-Token or as a
// Bearer token.
//
// url codes encode PublicBaseURL + "/r/" + slug, so the destination can be
// changed after printing; text codes embed their text directly.
//
// # Error Handling
//
// Service methods return sentinel errors (ErrNotFound, ErrPaused,
// ErrLogoRequiresHighEC, ErrNoLogo, ErrConflict) or errors from the pkg/* packages
// (token.ErrInvalidToken, contrast errors, validation errors). Handler maps
// each to a status code and a stable error code in the JSON envelope.
//
// Writes are read-modify-write guarded by Record.Version. When two edits of
// the same code race, the later one fails with ErrConflict (409) instead of
// silently overwriting the first.
package qr
