// Package multipart drives the lifecycle of resumable upload sessions.
//
// The backend is the source of truth for session state: the controller
// creates sessions, lists acknowledged parts, signs direct part uploads,
// and completes or aborts sessions without keeping any bookkeeping of its
// own. Part assembly is validated locally before the completion call so a
// malformed part list never reaches the backend.
package multipart
