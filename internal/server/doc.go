// Package server implements the HTTP and WebSocket API surface of the
// case workflow engine
//
// UI shells open a session, select cases, start and confirm actions over
// plain JSON endpoints, and receive success/refresh notices over the
// WebSocket feed
package server
