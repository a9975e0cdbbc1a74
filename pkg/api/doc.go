// Package api defines the public types shared between the case workflow
// engine and its clients
//
// This includes the role chain, custody/status/outcome domains, the typed
// case record and its attribute-name mapping, action types, and the request
// and response messages of the HTTP API
package api
