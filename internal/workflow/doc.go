// Package workflow implements the case workflow engine
//
// The engine decides which role currently owns a case, which of the five
// review actions that role may start, and executes confirmed actions as
// single attribute-patch calls against the remote record store. Each UI
// shell works through a Session, which tracks the current selection with a
// monotonic token so results that resolve after the user has moved on are
// discarded silently
package workflow
