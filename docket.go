// Package docket identifies the case workflow engine service
package docket

const (
	// Name is the service name reported in logs and health responses
	Name = "docket"

	// Version is the engine release version
	Version = "0.3.1"
)
