// Package stage defines the contract between the workflow manager and the
// handlers that process queue items.
package stage
