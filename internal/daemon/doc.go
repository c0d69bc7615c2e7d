// Package daemon coordinates the long-running contentstore process.
//
// It wires configuration, queue storage and the workflow manager into a single
// lifecycle with flock-based locking to prevent multiple instances. The daemon
// runs preflight checks before it starts, resets work left in flight by a
// previous process, and exposes queue maintenance helpers used by the CLI.
//
// Keep orchestration logic here: individual workflow steps should live in their
// respective packages while the daemon focuses on startup, shutdown, and high
// level coordination.
package daemon
