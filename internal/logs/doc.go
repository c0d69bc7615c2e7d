// Package logs reads the daemon's JSON log file for the CLI.
//
// It returns the last N lines with bounded memory, follows the file as the
// daemon appends to it (restarting from the top when the file is truncated),
// and filters records by queue item. Callers supply a context so follow mode
// shuts down cleanly when the CLI exits.
package logs
