// Package logging builds the slog loggers shared by the CLI and the daemon.
//
// The daemon writes a colourised console stream plus a JSON file under the
// configured log directory; CLI commands write only to stderr. Context helpers
// attach the queue item, content id, version, and stage to every record so
// `contentstore logs --item` can filter the file later.
package logging
