// Package blobstore stores migrated assets on the local filesystem and keeps
// their metadata in SQLite.
//
// Objects are written to a temporary file beside the target and renamed into
// place, so readers never observe partial content. Paths are slash-separated,
// relative, and may not escape the root. The Store satisfies assets.Store.
package blobstore
