// Package queue persists put tasks in SQLite and exposes helpers for driving
// their lifecycle.
//
// A queue item carries a content item id, its version and the JATS document
// to publish. The Store manages database connections, schema initialization,
// stats queries, heartbeat tracking, stuck-item recovery, and the status
// transitions the workflow manager relies on (pending, migrating, completed,
// failed, review).
//
// The database is treated as transient storage for in-flight jobs rather than
// a long-term archive. Schema changes bump the version in schema.go; users
// clear the database to adopt the new schema.
package queue
