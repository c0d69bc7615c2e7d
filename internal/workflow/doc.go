// Package workflow advances queue items through the configured processing
// stages.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// pending items into the migrate stage handler while capturing progress and
// failure metadata. It also aggregates queue stats, calls stage health checks,
// and logs queue-level events when a batch of work starts and drains.
//
// Add new lifecycle stages by extending StageSet, updating the queue status
// enums, and teaching the manager how to transition items; this package is the
// authoritative home for that coordination logic.
package workflow
