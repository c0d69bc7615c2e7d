// Package migrate implements the workflow stage that moves a queued
// document's external assets into the content store and persists the
// rewritten document on the queue item.
package migrate
