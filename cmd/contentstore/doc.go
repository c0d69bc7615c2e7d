// Command contentstore migrates the external assets referenced by JATS
// documents into a local content store.
//
// One-shot migrations run with `contentstore migrate`. Documents can also be
// queued with `contentstore queue add` and processed by the long-running
// daemon started with `contentstore run`.
package main
