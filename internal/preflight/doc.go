// Package preflight provides readiness checks for the filesystem paths and
// endpoints contentstore depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll before starting the workflow manager and refuses
//     to start when a check fails.
//   - The CLI "contentstore check" command prints every check, including the
//     public endpoint check, as a table.
package preflight
