// Package daemonrun assembles the daemon process: logger, queue and asset
// stores, the migrate stage and the workflow manager.
package daemonrun
