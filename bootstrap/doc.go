// Package bootstrap runs the application lifecycle: typed config
// validation, logger setup, component start in registration order, startup
// hooks, a logged startup summary, and graceful shutdown on SIGINT/SIGTERM.
//
// Run serves until a signal arrives; RunTask runs a finite task (the CLI
// analyze command) with the same infrastructure and then shuts down.
package bootstrap
