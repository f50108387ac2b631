// Package component defines lifecycle-managed parts of the service and a
// registry that starts them in order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: optional startup summary line
package component
