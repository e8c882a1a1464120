// Package component defines the lifecycle contract shared by fixtures and
// other managed resources.
//
// A Component is started, stopped and asked for its health. The Registry
// starts components in registration order and stops them in reverse, so a
// fixture that depends on another is registered after it.
package component
