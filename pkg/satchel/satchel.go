// Package satchel exposes module-level metadata for the satchel context
// store. See docs/ARCHITECTURE.md § Overview.
package satchel

// Version is the current satchel release version.
const Version = "0.1.0"
