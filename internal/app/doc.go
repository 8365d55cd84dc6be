// Package app wires application dependencies for the CLI and the relay.
//
// It loads Config from <home>/config.yaml, applies the log level, and builds
// the file stores, relay client and high-level services exposed via Wire.
package app
