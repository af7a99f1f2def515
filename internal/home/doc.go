// Package home drives the home screen session.
//
// Allowed here:
// - lifecycle orchestration (create, visible, hidden, destroy)
// - the lock policy and the static gesture routing table
// - bridges from platform sources (battery, to-do store) into display sinks
//
// Not allowed here:
// - rendering, layout or key/mouse decoding
// - writes to settings or to the to-do store
//
// Every entry point is expected to run on the host's single event loop, so
// nothing in this package locks.
package home
