// Package cli implements the interactive ZenTest terminal client.
//
// The client runs in one of two session modes. Guest sessions work against
// an in-memory backend seeded with demo fixtures; authenticated sessions
// talk to the sync server over HTTP and receive live snapshots over SSE.
// Both modes share the same command surface.
package cli
