// Package api provides the HTTP server for the voice platform webhooks and
// caller memory retrieval.
package api

import "github.com/papercomputeco/callmem/api/worker"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// HMACKey is the shared secret post-call webhooks are signed with.
	HMACKey string

	// WorkspaceKey, when set, must match the X-Workspace-Key header of
	// call-start requests.
	WorkspaceKey string

	// SearchLimit caps retrieve results (defaults to 3).
	SearchLimit int

	// MCPEnabled mounts the MCP server under /mcp.
	MCPEnabled bool

	// Jobs receives post-call and archival work.
	Jobs Enqueuer
}

// Enqueuer accepts background jobs. *worker.Pool satisfies it.
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}
