// Package delivery defines the contract shared by all serving surfaces
// (HTTP API, background worker) started from main.
package delivery

import "context"

// Delivery is a long-running serving component owned by the fx application.
type Delivery interface {
	// Serve blocks until the component stops or fails.
	Serve(ctx context.Context) error
}
