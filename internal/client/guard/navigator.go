package guard

import (
	"context"
	"sync"

	"github.com/codetrack-app/codetrack/internal/logging"
)

// Navigator tracks the current route and applies the guard on every
// navigation. It plays the role the router plays in the web client.
type Navigator struct {
	mu      sync.Mutex
	guard   *Guard
	log     logging.Logger
	current string
	// pending remembers a protected path the user was bounced from, so the
	// guard can re-evaluate after rehydration instead of stranding the user
	// on the login page.
	pending string
}

func NewNavigator(g *Guard, log logging.Logger) *Navigator {
	return &Navigator{guard: g, log: log, current: "/"}
}

// Current returns the current route.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Replace moves to path without consulting the guard, like a router
// replace after a completed flow. Clears any pending redirect.
func (n *Navigator) Replace(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
	n.pending = ""
}

// Navigate applies the guard to path and moves either there or to the
// guard's redirect target. Returns the resulting route.
func (n *Navigator) Navigate(ctx context.Context, path string) string {
	res := n.guard.Check(ctx, path)

	n.mu.Lock()
	defer n.mu.Unlock()
	if res.Allowed {
		n.current = path
		n.pending = ""
	} else {
		n.log.Debug(ctx, "redirecting unauthenticated navigation", "path", path)
		n.pending = path
		n.current = res.RedirectTo
	}
	return n.current
}

// Reevaluate re-runs the guard for a pending redirect. Called after
// rehydration completes so a session restored late still reaches the page
// originally requested.
func (n *Navigator) Reevaluate(ctx context.Context) {
	n.mu.Lock()
	pending := n.pending
	n.mu.Unlock()
	if pending == "" {
		return
	}
	n.Navigate(ctx, pending)
}
