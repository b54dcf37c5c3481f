package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/codetrack-app/codetrack/internal/client/guard"
	"github.com/codetrack-app/codetrack/internal/common"
)

// Whoami shows the signed-in profile, fetched fresh from the backend.
func (a *App) Whoami(ctx context.Context) error {
	if !a.service.IsAuthenticated() {
		printlnFn("Not signed in.")
		return nil
	}

	u, err := a.profile.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			a.expireSession(ctx, a.nav.Current())
			return err
		}
		printlnFn("Could not load profile:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s <%s> provider=%s tier=%s", u.Username, u.Email, u.Provider, u.SubscriptionTier))
	return nil
}

// Open navigates to path through the route guard. Protected pages fetch
// backend data; a rejected fetch means the cached token went stale, so the
// session is torn down and the user lands on sign-in with the requested
// path preserved.
func (a *App) Open(ctx context.Context, path string) error {
	route := a.nav.Navigate(ctx, path)
	if route != path {
		printlnFn("Redirected to", route)
		return nil
	}
	if a.routes.IsPublic(path) {
		printlnFn("Viewing", route)
		return nil
	}

	if _, err := a.profile.CurrentUser(ctx); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			a.expireSession(ctx, path)
			return err
		}
		printlnFn("Could not load page data:", err.Error())
		return err
	}

	printlnFn("Viewing", route)
	return nil
}

// Status reports the route and session state.
func (a *App) Status(_ context.Context) error {
	printlnFn("Route:", a.nav.Current())
	if a.config != nil {
		printlnFn("Backend:", a.config.BackendURL)
	}
	switch {
	case a.service.IsAuthenticated():
		printlnFn("Session: signed in as", a.service.CurrentUser().Username)
	case a.service.Pending():
		printlnFn("Session: pending verification")
	default:
		printlnFn("Session: signed out")
	}
	return nil
}

// expireSession handles a backend rejection of the current token: full
// logout, then back to sign-in remembering where the user wanted to go.
func (a *App) expireSession(ctx context.Context, requested string) {
	a.log.Warn(ctx, "backend rejected the session token", "path", requested)
	a.service.Logout()
	a.nav.Replace(guard.LoginPath + "?redirect=" + url.QueryEscape(requested))
	printlnFn("Session expired, please sign in again.")
}
