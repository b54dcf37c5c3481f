package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/codetrack-app/codetrack/internal/client/oauth"
	"github.com/codetrack-app/codetrack/internal/client/session"
	"github.com/codetrack-app/codetrack/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login runs the browser sign-in flow for provider and completes the session
// with the token the backend sends back. With no provider argument the user
// is prompted for one; an empty answer aborts before any redirect is built.
func (a *App) Login(ctx context.Context, provider string) error {
	if a.service.IsAuthenticated() {
		// same as visiting the sign-in page with a live session
		a.nav.Replace(session.PathDashboard)
		printlnFn("Already signed in.")
		return nil
	}

	if provider == "" {
		p, err := getSimpleText(a.reader, "Enter provider (twitter, linkedin)", os.Stdout)
		if err != nil {
			return err
		}
		provider = p
	}

	token, err := a.flow.Start(ctx, provider)
	if err != nil {
		if errors.Is(err, oauth.ErrMissingProvider) {
			printlnFn("A provider is required.")
			return err
		}
		a.log.Error(ctx, "sign-in flow failed", "error", err)
		printlnFn("Sign-in failed:", err.Error())
		return err
	}

	return a.completeLogin(ctx, token)
}

// Paste completes a session from a token entered by hand, for machines where
// the browser flow cannot reach the loopback listener. The token is read
// without echo.
func (a *App) Paste(ctx context.Context) error {
	token, err := getSecret("Paste session token", os.Stdout)
	if err != nil {
		return err
	}
	return a.completeLogin(ctx, token)
}

func (a *App) completeLogin(ctx context.Context, token string) error {
	if err := a.service.HandleCallback(ctx, token); err != nil {
		switch {
		case errors.Is(err, session.ErrMissingToken):
			printlnFn("No token received, back to sign-in.")
		case errors.Is(err, session.ErrSuperseded):
			printlnFn("A newer sign-in finished first; keeping that session.")
		case errors.Is(err, common.ErrorUnavailable):
			printlnFn("Server unavailable, try again later.")
		default:
			printlnFn("Sign-in failed:", err.Error())
		}
		return err
	}

	if u := a.service.CurrentUser(); u != nil {
		printlnFn(fmt.Sprintf("Signed in as %s.", u.Username))
	}
	return nil
}

// Logout clears the session everywhere: memory, durable cache, prompt.
func (a *App) Logout(_ context.Context) error {
	a.service.Logout()
	printlnFn("Signed out.")
	return nil
}
