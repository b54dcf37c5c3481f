package oauth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/codetrack-app/codetrack/internal/logging"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAuthURL(t *testing.T) {
	i := NewInitiator("http://localhost:3000/api/v1/", "127.0.0.1:0", testLogger())

	got, err := i.AuthURL("github", "http://127.0.0.1:53682/callback")
	require.NoError(t, err)
	require.Equal(t,
		"http://localhost:3000/api/v1/auth/github?returnUrl=http%3A%2F%2F127.0.0.1%3A53682%2Fcallback",
		got)
}

func TestAuthURL_EmptyProviderFailsFast(t *testing.T) {
	i := NewInitiator("http://localhost:3000/api/v1", "127.0.0.1:0", testLogger())

	_, err := i.AuthURL("", "http://127.0.0.1:53682/callback")
	require.ErrorIs(t, err, ErrMissingProvider)

	_, err = i.Start(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingProvider)
}

// fakeBackend plays the backend's part: follow the returnUrl embedded in the
// authorization URL and append the given query.
func fakeBackend(t *testing.T, query string) func(string) error {
	t.Helper()
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		require.NoError(t, err)
		returnURL := u.Query().Get("returnUrl")
		require.NotEmpty(t, returnURL)
		go func() {
			resp, err := http.Get(returnURL + query)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestStart_DeliversTokenFromCallback(t *testing.T) {
	i := NewInitiator("http://localhost:3000/api/v1", "127.0.0.1:0", testLogger())
	i.SetBrowserOpener(fakeBackend(t, "?token=tok-abc"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := i.Start(ctx, "github")
	require.NoError(t, err)
	require.Equal(t, "tok-abc", token)
}

func TestStart_CallbackWithoutTokenFails(t *testing.T) {
	i := NewInitiator("http://localhost:3000/api/v1", "127.0.0.1:0", testLogger())
	i.SetBrowserOpener(fakeBackend(t, ""))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := i.Start(ctx, "github")
	require.ErrorContains(t, err, "no token")
}

func TestStart_CallbackErrorPropagates(t *testing.T) {
	i := NewInitiator("http://localhost:3000/api/v1", "127.0.0.1:0", testLogger())
	i.SetBrowserOpener(fakeBackend(t, "?error=access_denied"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := i.Start(ctx, "github")
	require.ErrorContains(t, err, "access_denied")
}

func TestStart_ContextCancelUnblocks(t *testing.T) {
	i := NewInitiator("http://localhost:3000/api/v1", "127.0.0.1:0", testLogger())
	i.SetBrowserOpener(func(string) error { return nil }) // user never completes

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := i.Start(ctx, "github")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStart_BrowserFailureDoesNotAbortFlow(t *testing.T) {
	i := NewInitiator("http://localhost:3000/api/v1", "127.0.0.1:0", testLogger())

	var captured string
	i.SetBrowserOpener(func(authURL string) error {
		captured = authURL
		// simulate a headless machine, then complete the flow by hand
		u, _ := url.Parse(authURL)
		go func() {
			resp, err := http.Get(u.Query().Get("returnUrl") + "?token=manual")
			if err == nil {
				resp.Body.Close()
			}
		}()
		return http.ErrHandlerTimeout
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := i.Start(ctx, "gitlab")
	require.NoError(t, err)
	require.Equal(t, "manual", token)
	require.Contains(t, captured, "/auth/gitlab?returnUrl=")
}
