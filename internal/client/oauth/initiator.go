// Package oauth starts the provider sign-in flow. The backend owns the
// provider handshake; the client's job is to open the authorization entry
// point in a browser and collect the token the backend sends back to a
// short-lived loopback listener.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/browser"

	"github.com/codetrack-app/codetrack/internal/common"
	"github.com/codetrack-app/codetrack/internal/logging"
)

// ErrMissingProvider is returned when a flow is started without naming a
// provider. The redirect must never be built with an empty provider segment.
var ErrMissingProvider = errors.New("provider is required")

const successPage = `<!DOCTYPE html>
<html><body>
<h3>Signed in to CodeTrack</h3>
<p>You can close this tab and return to the terminal.</p>
</body></html>`

type Initiator struct {
	backendURL   string
	callbackAddr string
	openBrowser  func(url string) error
	log          logging.Logger
}

func NewInitiator(backendURL, callbackAddr string, log logging.Logger) *Initiator {
	return &Initiator{
		backendURL:   strings.TrimRight(backendURL, "/"),
		callbackAddr: callbackAddr,
		openBrowser:  browser.OpenURL,
		log:          log,
	}
}

// SetBrowserOpener replaces the function used to launch the browser.
func (i *Initiator) SetBrowserOpener(fn func(url string) error) {
	i.openBrowser = fn
}

// AuthURL builds the backend authorization URL for provider. returnURL tells
// the backend where to send the user, token attached, once the provider
// handshake completes. Fails before any redirect if provider is empty.
func (i *Initiator) AuthURL(provider, returnURL string) (string, error) {
	if provider == "" {
		return "", ErrMissingProvider
	}
	u := i.backendURL + "/auth/" + url.PathEscape(provider)
	if returnURL != "" {
		u += "?returnUrl=" + url.QueryEscape(returnURL)
	}
	return u, nil
}

// Start runs the browser flow end to end: binds the loopback listener, opens
// the authorization URL and blocks until the backend redirects back with a
// token, the callback reports an error, or ctx expires. The returned token is
// unverified; handing it to the session layer is the caller's job.
func (i *Initiator) Start(ctx context.Context, provider string) (string, error) {
	if provider == "" {
		return "", ErrMissingProvider
	}

	ln, err := net.Listen("tcp", i.callbackAddr)
	if err != nil {
		return "", fmt.Errorf("starting callback listener: %w", err)
	}
	defer ln.Close()

	callbackURL := fmt.Sprintf("http://%s/callback", ln.Addr().String())
	authURL, err := i.AuthURL(provider, callbackURL)
	if err != nil {
		return "", err
	}

	tokenChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if cause := r.URL.Query().Get("error"); cause != "" {
			http.Error(w, "Sign-in failed. You can close this tab.", http.StatusBadRequest)
			errChan <- fmt.Errorf("authorization failed: %s", cause)
			return
		}
		token := r.URL.Query().Get(common.TokenQueryParam)
		if token == "" {
			http.Error(w, "Missing token. You can close this tab.", http.StatusBadRequest)
			errChan <- errors.New("callback carried no token")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, successPage)
		tokenChan <- token
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	i.log.Info(ctx, "opening browser for authorization", "provider", provider, "url", authURL)
	if err := i.openBrowser(authURL); err != nil {
		// the flow still works if the user opens the URL by hand
		i.log.Warn(ctx, "could not open browser, open the URL manually", "url", authURL, "error", err)
	}

	select {
	case token := <-tokenChan:
		return token, nil
	case err := <-errChan:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
