package api

import (
	"net/http"

	"github.com/codetrack-app/codetrack/internal/common"
)

// TokenSource yields the bearer token to attach, "" meaning none.
// *session.Store satisfies this.
type TokenSource interface {
	Token() string
}

// bearerTransport attaches the current bearer token to every outgoing
// request. The token is read from the source at request-build time, so a
// request started after logout can never carry the old token: there is no
// deferred window between a store mutation and the header state.
type bearerTransport struct {
	source TokenSource
	next   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	token := t.source.Token()
	if token == "" {
		return next.RoundTrip(req)
	}

	// Per RoundTripper contract the request must not be mutated in place.
	clone := req.Clone(req.Context())
	clone.Header.Set(common.AuthorizationHeader, common.BearerScheme+token)
	return next.RoundTrip(clone)
}
