package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codetrack-app/codetrack/internal/client/session"
	"github.com/codetrack-app/codetrack/internal/common"
	"github.com/stretchr/testify/require"
)

// staticToken is a TokenSource returning a fixed value.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerTransport_AttachesCurrentToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user":{"id":1,"username":"ada"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok-123"), time.Second)
	_, err := c.Verify(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestBearerTransport_NoHeaderWithoutToken(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{"id":1,"username":"ada"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""), time.Second)
	_, err := c.Verify(context.Background())
	require.NoError(t, err)
	require.False(t, sawHeader, "no Authorization header may be sent after the token is cleared")
}

func TestBearerTransport_TokenReadAtRequestBuildTime(t *testing.T) {
	store := session.NewStore()
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":1,"username":"ada"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, time.Second)
	ctx := context.Background()

	store.SetToken("first")
	_, err := c.Verify(ctx)
	require.NoError(t, err)

	store.Logout()
	_, err = c.Verify(ctx)
	require.NoError(t, err)

	require.Equal(t, []string{"Bearer first", ""}, gotAuth)
}

func TestVerify_MapsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("expired"), time.Second)
	_, err := c.Verify(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestVerify_MapsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), time.Second)
	_, err := c.Verify(context.Background())
	require.ErrorIs(t, err, session.ErrUnrecognizedResponse)
}

func TestVerify_MapsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), time.Second)
	_, err := c.Verify(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestVerify_MapsConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewClient(srv.URL, staticToken("tok"), time.Second)
	_, err := c.Verify(context.Background())
	require.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestVerify_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), 20*time.Millisecond)
	_, err := c.Verify(context.Background())
	require.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestCurrentUser_DecodesDataWrappedProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/current", r.URL.Path)
		w.Write([]byte(`{"data":{"id":4,"username":"joan","subscriptionTier":"PRO"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"), time.Second)
	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 4, u.ID)
	require.Equal(t, "PRO", u.SubscriptionTier)
}
