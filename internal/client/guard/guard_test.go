package guard

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/codetrack-app/codetrack/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeMarker bool

func (f fakeMarker) HasCredential(ctx context.Context) bool { return bool(f) }

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCheck_PublicPathsAlwaysPass(t *testing.T) {
	g := New(nil, fakeMarker(false))
	ctx := context.Background()

	for _, path := range []string{"/auth", "/auth/callback", "/auth?error=no_token", "/leaderboard", "/leaderboard?range=last_7_days"} {
		res := g.Check(ctx, path)
		require.True(t, res.Allowed, "path %s must be public", path)
		require.Empty(t, res.RedirectTo)
	}
}

func TestCheck_ProtectedWithoutMarkerRedirects(t *testing.T) {
	g := New(nil, fakeMarker(false))

	res := g.Check(context.Background(), "/dashboard")
	require.False(t, res.Allowed)
	require.Equal(t, "/auth?redirect=%2Fdashboard", res.RedirectTo)
}

func TestCheck_RedirectParameterIsEscaped(t *testing.T) {
	g := New(nil, fakeMarker(false))

	res := g.Check(context.Background(), "/profile?tab=stats&x=1")
	require.Equal(t, "/auth?redirect=%2Fprofile%3Ftab%3Dstats%26x%3D1", res.RedirectTo)
}

func TestCheck_ProtectedWithMarkerPasses(t *testing.T) {
	g := New(nil, fakeMarker(true))

	res := g.Check(context.Background(), "/dashboard")
	require.True(t, res.Allowed)
}

func TestCheck_ClassificationIgnoresCredentialState(t *testing.T) {
	// public stays public with or without a marker
	for _, marker := range []fakeMarker{false, true} {
		g := New(nil, marker)
		require.True(t, g.IsPublic("/leaderboard"))
		require.False(t, g.IsPublic("/dashboard"))
	}
}

func TestNavigator_GuardedNavigation(t *testing.T) {
	g := New(nil, fakeMarker(false))
	nav := NewNavigator(g, discardLogger())
	ctx := context.Background()

	got := nav.Navigate(ctx, "/dashboard")
	require.Equal(t, "/auth?redirect=%2Fdashboard", got)
	require.Equal(t, got, nav.Current())

	got = nav.Navigate(ctx, "/leaderboard")
	require.Equal(t, "/leaderboard", got)
}

func TestNavigator_ReevaluateAfterRehydration(t *testing.T) {
	// marker flips to present mid-test, as when rehydration finishes after
	// the guard already bounced the user
	marker := &switchableMarker{}
	g := New(nil, marker)
	nav := NewNavigator(g, discardLogger())
	ctx := context.Background()

	nav.Navigate(ctx, "/dashboard")
	require.Equal(t, "/auth?redirect=%2Fdashboard", nav.Current())

	marker.present = true
	nav.Reevaluate(ctx)
	require.Equal(t, "/dashboard", nav.Current(), "user must not be stranded on the login page")

	// a second reevaluation changes nothing
	nav.Reevaluate(ctx)
	require.Equal(t, "/dashboard", nav.Current())
}

func TestNavigator_ReplaceClearsPending(t *testing.T) {
	marker := &switchableMarker{}
	g := New(nil, marker)
	nav := NewNavigator(g, discardLogger())
	ctx := context.Background()

	nav.Navigate(ctx, "/profile")
	nav.Replace("/dashboard")
	marker.present = true
	nav.Reevaluate(ctx)
	require.Equal(t, "/dashboard", nav.Current())
}

type switchableMarker struct {
	present bool
}

func (s *switchableMarker) HasCredential(ctx context.Context) bool { return s.present }
