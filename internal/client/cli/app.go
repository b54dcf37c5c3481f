// Package cli is the interactive terminal frontend for CodeTrack: a small
// REPL over the session lifecycle, the route guard, and the backend API.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/codetrack-app/codetrack/internal/client/api"
	"github.com/codetrack-app/codetrack/internal/client/config"
	"github.com/codetrack-app/codetrack/internal/client/guard"
	"github.com/codetrack-app/codetrack/internal/client/oauth"
	"github.com/codetrack-app/codetrack/internal/client/session"
	"github.com/codetrack-app/codetrack/internal/client/storage"
	"github.com/codetrack-app/codetrack/internal/logging"

	_ "modernc.org/sqlite"
)

// sessionManager is the slice of the session service the commands need.
type sessionManager interface {
	HandleCallback(ctx context.Context, token string) error
	Rehydrate(ctx context.Context) bool
	Revalidate(ctx context.Context) bool
	Logout()
	IsAuthenticated() bool
	Pending() bool
	CurrentUser() *session.User
}

// loginFlow starts a provider sign-in and returns the raw token.
type loginFlow interface {
	Start(ctx context.Context, provider string) (string, error)
}

// profileFetcher loads the signed-in user's profile from the backend.
type profileFetcher interface {
	CurrentUser(ctx context.Context) (*session.User, error)
}

type App struct {
	config  *config.Config
	db      *sql.DB
	service sessionManager
	flow    loginFlow
	profile profileFetcher
	routes  *guard.Guard
	nav     *guard.Navigator
	reader  *bufio.Reader
	log     logging.Logger
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		log.Error(ctx, "error initializing credential cache", "error", err)
		return nil, err
	}

	repo := storage.NewSQLiteRepository(db)
	store := session.NewStore()

	persist := session.NewPersistence(repo, log)
	persist.Attach(ctx, store)

	apiClient := api.NewClient(c.BackendURL, store, c.RequestTimeout)

	g := guard.New(nil, &guard.CacheMarker{Repo: repo})
	nav := guard.NewNavigator(g, log)

	svc := session.NewService(store, apiClient, nav, persist, log, c.RequestTimeout)
	flow := oauth.NewInitiator(c.BackendURL, c.CallbackAddr, log)

	return &App{
		config:  c,
		db:      db,
		service: svc,
		flow:    flow,
		profile: apiClient,
		routes:  g,
		nav:     nav,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
	}, nil
}

// Run restores any cached session, settles it against the backend, then
// hands control to the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) {
	if a.service.Rehydrate(ctx) {
		a.service.Revalidate(ctx)
	}
	a.nav.Reevaluate(ctx)

	printlnFn("CodeTrack CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.service.IsAuthenticated()
}

// status feeds the REPL prompt: the confirmed username, "pending" while a
// rehydrated token awaits verification, or "anonymous".
func (a *App) status() string {
	if u := a.service.CurrentUser(); u != nil {
		return u.Username
	}
	if a.service.Pending() {
		return "pending"
	}
	return "anonymous"
}
