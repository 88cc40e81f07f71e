package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/zentesthq/zentest/internal/client/backend"
	"github.com/zentesthq/zentest/internal/client/config"
	"github.com/zentesthq/zentest/internal/client/identity"
	"github.com/zentesthq/zentest/internal/client/runner"
	"github.com/zentesthq/zentest/internal/client/state"
	"github.com/zentesthq/zentest/internal/client/sync"
	"github.com/zentesthq/zentest/internal/client/view"
	"github.com/zentesthq/zentest/internal/logging"
	"github.com/zentesthq/zentest/internal/models"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	store    *state.Store
	resolver *identity.Resolver
	remote   *backend.RemoteBackend

	backend backend.Backend
	manager *sync.Manager
	runner  *runner.Runner

	// selected tracks the case ids marked for the next bulk run.
	selected map[string]bool

	// listing filters, shared by the functional and API views.
	search       string
	filterStatus string

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, log logging.Logger) *App {
	a := &App{
		config:       c,
		log:          log.With("module", "cli"),
		store:        state.NewStore(),
		selected:     make(map[string]bool),
		filterStatus: view.FilterAll,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}

	var provider identity.Provider
	if c.ServerEndpointAddr != "" {
		a.remote = backend.NewRemoteBackend(normalizeBaseURL(c.ServerEndpointAddr), c.AppID)
		provider = remoteProvider{b: a.remote}
	}
	a.resolver = identity.NewResolver(provider, a.onAuthChange)
	return a
}

// normalizeBaseURL accepts either host:port or a full URL.
func normalizeBaseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}
	return "http://" + addr
}

// onAuthChange rebuilds the session around the new identity: the previous
// manager is torn down first, then the mode-appropriate backend is wired
// into a fresh manager and runner. Selection marks never survive a session
// switch.
func (a *App) onAuthChange(st identity.State, id models.Identity) {
	ctx := context.Background()

	if a.manager != nil {
		a.manager.Close()
		a.manager = nil
	}
	a.backend = nil
	a.runner = nil
	a.selected = make(map[string]bool)

	switch st {
	case identity.StateGuest:
		a.backend = backend.NewLocalBackend()
	case identity.StateAuthenticated:
		a.backend = a.remote
	default:
		a.store.Reset()
		return
	}

	a.manager = sync.NewManager(a.backend, a.store, a.log)
	a.runner = runner.New(a.backend, &runner.RandomStrategy{
		Init:     a.config.RunInitDelay,
		Step:     a.config.RunStepDelay,
		PassRate: a.config.RunPassRate,
	})
	a.runner.Sink = a.printLogEntry

	if err := a.manager.SetIdentity(ctx, id); err != nil {
		a.log.Error(ctx, "starting session sync", "error", err)
	}
}

func (a *App) isSignedIn() bool {
	st, _ := a.resolver.Current()
	return st == identity.StateGuest || st == identity.StateAuthenticated
}

func (a *App) identity() models.Identity {
	_, id := a.resolver.Current()
	return id
}

func (a *App) Run(ctx context.Context) {
	a.resolver.Resolve(ctx)
	a.Root(ctx)
	if a.manager != nil {
		a.manager.Close()
	}
}
