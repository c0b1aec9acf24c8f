package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dmitrijs2005/librarydesk/internal/client/access"
	"github.com/dmitrijs2005/librarydesk/internal/client/config"
	"github.com/dmitrijs2005/librarydesk/internal/client/db"
	"github.com/dmitrijs2005/librarydesk/internal/client/notifications"
	"github.com/dmitrijs2005/librarydesk/internal/client/persist"
	"github.com/dmitrijs2005/librarydesk/internal/client/repositories/identities"
	"github.com/dmitrijs2005/librarydesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/librarydesk/internal/client/session"
	"github.com/dmitrijs2005/librarydesk/internal/client/toast"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/logging"
)

// App is the dashboard shell: the stores it drives plus the REPL state.
type App struct {
	config   *config.Config
	log      logging.Logger
	sessions *session.Store
	inbox    *notifications.Store
	routes   *access.Tree
	toasts   toast.Sink
	reader   *bufio.Reader
	out      io.Writer

	// location is the view the shell is currently "on".
	location string
	closers  []func() error
}

// NewApp opens the database named in c, seeds the default accounts, loads
// the route tree and restores the persisted session and notifications.
// Call Close when done.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	conn, err := db.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	dir := identities.NewSQLiteRepository(conn)
	n, err := identities.Seed(ctx, dir, identities.DefaultIdentities, common.SharedPassword)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("seed identities: %w", err)
	}
	if n > 0 {
		log.Info(ctx, "seeded default accounts", "count", n)
	}

	routes := access.DefaultTree()
	if c.RoutesFile != "" {
		if routes, err = access.LoadTreeFile(c.RoutesFile); err != nil {
			conn.Close()
			return nil, fmt.Errorf("load routes: %w", err)
		}
	}

	kv := persist.NewKV(metadata.NewSQLiteRepository(conn), log)
	sink := toast.NewTerminal(os.Stdout, c.NoColor)

	a, err := newApp(ctx, c, log, dir, kv, routes, sink, os.Stdin, os.Stdout)
	if err != nil {
		conn.Close()
		return nil, err
	}
	a.closers = append(a.closers, conn.Close)
	return a, nil
}

// newApp assembles the shell over already-built collaborators.
func newApp(ctx context.Context, c *config.Config, log logging.Logger, dir identities.Directory,
	kv persist.Store, routes *access.Tree, sink toast.Sink, in io.Reader, out io.Writer) (*App, error) {

	a := &App{
		config:   c,
		log:      log,
		sessions: session.NewStore(dir, kv, log, c.AuthLatency),
		inbox:    notifications.NewStore(kv, log),
		routes:   routes,
		toasts:   sink,
		reader:   bufio.NewReader(in),
		out:      out,
	}

	detachToasts := toast.Attach(a.inbox, sink)
	unwatch := a.sessions.Subscribe(func(st session.State) {
		if st.Session != nil {
			log.Debug(context.Background(), "session state", "email", st.Session.Email, "loading", st.Loading)
		} else {
			log.Debug(context.Background(), "session state", "authenticated", false, "loading", st.Loading)
		}
	})
	a.closers = append(a.closers,
		func() error { detachToasts(); return nil },
		func() error { unwatch(); return nil },
	)

	if err := a.sessions.Initialize(ctx); err != nil {
		return nil, err
	}
	a.inbox.Restore(ctx)
	a.navigate(access.HomePath)

	return a, nil
}

// Run prints a banner and blocks in the REPL until the user exits or input
// ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to librarydesk (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// Close releases the database and detaches subscribers, in reverse order of
// acquisition.
func (a *App) Close() error {
	var errs []error
	for _, c := range slices.Backward(a.closers) {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

// status renders the prompt badge: who is logged in, the current view and
// the unread count.
func (a *App) status() string {
	st := a.sessions.Current()

	parts := make([]string, 0, 3)
	if st.Session != nil {
		parts = append(parts, fmt.Sprintf("%s:%s", st.Session.Email, st.Session.Role))
	}
	parts = append(parts, a.location)
	if st.Session != nil {
		if n := a.inbox.UnreadCount(); n > 0 {
			parts = append(parts, fmt.Sprintf("%d unread", n))
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}
