package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/librarydesk/internal/client/access"
)

// errNotAllowed is returned by commands whose view the gates did not admit.
var errNotAllowed = errors.New("not allowed")

// Open navigates to path, following any redirect the gates produce.
func (a *App) Open(_ context.Context, path string) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	d := a.navigate(path)
	switch d.Verdict {
	case access.Allow:
		fmt.Fprintf(a.out, "Opened %s\n", path)
	case access.Redirect:
		fmt.Fprintf(a.out, "Redirected from %s to %s\n", path, d.Target)
	case access.Pending:
		fmt.Fprintln(a.out, "Still loading, try again in a moment")
	}
	return nil
}

// navigate resolves path against the route tree and moves the shell to
// wherever the decision lands. A pending decision leaves it in place.
func (a *App) navigate(path string) access.Decision {
	st := a.sessions.Current()
	d := a.routes.Resolve(path, st.Session, st.Loading)

	switch d.Verdict {
	case access.Allow:
		a.location = path
	case access.Redirect:
		a.location = d.Target
	}
	return d
}

// guard checks that the view at path would render for the current session,
// without moving the shell.
func (a *App) guard(path string) error {
	st := a.sessions.Current()
	d := a.routes.Resolve(path, st.Session, st.Loading)
	if d.Verdict != access.Allow {
		return fmt.Errorf("%w: %s (%s)", errNotAllowed, path, d)
	}
	return nil
}
