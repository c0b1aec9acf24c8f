// Package access decides whether a view may render for the current session.
// Denial is an ordinary outcome expressed as a redirect, never an error.
package access

import (
	"fmt"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
)

// Well-known redirect targets.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	HomePath         = "/"
)

type Verdict int

const (
	// Pending means the session is still being restored or established.
	Pending Verdict = iota
	Redirect
	Allow
)

func (v Verdict) String() string {
	switch v {
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	case Allow:
		return "allow"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Decision is the outcome of a gate. Target is set only for Redirect.
type Decision struct {
	Verdict Verdict
	Target  string
}

func (d Decision) String() string {
	if d.Verdict == Redirect {
		return "redirect " + d.Target
	}
	return d.Verdict.String()
}

// Decide evaluates a single gate. An empty required set admits any
// authenticated session; otherwise the session's role must be a member.
// There is no role hierarchy: admin passes a librarian-only gate only if
// admin is listed.
func Decide(s *models.Session, loading bool, required models.RoleSet) Decision {
	switch {
	case loading:
		return Decision{Verdict: Pending}
	case s == nil:
		return Decision{Verdict: Redirect, Target: LoginPath}
	case !required.Empty() && !required.Contains(s.Role):
		return Decision{Verdict: Redirect, Target: UnauthorizedPath}
	default:
		return Decision{Verdict: Allow}
	}
}
