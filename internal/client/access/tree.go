package access

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"gopkg.in/yaml.v3"
)

// Route is a node of the route tree. A route with Protected set or with a
// non-empty Roles list is a gate. A route without Path is a layout that only
// groups its children under its gate. Paths are absolute; a trailing "/*"
// matches any path below the prefix.
type Route struct {
	Path      string        `yaml:"path,omitempty"`
	Protected bool          `yaml:"protected,omitempty"`
	Roles     []models.Role `yaml:"roles,omitempty"`
	Children  []Route       `yaml:"children,omitempty"`
}

func (r *Route) gated() bool {
	return r.Protected || len(r.Roles) > 0
}

// Tree maps paths to gates. Unmatched paths redirect to Fallback.
type Tree struct {
	Fallback string  `yaml:"fallback"`
	Routes   []Route `yaml:"routes"`
}

// Resolve decides the view at p. Gates are evaluated from the root down and
// the first one that does not allow wins, so a nested gate is consulted only
// after all of its ancestors allowed.
func (t *Tree) Resolve(p string, s *models.Session, loading bool) Decision {
	chain := t.Match(p)
	if chain == nil {
		return Decision{Verdict: Redirect, Target: t.fallback()}
	}

	for _, r := range chain {
		if !r.gated() {
			continue
		}
		if d := Decide(s, loading, models.NewRoleSet(r.Roles...)); d.Verdict != Allow {
			return d
		}
	}
	return Decision{Verdict: Allow}
}

// Match returns the chain of routes from the root to the route matching p,
// or nil. Exact paths take precedence over wildcard paths.
func (t *Tree) Match(p string) []*Route {
	p = path.Clean("/" + p)
	if chain := find(t.Routes, p, false); chain != nil {
		return chain
	}
	return find(t.Routes, p, true)
}

func (t *Tree) fallback() string {
	if t.Fallback == "" {
		return HomePath
	}
	return t.Fallback
}

func find(routes []Route, p string, wildcard bool) []*Route {
	for i := range routes {
		r := &routes[i]
		if r.Path != "" && matches(r.Path, p, wildcard) {
			return []*Route{r}
		}
		if sub := find(r.Children, p, wildcard); sub != nil {
			return append([]*Route{r}, sub...)
		}
	}
	return nil
}

func matches(pattern, p string, wildcard bool) bool {
	prefix, isWildcard := strings.CutSuffix(pattern, "*")
	if isWildcard != wildcard {
		return false
	}
	if !wildcard {
		return pattern == p
	}
	// "/members/*" covers "/members/42" but not "/members" itself.
	return strings.HasPrefix(p, prefix)
}

// DefaultTree is the route layout of the dashboard: public auth pages, and
// every dashboard page behind a login gate. User management is admin-only.
func DefaultTree() *Tree {
	page := func(p string) Route { return Route{Path: p} }
	return &Tree{
		Fallback: HomePath,
		Routes: []Route{
			page(LoginPath),
			page("/register"),
			page(UnauthorizedPath),
			{
				Protected: true,
				Children: []Route{
					page(HomePath),
					page("/books"),
					page("/members"),
					page("/members/*"),
					page("/borrowing"),
					page("/returns"),
					page("/categories"),
					page("/authors"),
					page("/reports"),
					page("/settings"),
					page("/profile"),
					{Path: "/users", Roles: []models.Role{models.RoleAdmin}},
				},
			},
		},
	}
}

// LoadTree reads a YAML route tree. Unknown fields and unknown role names
// are rejected.
func LoadTree(r io.Reader) (*Tree, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Tree
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("route tree is empty")
		}
		return nil, fmt.Errorf("decode route tree: %w", err)
	}
	if err := validate(t.Routes); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTreeFile reads a YAML route tree from path.
func LoadTreeFile(name string) (*Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTree(f)
}

func validate(routes []Route) error {
	for _, r := range routes {
		if r.Path == "" && len(r.Children) == 0 {
			return errors.New("route without path must have children")
		}
		if r.Path != "" && !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("route path %q must be absolute", r.Path)
		}
		if err := validate(r.Children); err != nil {
			return err
		}
	}
	return nil
}
