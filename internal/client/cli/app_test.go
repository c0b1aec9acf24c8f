package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/librarydesk/internal/client/access"
	"github.com/dmitrijs2005/librarydesk/internal/client/config"
	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/client/persist"
	"github.com/dmitrijs2005/librarydesk/internal/client/repositories/identities"
	"github.com/dmitrijs2005/librarydesk/internal/client/toast"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/logging"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

type shown struct {
	kind    models.Kind
	title   string
	message string
}

type harness struct {
	app    *App
	out    *bytes.Buffer
	toasts []shown
}

func seededDirectory(t *testing.T) *identities.Memory {
	t.Helper()
	dir := identities.NewMemory()
	_, err := identities.Seed(context.Background(), dir, identities.DefaultIdentities, common.SharedPassword)
	require.NoError(t, err)
	return dir
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

// newHarness builds an App over in-memory stores that reads its prompts from
// input. Passwords are read as plain lines.
func newHarness(t *testing.T, input string, kv persist.Store, dir identities.Directory) *harness {
	t.Helper()

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	h := &harness{out: &bytes.Buffer{}}
	sink := toast.SinkFunc(func(kind models.Kind, title, message string) {
		h.toasts = append(h.toasts, shown{kind, title, message})
	})

	app, err := newApp(context.Background(), &config.Config{}, logging.Nop(), dir, kv,
		access.DefaultTree(), sink, strings.NewReader(input), h.out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	h.app = app
	return h
}

// ------------ tests ------------

func TestNewApp_StartsOnLoginWhenNoSession(t *testing.T) {
	h := newHarness(t, "", persist.NewMemory(), seededDirectory(t))

	require.False(t, h.app.isLoggedIn())
	require.Equal(t, access.LoginPath, h.app.location)
	require.Equal(t, "(/login)", h.app.status())
}

func TestNewApp_OverSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DBPath: ":memory:", NoColor: true}

	app, err := NewApp(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	s, err := app.sessions.Login(ctx, "librarian@library.com", common.SharedPassword)
	require.NoError(t, err)
	require.Equal(t, models.RoleLibrarian, s.Role)
}

func TestNewApp_BadRoutesFile(t *testing.T) {
	cfg := &config.Config{DBPath: ":memory:", RoutesFile: "does-not-exist.yaml"}
	_, err := NewApp(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, lines("admin@library.com", "password"), persist.NewMemory(), seededDirectory(t))

	require.NoError(t, h.app.Login(ctx))
	require.True(t, h.app.isLoggedIn())
	require.Equal(t, access.HomePath, h.app.location)
	require.Contains(t, h.out.String(), "Welcome back, Admin User!")
	require.Equal(t, "(admin@library.com:admin /)", h.app.status())

	require.NoError(t, h.app.Logout(ctx))
	require.False(t, h.app.isLoggedIn())
	require.Equal(t, access.LoginPath, h.app.location)
	require.Equal(t, []shown{{models.KindInfo, "Logged out", "You have been logged out successfully"}}, h.toasts)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t, lines("admin@library.com", "nope"), persist.NewMemory(), seededDirectory(t))

	err := h.app.Login(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	require.False(t, h.app.isLoggedIn())
	require.Equal(t, access.LoginPath, h.app.location)
}

func TestLogin_InputEnds(t *testing.T) {
	h := newHarness(t, "", persist.NewMemory(), seededDirectory(t))
	require.Error(t, h.app.Login(context.Background()))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, lines("New Reader", "reader@example.com", "secret1"), persist.NewMemory(), seededDirectory(t))

	require.NoError(t, h.app.Register(ctx))
	require.True(t, h.app.isLoggedIn())

	h.out.Reset()
	require.NoError(t, h.app.WhoAmI(ctx))
	out := h.out.String()
	require.Contains(t, out, "New Reader")
	require.Contains(t, out, "reader@example.com")
	require.Contains(t, out, "Role:  user")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newHarness(t, lines("Someone", "ADMIN@library.com", "secret1"), persist.NewMemory(), seededDirectory(t))

	err := h.app.Register(context.Background())
	require.ErrorIs(t, err, common.ErrEmailAlreadyExists)
	require.False(t, h.app.isLoggedIn())
}

func TestRegister_InvalidInput(t *testing.T) {
	h := newHarness(t, lines("", "not-an-email", "x"), persist.NewMemory(), seededDirectory(t))

	err := h.app.Register(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestWhoAmI_Guest(t *testing.T) {
	h := newHarness(t, "", persist.NewMemory(), seededDirectory(t))
	require.NoError(t, h.app.WhoAmI(context.Background()))
	require.Equal(t, "Not logged in\n", h.out.String())
}

func TestOpen_FollowsGates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, lines("user@example.com", "password"), persist.NewMemory(), seededDirectory(t))

	require.NoError(t, h.app.Open(ctx, "books"))
	require.Equal(t, access.LoginPath, h.app.location)
	require.Contains(t, h.out.String(), "Redirected from /books to /login")

	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Open(ctx, "/members/42"))
	require.Equal(t, "/members/42", h.app.location)

	require.NoError(t, h.app.Open(ctx, "/users"))
	require.Equal(t, access.UnauthorizedPath, h.app.location)

	require.NoError(t, h.app.Open(ctx, "/no/such/page"))
	require.Equal(t, access.HomePath, h.app.location)
}

func TestEvents_RaiseToastsAndNotifications(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, lines("librarian@library.com", "password", "Three copies are late"),
		persist.NewMemory(), seededDirectory(t))

	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Issue(ctx, "Dune", "Alice"))
	require.NoError(t, h.app.Return(ctx, "Dune", "Alice"))
	require.NoError(t, h.app.Notify(ctx, "warning", "Overdue books"))

	require.Equal(t, []shown{
		{models.KindSuccess, "Book Issued", `"Dune" has been issued to Alice.`},
		{models.KindSuccess, "Book Returned", `"Dune" has been returned by Alice.`},
		{models.KindWarning, "Overdue books", "Three copies are late"},
	}, h.toasts)

	require.Equal(t, 3, h.app.inbox.UnreadCount())
	require.Equal(t, "(librarian@library.com:librarian / 3 unread)", h.app.status())
}

func TestNotify_UnknownKind(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, lines("user@example.com", "password"), persist.NewMemory(), seededDirectory(t))
	require.NoError(t, h.app.Login(ctx))

	require.Error(t, h.app.Notify(ctx, "urgent", "Hello"))
	require.Empty(t, h.toasts)
}

func TestEvents_RequireSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", persist.NewMemory(), seededDirectory(t))

	require.ErrorIs(t, h.app.Issue(ctx, "Dune", "Alice"), errNotAllowed)
	require.ErrorIs(t, h.app.Return(ctx, "Dune", "Alice"), errNotAllowed)
	require.ErrorIs(t, h.app.Notify(ctx, "info", "x"), errNotAllowed)
	require.ErrorIs(t, h.app.Notifications(ctx), errNotAllowed)
	require.ErrorIs(t, h.app.Read(ctx, "1"), errNotAllowed)
	require.ErrorIs(t, h.app.ReadAll(ctx), errNotAllowed)
	require.ErrorIs(t, h.app.Clear(ctx), errNotAllowed)

	require.Equal(t, access.LoginPath, h.app.location)
	require.Empty(t, h.toasts)
}

func TestNotificationsMenu(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, lines("admin@library.com", "password"), persist.NewMemory(), seededDirectory(t))
	require.NoError(t, h.app.Login(ctx))

	h.out.Reset()
	require.NoError(t, h.app.Notifications(ctx))
	require.Equal(t, "No notifications\n", h.out.String())

	require.NoError(t, h.app.Issue(ctx, "Dune", "Alice"))
	require.NoError(t, h.app.Issue(ctx, "Emma", "Bob"))

	h.out.Reset()
	require.NoError(t, h.app.Notifications(ctx))
	out := h.out.String()
	require.Contains(t, out, "(2 unread)")
	require.Less(t, strings.Index(out, "Emma"), strings.Index(out, "Dune"), "newest first")

	// position 1 is the newest entry
	require.NoError(t, h.app.Read(ctx, "1"))
	items := h.app.inbox.List()
	require.True(t, items[0].Read)
	require.False(t, items[1].Read)

	require.NoError(t, h.app.Read(ctx, items[1].ID))
	require.Equal(t, 0, h.app.inbox.UnreadCount())

	require.ErrorIs(t, h.app.Read(ctx, "3"), common.ErrorNotFound)
	require.ErrorIs(t, h.app.Read(ctx, "no-such-id"), common.ErrorNotFound)

	require.NoError(t, h.app.Issue(ctx, "Ulysses", "Carol"))
	require.NoError(t, h.app.ReadAll(ctx))
	require.Equal(t, 0, h.app.inbox.UnreadCount())

	require.NoError(t, h.app.Clear(ctx))
	require.Equal(t, 0, h.app.inbox.Len())
}

func TestStateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := persist.NewMemory()
	dir := seededDirectory(t)

	first := newHarness(t, lines("librarian@library.com", "password"), kv, dir)
	require.NoError(t, first.app.Login(ctx))
	require.NoError(t, first.app.Issue(ctx, "Dune", "Alice"))
	require.NoError(t, first.app.Close())

	second := newHarness(t, "", kv, dir)
	require.True(t, second.app.isLoggedIn())
	require.Equal(t, access.HomePath, second.app.location)
	require.Equal(t, 1, second.app.inbox.UnreadCount())
	require.Empty(t, second.toasts, "restored notifications are not toasted again")
}

func TestClose_Idempotent(t *testing.T) {
	h := newHarness(t, "", persist.NewMemory(), seededDirectory(t))
	require.NoError(t, h.app.Close())
	require.NoError(t, h.app.Close())
}

func TestNotify_TrimsTypedMessage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, lines("user@example.com", "password", "   Shelf 4 is full   "), persist.NewMemory(), seededDirectory(t))
	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Notify(ctx, "info", "Shelf"))
	require.Equal(t, []shown{{models.KindInfo, "Shelf", "Shelf 4 is full"}}, h.toasts)
	require.Equal(t, "Shelf 4 is full", h.app.inbox.List()[0].Message)
}
