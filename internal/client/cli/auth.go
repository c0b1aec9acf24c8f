package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/librarydesk/internal/client/access"
	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for a name, email and password and creates a user-role
// account, which is logged in straight away.
//
// The password byte slice is wiped before returning. Validation, duplicate
// email and I/O errors are returned unchanged.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.sessions.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", s.Name)
	a.navigate(access.HomePath)
	return nil
}

// Login prompts for credentials and authenticates against the local
// directory. On success the shell moves to the dashboard home.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.sessions.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome back, %s!\n", s.Name)
	a.navigate(access.HomePath)
	return nil
}

// Logout ends the session and returns the shell to the login view. The
// confirmation is a transient toast, not a queued notification.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	a.toasts.Notify(models.KindInfo, "Logged out", "You have been logged out successfully")
	a.navigate(access.LoginPath)
	return nil
}

// WhoAmI prints the profile of the current session.
func (a *App) WhoAmI(_ context.Context) error {
	s := a.sessions.Session()
	if s == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\nRole:  %s\nID:    %s\n", s.Name, s.Email, s.Role, s.ID)
	if s.Avatar != "" {
		fmt.Fprintf(a.out, "Avatar: %s\n", s.Avatar)
	}
	return nil
}
