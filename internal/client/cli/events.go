package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/librarydesk/internal/client/access"
	"github.com/dmitrijs2005/librarydesk/internal/client/models"
)

// Views whose gates the catalog events go through.
const (
	borrowingPath = "/borrowing"
	returnsPath   = "/returns"
)

// Notify raises a notification of the given kind. The message is prompted
// for; it may be empty.
func (a *App) Notify(ctx context.Context, kind, title string) error {
	if err := a.guard(access.HomePath); err != nil {
		return err
	}

	k, err := models.ParseKind(kind)
	if err != nil {
		return err
	}

	message, err := getSimpleText(a.reader, "Enter message", a.out)
	if err != nil {
		return err
	}

	a.inbox.Add(ctx, title, message, k)
	return nil
}

// Issue records that book was lent to member.
func (a *App) Issue(ctx context.Context, book, member string) error {
	if err := a.guard(borrowingPath); err != nil {
		return err
	}
	a.inbox.Add(ctx, "Book Issued",
		fmt.Sprintf("%q has been issued to %s.", book, member), models.KindSuccess)
	return nil
}

// Return records that member brought book back.
func (a *App) Return(ctx context.Context, book, member string) error {
	if err := a.guard(returnsPath); err != nil {
		return err
	}
	a.inbox.Add(ctx, "Book Returned",
		fmt.Sprintf("%q has been returned by %s.", book, member), models.KindSuccess)
	return nil
}
