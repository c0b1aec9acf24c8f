package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/librarydesk/internal/client/access"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dustin/go-humanize"
)

// Notifications prints the notification menu, newest first, numbered so
// that "read <n>" can refer to an entry.
func (a *App) Notifications(_ context.Context) error {
	if err := a.guard(access.HomePath); err != nil {
		return err
	}

	items := a.inbox.List()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}

	fmt.Fprintf(a.out, "Notifications (%d unread)\n", a.inbox.UnreadCount())
	for i, n := range items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %2d. [%s] %s: %s (%s)\n   id %s\n",
			mark, i+1, n.Kind, n.Title, n.Message, humanize.Time(n.CreatedAt), n.ID)
	}
	return nil
}

// Read marks one notification as read. ref is either its position in the
// menu (1-based) or its id.
func (a *App) Read(ctx context.Context, ref string) error {
	if err := a.guard(access.HomePath); err != nil {
		return err
	}

	id, err := a.lookup(ref)
	if err != nil {
		return err
	}
	a.inbox.MarkAsRead(ctx, id)
	return nil
}

// ReadAll marks every notification as read.
func (a *App) ReadAll(ctx context.Context) error {
	if err := a.guard(access.HomePath); err != nil {
		return err
	}
	a.inbox.MarkAllAsRead(ctx)
	fmt.Fprintln(a.out, "All notifications marked as read")
	return nil
}

// Clear drops every notification.
func (a *App) Clear(ctx context.Context) error {
	if err := a.guard(access.HomePath); err != nil {
		return err
	}
	a.inbox.Clear(ctx)
	fmt.Fprintln(a.out, "Notifications cleared")
	return nil
}

func (a *App) lookup(ref string) (string, error) {
	items := a.inbox.List()

	if i, err := strconv.Atoi(ref); err == nil {
		if i < 1 || i > len(items) {
			return "", fmt.Errorf("notification %d: %w", i, common.ErrorNotFound)
		}
		return items[i-1].ID, nil
	}

	for _, n := range items {
		if n.ID == ref {
			return n.ID, nil
		}
	}
	return "", fmt.Errorf("notification %s: %w", ref, common.ErrorNotFound)
}
