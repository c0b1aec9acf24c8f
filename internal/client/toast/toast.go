// Package toast shows notifications transiently. It is fed by subscribing
// to the notification store, so the store itself never depends on a UI.
package toast

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/client/notifications"
	"github.com/fatih/color"
)

// Sink displays a notification. Implementations are best-effort and must
// not block for long.
type Sink interface {
	Notify(kind models.Kind, title, message string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(kind models.Kind, title, message string)

func (f SinkFunc) Notify(kind models.Kind, title, message string) {
	f(kind, title, message)
}

// Attach forwards every notification added to store to sink.
func Attach(store *notifications.Store, sink Sink) (detach func()) {
	return store.Subscribe(func(ev notifications.Event) {
		if ev.Type != notifications.EventAdded || ev.Added == nil {
			return
		}
		sink.Notify(ev.Added.Kind, ev.Added.Title, ev.Added.Message)
	})
}

// Terminal writes one coloured line per toast.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	styles map[models.Kind]*color.Color
}

// NewTerminal writes toasts to w. Colour is disabled when noColor is set.
func NewTerminal(w io.Writer, noColor bool) *Terminal {
	styles := map[models.Kind]*color.Color{
		models.KindInfo:    color.New(color.FgCyan, color.Bold),
		models.KindSuccess: color.New(color.FgGreen, color.Bold),
		models.KindWarning: color.New(color.FgYellow, color.Bold),
		models.KindError:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range styles {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return &Terminal{w: w, styles: styles}
}

func (t *Terminal) Notify(kind models.Kind, title, message string) {
	style, ok := t.styles[kind]
	if !ok {
		style = t.styles[models.KindInfo]
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	label := style.Sprintf("[%s]", kind)
	if message == "" {
		fmt.Fprintf(t.w, "%s %s\n", label, title)
		return
	}
	fmt.Fprintf(t.w, "%s %s: %s\n", label, title, message)
}
