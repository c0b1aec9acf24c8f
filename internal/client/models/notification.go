package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a notification. It also selects the toast style.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInfo, KindSuccess, KindWarning, KindError:
		return true
	default:
		return false
	}
}

// ParseKind converts user input to a Kind. An empty string yields KindInfo.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindInfo, nil
	}
	if k := Kind(s); k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("unknown notification kind %q", s)
}

// Notification is a queued user-facing event.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"timestamp"`
}
