package entity

import (
	"strconv"
	"time"

	"github.com/nu7hatch/gouuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a dismissible user-facing message, typically rendered as a
// toast by whatever UI consumes the event bus.
type Notification struct {
	ID       string                 `json:"id"`
	Time     time.Time              `json:"time"`
	Severity Severity               `json:"severity"`
	Title    string                 `json:"title"`
	Detail   string                 `json:"detail"`
	Extra    map[string]interface{} `json:"extra,omitempty"`
}

func NewNotification(severity Severity, title, detail string, extra map[string]interface{}) Notification {
	id := strconv.FormatInt(time.Now().UnixNano(), 10)
	if u, err := uuid.NewV4(); err == nil {
		id = u.String()
	}

	return Notification{
		ID:       id,
		Time:     time.Now(),
		Severity: severity,
		Title:    title,
		Detail:   detail,
		Extra:    extra,
	}
}
