package event

type Type string

const (
	NotificationEvent Type = "NotificationEvent"
	ThemeChangedEvent Type = "ThemeChangedEvent"
	StateChangedEvent Type = "StateChangedEvent"
	RefreshEvent      Type = "RefreshEvent"
)
