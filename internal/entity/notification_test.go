package entity

import "testing"

func TestNewNotification(t *testing.T) {
	n := NewNotification(SeverityError, "Purchase failed", "network error", map[string]interface{}{"id": "L1"})

	if n.ID == "" {
		t.Error("notification must always carry an id")
	}
	if n.Time.IsZero() {
		t.Error("notification must carry a timestamp")
	}
	if n.Severity != SeverityError || n.Title != "Purchase failed" || n.Detail != "network error" {
		t.Errorf("notification = %+v", n)
	}

	if other := NewNotification(SeveritySuccess, "Listing created", "", nil); other.ID == n.ID {
		t.Error("notification ids must be unique")
	}
}
