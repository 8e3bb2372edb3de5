package models

import (
	"strings"
	"testing"
)

func TestNewGuestIdentity(t *testing.T) {
	g := NewGuestIdentity()
	if g.ID != GuestID {
		t.Errorf("guest ID = %q; want %q", g.ID, GuestID)
	}
	if !g.IsGuest {
		t.Error("IsGuest = false; want true")
	}
	if g.Email != "" {
		t.Errorf("guest email = %q; want empty", g.Email)
	}
}

func TestNewIdentity(t *testing.T) {
	id, err := NewIdentity("u1", "a@b.io", "Alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.IsGuest {
		t.Error("authenticated identity marked as guest")
	}

	if _, err := NewIdentity("", "a@b.io", "", ""); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := NewIdentity(GuestID, "a@b.io", "", ""); err == nil {
		t.Error("expected error for reserved guest id")
	}
}

func TestTaskValidate(t *testing.T) {
	valid := CalendarTask{
		Date:      "2025-03-01",
		Hour:      "19:00",
		Type:      TaskPublish,
		Title:     "Launch",
		CreatedBy: OriginUser,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CalendarTask)
	}{
		{"bad date", func(c *CalendarTask) { c.Date = "03/01/2025" }},
		{"bad hour", func(c *CalendarTask) { c.Hour = "7pm" }},
		{"bad type", func(c *CalendarTask) { c.Type = "meeting" }},
		{"bad origin", func(c *CalendarTask) { c.CreatedBy = "bot" }},
		{"empty title", func(c *CalendarTask) { c.Title = "" }},
		{"long title", func(c *CalendarTask) { c.Title = strings.Repeat("x", MaxTitleLength+1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := valid
			tc.mutate(&task)
			if err := task.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}
