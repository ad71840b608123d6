package models

import "time"

// User is the single locally authenticated account on a device.
type User struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	DisplayName          string    `json:"display_name,omitempty"`
	ReminderTime         string    `json:"reminder_time,omitempty"` // HH:MM, empty when unset
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UserUpdate is a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Email                *string `validate:"omitempty,email"`
	DisplayName          *string `validate:"omitempty,max=100"`
	ReminderTime         *string `validate:"omitempty,hhmm"`
	NotificationsEnabled *bool
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.DisplayName == nil && u.ReminderTime == nil && u.NotificationsEnabled == nil
}

// Apply returns a copy of user with the update applied.
func (u UserUpdate) Apply(user User) User {
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.DisplayName != nil {
		user.DisplayName = *u.DisplayName
	}
	if u.ReminderTime != nil {
		user.ReminderTime = *u.ReminderTime
	}
	if u.NotificationsEnabled != nil {
		user.NotificationsEnabled = *u.NotificationsEnabled
	}
	return user
}
