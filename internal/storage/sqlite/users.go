package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/models"
)

const userCols = `id, email, display_name, reminder_time, notifications_enabled, created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var displayName, reminderTime sql.NullString
	var notifications sql.NullInt64
	var createdAt, updatedAt string

	if err := row.Scan(&u.ID, &u.Email, &displayName, &reminderTime, &notifications, &createdAt, &updatedAt); err != nil {
		return models.User{}, err
	}

	u.DisplayName = displayName.String
	u.ReminderTime = reminderTime.String
	// Column default is 1; NULL means the user never opted out
	u.NotificationsEnabled = !notifications.Valid || notifications.Int64 != 0

	var err error
	if u.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.User{}, err
	}
	if u.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateUser(user models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := s.db.Exec(`
		INSERT INTO users (`+userCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, nullString(user.DisplayName), nullString(user.ReminderTime),
		boolToInt(user.NotificationsEnabled), formatTime(user.CreatedAt), formatTime(user.UpdatedAt))
	return apperr.Storage("insert user", err)
}

func (s *Store) getUser(where string, arg any) (models.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE `+where+` = ?`, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user %s=%v", where, arg)
	}
	if err != nil {
		return models.User{}, apperr.Storage("get user", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(id string) (models.User, error) {
	return s.getUser("id", id)
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	return s.getUser("email", email)
}

func (s *Store) UpdateUser(id string, update models.UserUpdate) (models.User, error) {
	var sets []string
	var args []any

	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *update.Email)
	}
	if update.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, nullString(*update.DisplayName))
	}
	if update.ReminderTime != nil {
		sets = append(sets, "reminder_time = ?")
		args = append(args, nullString(*update.ReminderTime))
	}
	if update.NotificationsEnabled != nil {
		sets = append(sets, "notifications_enabled = ?")
		args = append(args, boolToInt(*update.NotificationsEnabled))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	result, err := s.db.Exec(`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return models.User{}, apperr.Storage("update user", err)
	}
	if err := checkAffected(result, "update user", apperr.NotFound("user %s", id)); err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(id)
}

// DeleteUser removes the user; questions and answers go with it via ON DELETE CASCADE.
func (s *Store) DeleteUser(id string) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return apperr.Storage("delete user", err)
	}
	return checkAffected(result, "delete user", apperr.NotFound("user %s", id))
}
