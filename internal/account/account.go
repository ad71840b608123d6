// Package account manages the single signed-in user on this device. The
// session marker and password hashes live in the secret store; everything else
// lives in the database.
package account

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dailyq/internal/constants"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/logger"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/secrets"
	"github.com/julianstephens/dailyq/internal/storage"
	"github.com/julianstephens/dailyq/internal/validation"
)

type Service struct {
	store   storage.Provider
	secrets secrets.Store
	cost    int

	current atomic.Pointer[models.User]
}

func NewService(store storage.Provider, secretStore secrets.Store) *Service {
	return &Service{
		store:   store,
		secrets: secretStore,
		cost:    bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account, stores its credential, seeds the default
// questions and makes it the active session.
func (s *Service) SignUp(email, password, displayName string) (models.User, error) {
	email = normalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	if err := validation.Struct(validation.SignUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}); err != nil {
		return models.User{}, err
	}

	if err := s.ensureEmailFree(email); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:                   uuid.New().String(),
		Email:                email,
		DisplayName:          displayName,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
	if err := s.store.CreateUser(user); err != nil {
		return models.User{}, err
	}

	if err := s.secrets.Set(constants.UserPasswordKey(user.ID), string(hash)); err != nil {
		// Without a credential the account could never sign in again
		s.rollbackSignUp(user.ID, false)
		return models.User{}, err
	}

	if err := s.seedQuestions(user.ID); err != nil {
		s.rollbackSignUp(user.ID, true)
		return models.User{}, err
	}

	stored, err := s.store.GetUserByID(user.ID)
	if err != nil {
		return models.User{}, err
	}
	if err := s.setSession(stored); err != nil {
		return models.User{}, err
	}

	logger.Info("Account created", "user_id", stored.ID)
	return stored, nil
}

// rollbackSignUp removes a half-created account so the email can be used
// again. Questions go with the user row.
func (s *Service) rollbackSignUp(userID string, credentialStored bool) {
	if err := s.store.DeleteUser(userID); err != nil {
		logger.Warn("Failed to roll back user after sign-up error", "user_id", userID, "error", err)
	}
	if !credentialStored {
		return
	}
	if err := s.secrets.Delete(constants.UserPasswordKey(userID)); err != nil && !apperr.Is(err, secrets.ErrNotFound) {
		logger.Warn("Failed to roll back credential after sign-up error", "user_id", userID, "error", err)
	}
}

func (s *Service) ensureEmailFree(email string) error {
	_, err := s.store.GetUserByEmail(email)
	switch {
	case err == nil:
		return apperr.ErrDuplicateAccount
	case apperr.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) seedQuestions(userID string) error {
	for i, text := range constants.DefaultQuestions {
		q := models.Question{
			ID:     uuid.New().String(),
			UserID: userID,
			Text:   text,
			Type:   constants.QuestionToggle,
			Order:  i,
		}
		if err := s.store.CreateQuestion(q); err != nil {
			return err
		}
	}
	logger.Debug("Seeded default questions", "user_id", userID, "count", len(constants.DefaultQuestions))
	return nil
}

// SignIn verifies the credential and makes the user the active session.
func (s *Service) SignIn(email, password string) (models.User, error) {
	user, err := s.store.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		return models.User{}, err
	}

	if err := s.verifyPassword(user.ID, password); err != nil {
		logger.Warn("Sign in rejected", "user_id", user.ID)
		return models.User{}, err
	}

	if err := s.setSession(user); err != nil {
		return models.User{}, err
	}

	logger.Info("Signed in", "user_id", user.ID)
	return user, nil
}

func (s *Service) verifyPassword(userID, password string) error {
	hash, err := s.secrets.Get(constants.UserPasswordKey(userID))
	if err != nil {
		if apperr.Is(err, secrets.ErrNotFound) {
			return apperr.ErrInvalidCredential
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperr.ErrInvalidCredential
	}
	return nil
}

// SignOut clears the session marker. No data is deleted.
func (s *Service) SignOut() error {
	if err := s.clearSession(); err != nil {
		return err
	}
	logger.Info("Signed out")
	return nil
}

// UpdateProfile applies a partial update to the active user.
func (s *Service) UpdateProfile(update models.UserUpdate) (models.User, error) {
	user, err := s.Current()
	if err != nil {
		return models.User{}, err
	}
	if update.IsEmpty() {
		return user, nil
	}

	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		update.Email = &email
	}
	if err := validation.Struct(update); err != nil {
		return models.User{}, err
	}
	if update.Email != nil && *update.Email != user.Email {
		if err := s.ensureEmailFree(*update.Email); err != nil {
			return models.User{}, err
		}
	}

	updated, err := s.store.UpdateUser(user.ID, update)
	if err != nil {
		return models.User{}, err
	}
	if err := s.setSession(updated); err != nil {
		return models.User{}, err
	}

	logger.Info("Profile updated", "user_id", updated.ID)
	return updated, nil
}

// ChangePassword replaces the credential after checking the current one.
func (s *Service) ChangePassword(current, next string) error {
	user, err := s.Current()
	if err != nil {
		return err
	}
	if err := s.verifyPassword(user.ID, current); err != nil {
		return err
	}
	if err := validation.Struct(validation.PasswordRequest{Password: next}); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.secrets.Set(constants.UserPasswordKey(user.ID), string(hash)); err != nil {
		return err
	}

	logger.Info("Password changed", "user_id", user.ID)
	return nil
}

// DeleteAccount removes the active user with all questions and answers, its
// credential and the session marker. It cannot be undone.
func (s *Service) DeleteAccount() error {
	user, err := s.Current()
	if err != nil {
		return err
	}

	if err := s.store.DeleteUser(user.ID); err != nil {
		return err
	}
	if err := s.secrets.Delete(constants.UserPasswordKey(user.ID)); err != nil && !apperr.Is(err, secrets.ErrNotFound) {
		return err
	}
	if err := s.clearSession(); err != nil {
		return err
	}

	logger.Info("Account deleted", "user_id", user.ID)
	return nil
}

// Restore rebuilds the session from the stored marker. The cached record is
// checked against the database and a stale marker is dropped.
func (s *Service) Restore() (models.User, error) {
	raw, err := s.secrets.Get(constants.CurrentUserKey)
	if err != nil {
		if apperr.Is(err, secrets.ErrNotFound) {
			return models.User{}, apperr.ErrNotInitialized
		}
		return models.User{}, err
	}

	var cached models.User
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || cached.ID == "" {
		logger.Warn("Discarding unreadable session marker", "error", err)
		return models.User{}, s.dropStale()
	}

	user, err := s.store.GetUserByID(cached.ID)
	if err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			logger.Warn("Session user no longer exists", "user_id", cached.ID)
			return models.User{}, s.dropStale()
		}
		return models.User{}, err
	}

	if err := s.setSession(user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) dropStale() error {
	if err := s.clearSession(); err != nil {
		return err
	}
	return apperr.ErrNotInitialized
}

// Current returns the active user or ErrNotInitialized.
func (s *Service) Current() (models.User, error) {
	u := s.current.Load()
	if u == nil {
		return models.User{}, apperr.ErrNotInitialized
	}
	return *u, nil
}

func (s *Service) setSession(user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.secrets.Set(constants.CurrentUserKey, string(data)); err != nil {
		return err
	}
	s.current.Store(&user)
	return nil
}

func (s *Service) clearSession() error {
	s.current.Store(nil)
	if err := s.secrets.Delete(constants.CurrentUserKey); err != nil && !apperr.Is(err, secrets.ErrNotFound) {
		return err
	}
	return nil
}
