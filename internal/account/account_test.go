package account

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dailyq/internal/constants"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/secrets"
	"github.com/julianstephens/dailyq/internal/storage"
)

func newTestService(t *testing.T) (*Service, storage.Provider, *secrets.KeyringStore) {
	t.Helper()
	gokeyring.MockInit()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	secretStore := secrets.NewKeyringStore()
	svc := NewService(store, secretStore)
	svc.cost = bcrypt.MinCost
	return svc, store, secretStore
}

func TestSignUp(t *testing.T) {
	svc, store, secretStore := newTestService(t)

	user, err := svc.SignUp(" Ada@Example.com ", "correct horse", "Ada")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.True(t, user.NotificationsEnabled)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	questions, err := store.GetQuestionsByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, questions, len(constants.DefaultQuestions))
	for i, q := range questions {
		assert.Equal(t, constants.DefaultQuestions[i], q.Text)
		assert.Equal(t, constants.QuestionToggle, q.Type)
		assert.Equal(t, i, q.Order)
		assert.False(t, q.IsArchived)
	}

	hash, err := secretStore.Get(constants.UserPasswordKey(user.ID))
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash, "password must not be stored in plaintext")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")))

	marker, err := secretStore.Get(constants.CurrentUserKey)
	require.NoError(t, err)
	var cached models.User
	require.NoError(t, json.Unmarshal([]byte(marker), &cached))
	assert.Equal(t, user.ID, cached.ID)
}

// failingQuestionStore fails CreateQuestion once okQuestions have been written.
type failingQuestionStore struct {
	storage.Provider
	okQuestions int
	created     int
	userID      string
}

func (f *failingQuestionStore) CreateUser(u models.User) error {
	f.userID = u.ID
	return f.Provider.CreateUser(u)
}

func (f *failingQuestionStore) CreateQuestion(q models.Question) error {
	if f.created >= f.okQuestions {
		return apperr.Storage("insert question", errors.New("disk full"))
	}
	f.created++
	return f.Provider.CreateQuestion(q)
}

func TestSignUpRollsBackWhenSeedingFails(t *testing.T) {
	_, store, secretStore := newTestService(t)
	failing := &failingQuestionStore{Provider: store, okQuestions: 2}
	svc := NewService(failing, secretStore)
	svc.cost = bcrypt.MinCost

	_, err := svc.SignUp("seed@example.com", "password1", "")
	require.ErrorIs(t, err, apperr.ErrStorage)

	_, err = store.GetUserByEmail("seed@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound, "half-created user must be removed")
	_, err = secretStore.Get(constants.UserPasswordKey(failing.userID))
	assert.ErrorIs(t, err, secrets.ErrNotFound, "credential must be removed")
	_, err = svc.Current()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)

	// The same email can sign up once the store recovers
	retry := NewService(store, secretStore)
	retry.cost = bcrypt.MinCost
	user, err := retry.SignUp("seed@example.com", "password1", "")
	require.NoError(t, err)

	questions, err := store.GetQuestionsByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, questions, len(constants.DefaultQuestions))
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "bad email", email: "nope", password: "longenough"},
		{name: "short password", email: "a@example.com", password: "short"},
		{name: "empty", email: "", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(tt.email, tt.password, "")
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}

	_, err := svc.Current()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
}

func TestSignUpDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignUp("dup@example.com", "password1", "")
	require.NoError(t, err)

	_, err = svc.SignUp("DUP@example.com", "password2", "")
	assert.ErrorIs(t, err, apperr.ErrDuplicateAccount)
}

func TestSignInAndOut(t *testing.T) {
	svc, _, secretStore := newTestService(t)

	created, err := svc.SignUp("bob@example.com", "hunter2hunter2", "")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut())

	_, err = svc.Current()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
	_, err = secretStore.Get(constants.CurrentUserKey)
	assert.ErrorIs(t, err, secrets.ErrNotFound)

	_, err = svc.SignIn("bob@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredential)

	_, err = svc.SignIn("nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	user, err := svc.SignIn("Bob@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, created.ID, current.ID)
}

func TestSignOutWithoutSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	assert.NoError(t, svc.SignOut())
}

func TestSignInMissingCredential(t *testing.T) {
	svc, _, secretStore := newTestService(t)

	user, err := svc.SignUp("cred@example.com", "password1", "")
	require.NoError(t, err)
	require.NoError(t, secretStore.Delete(constants.UserPasswordKey(user.ID)))

	_, err = svc.SignIn("cred@example.com", "password1")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredential)
}

func TestUpdateProfile(t *testing.T) {
	svc, store, secretStore := newTestService(t)

	_, err := svc.UpdateProfile(models.UserUpdate{})
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)

	user, err := svc.SignUp("carol@example.com", "password1", "")
	require.NoError(t, err)

	name := "Carol"
	reminder := "21:15"
	off := false
	updated, err := svc.UpdateProfile(models.UserUpdate{
		DisplayName:          &name,
		ReminderTime:         &reminder,
		NotificationsEnabled: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", updated.DisplayName)
	assert.Equal(t, "21:15", updated.ReminderTime)
	assert.False(t, updated.NotificationsEnabled)

	stored, err := store.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", stored.DisplayName)

	marker, err := secretStore.Get(constants.CurrentUserKey)
	require.NoError(t, err)
	assert.Contains(t, marker, "Carol")

	bad := "9pm"
	_, err = svc.UpdateProfile(models.UserUpdate{ReminderTime: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignUp("taken@example.com", "password1", "")
	require.NoError(t, err)
	_, err = svc.SignUp("dave@example.com", "password1", "")
	require.NoError(t, err)

	taken := "taken@example.com"
	_, err = svc.UpdateProfile(models.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, apperr.ErrDuplicateAccount)

	same := "DAVE@example.com"
	updated, err := svc.UpdateProfile(models.UserUpdate{Email: &same})
	require.NoError(t, err)
	assert.Equal(t, "dave@example.com", updated.Email)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignUp("erin@example.com", "old-password", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword("wrong", "new-password"), apperr.ErrInvalidCredential)
	assert.ErrorIs(t, svc.ChangePassword("old-password", "short"), apperr.ErrInvalidInput)
	require.NoError(t, svc.ChangePassword("old-password", "new-password"))

	require.NoError(t, svc.SignOut())
	_, err = svc.SignIn("erin@example.com", "old-password")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredential)
	_, err = svc.SignIn("erin@example.com", "new-password")
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	svc, store, secretStore := newTestService(t)

	user, err := svc.SignUp("frank@example.com", "password1", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount())

	_, err = store.GetUserByID(user.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	questions, err := store.GetQuestionsByUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)

	_, err = secretStore.Get(constants.UserPasswordKey(user.ID))
	assert.ErrorIs(t, err, secrets.ErrNotFound)
	_, err = secretStore.Get(constants.CurrentUserKey)
	assert.ErrorIs(t, err, secrets.ErrNotFound)

	_, err = svc.Current()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
	assert.ErrorIs(t, svc.DeleteAccount(), apperr.ErrNotInitialized)
}

func TestRestore(t *testing.T) {
	svc, store, secretStore := newTestService(t)

	_, err := svc.Restore()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)

	user, err := svc.SignUp("gina@example.com", "password1", "")
	require.NoError(t, err)

	// A fresh process only has the marker
	restored := NewService(store, secretStore)
	got, err := restored.Restore()
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	current, err := restored.Current()
	require.NoError(t, err)
	assert.Equal(t, user.Email, current.Email)
}

func TestRestoreDropsStaleSession(t *testing.T) {
	svc, store, secretStore := newTestService(t)

	user, err := svc.SignUp("hank@example.com", "password1", "")
	require.NoError(t, err)

	// Deleted behind the service's back
	require.NoError(t, store.DeleteUser(user.ID))

	fresh := NewService(store, secretStore)
	_, err = fresh.Restore()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)

	_, err = secretStore.Get(constants.CurrentUserKey)
	assert.ErrorIs(t, err, secrets.ErrNotFound, "stale marker should be cleared")
}

func TestRestoreUnreadableMarker(t *testing.T) {
	svc, _, secretStore := newTestService(t)

	require.NoError(t, secretStore.Set(constants.CurrentUserKey, "{not json"))

	_, err := svc.Restore()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
}
