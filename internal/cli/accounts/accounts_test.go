package accounts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/dailyq/internal/backup"
	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/constants"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/secrets"
	"github.com/julianstephens/dailyq/internal/storage"
)

// scriptedPrompter answers prompts from fixed queues.
type scriptedPrompter struct {
	inputs    []string
	passwords []string
	confirm   bool
}

func (p *scriptedPrompter) Input(string, func(string) error) (string, error) {
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *scriptedPrompter) Password(string) (string, error) {
	v := p.passwords[0]
	p.passwords = p.passwords[1:]
	return v, nil
}

func (p *scriptedPrompter) Confirm(string) (bool, error) { return p.confirm, nil }

func setupTestContext(t *testing.T) (*cli.Context, *scriptedPrompter) {
	t.Helper()
	gokeyring.MockInit()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(store, secrets.NewKeyringStore(), time.UTC)
	prompter := &scriptedPrompter{}
	ctx.Prompter = prompter
	return ctx, prompter
}

func TestSignUpCmd_Prompts(t *testing.T) {
	ctx, prompter := setupTestContext(t)
	prompter.inputs = []string{"ada@example.com"}
	prompter.passwords = []string{"password1", "password1"}

	require.NoError(t, (&SignUpCmd{Name: "Ada"}).Run(ctx))

	user, err := ctx.Accounts.Current()
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.DisplayName)
}

func TestSignUpCmd_PasswordMismatch(t *testing.T) {
	ctx, prompter := setupTestContext(t)
	prompter.passwords = []string{"password1", "password2"}

	err := (&SignUpCmd{Email: "ada@example.com"}).Run(ctx)
	assert.EqualError(t, err, "passwords do not match")
}

func TestSignInAndSignOutCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	require.NoError(t, (&SignUpCmd{Email: "bob@example.com", Password: "password1"}).Run(ctx))
	require.NoError(t, (&SignOutCmd{}).Run(ctx))

	err := (&WhoAmICmd{}).Run(ctx)
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)

	err = (&SignInCmd{Email: "bob@example.com", Password: "wrong-password"}).Run(ctx)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredential)

	require.NoError(t, (&SignInCmd{Email: "bob@example.com", Password: "password1"}).Run(ctx))
	assert.NoError(t, (&WhoAmICmd{}).Run(ctx))
}

func TestProfileCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	require.NoError(t, (&SignUpCmd{Email: "carol@example.com", Password: "password1"}).Run(ctx))

	reminder := "07:45"
	require.NoError(t, (&ProfileCmd{ReminderTime: &reminder, Notifications: "off"}).Run(ctx))

	user, err := ctx.Accounts.Current()
	require.NoError(t, err)
	assert.Equal(t, "07:45", user.ReminderTime)
	assert.False(t, user.NotificationsEnabled)

	assert.Error(t, (&ProfileCmd{Notifications: "sometimes"}).Run(ctx))

	bad := "late"
	assert.ErrorIs(t, (&ProfileCmd{ReminderTime: &bad}).Run(ctx), apperr.ErrInvalidInput)

	// No flags just shows the profile
	assert.NoError(t, (&ProfileCmd{}).Run(ctx))
}

func TestProfileCmd_NotificationsOnUsesDefaultReminder(t *testing.T) {
	ctx, _ := setupTestContext(t)
	require.NoError(t, (&SignUpCmd{Email: "fay@example.com", Password: "password1"}).Run(ctx))

	require.NoError(t, (&ProfileCmd{Notifications: "off"}).Run(ctx))
	require.NoError(t, (&ProfileCmd{Notifications: "on"}).Run(ctx))

	user, err := ctx.Accounts.Current()
	require.NoError(t, err)
	assert.True(t, user.NotificationsEnabled)
	assert.Equal(t, constants.DefaultReminderTime, user.ReminderTime)

	// An explicit time is kept
	reminder := "06:15"
	require.NoError(t, (&ProfileCmd{ReminderTime: &reminder}).Run(ctx))
	require.NoError(t, (&ProfileCmd{Notifications: "on"}).Run(ctx))
	user, err = ctx.Accounts.Current()
	require.NoError(t, err)
	assert.Equal(t, "06:15", user.ReminderTime)
}

func TestPasswordCmd(t *testing.T) {
	ctx, prompter := setupTestContext(t)
	require.NoError(t, (&SignUpCmd{Email: "dan@example.com", Password: "password1"}).Run(ctx))

	prompter.passwords = []string{"password1", "password2", "password2"}
	require.NoError(t, (&PasswordCmd{}).Run(ctx))

	require.NoError(t, (&SignOutCmd{}).Run(ctx))
	assert.NoError(t, (&SignInCmd{Email: "dan@example.com", Password: "password2"}).Run(ctx))
}

func TestDeleteAccountCmd(t *testing.T) {
	ctx, prompter := setupTestContext(t)
	require.NoError(t, (&SignUpCmd{Email: "eve@example.com", Password: "password1"}).Run(ctx))

	prompter.confirm = false
	require.NoError(t, (&DeleteAccountCmd{}).Run(ctx))
	_, err := ctx.Store.GetUserByEmail("eve@example.com")
	require.NoError(t, err, "cancelled deletion must keep the account")

	require.NoError(t, (&DeleteAccountCmd{Yes: true}).Run(ctx))
	_, err = ctx.Store.GetUserByEmail("eve@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	backups, err := os.ReadDir(backup.NewManager(ctx.Store.GetConfigPath()).Dir())
	require.NoError(t, err)
	assert.NotEmpty(t, backups, "deleting an account takes a backup first")
}
