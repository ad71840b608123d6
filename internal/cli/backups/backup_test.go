package backups

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
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/secrets"
	"github.com/julianstephens/dailyq/internal/storage"
)

type yesPrompter struct{}

func (yesPrompter) Input(string, func(string) error) (string, error) { return "", nil }
func (yesPrompter) Password(string) (string, error)                  { return "", nil }
func (yesPrompter) Confirm(string) (bool, error)                     { return true, nil }

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	gokeyring.MockInit()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(store, secrets.NewKeyringStore(), time.UTC)
	ctx.Prompter = yesPrompter{}
	return ctx
}

func TestBackupCreateAndList(t *testing.T) {
	ctx := setupTestContext(t)

	require.NoError(t, (&BackupListCmd{}).Run(ctx))
	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
	assert.NoError(t, (&BackupListCmd{}).Run(ctx))
}

func TestBackupRestoreCmd_RestoresData(t *testing.T) {
	ctx := setupTestContext(t)
	user, err := ctx.Accounts.SignUp("restore@example.com", "password1", "")
	require.NoError(t, err)

	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))

	questions, err := ctx.Store.GetQuestionsByUser(user.ID)
	require.NoError(t, err)
	require.NoError(t, ctx.Store.DeleteQuestion(questions[0].ID))

	require.NoError(t, (&BackupRestoreCmd{Yes: true}).Run(ctx))

	restored, err := ctx.Store.GetQuestionsByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, restored, len(questions))

	current, err := ctx.Accounts.Current()
	require.NoError(t, err, "the session survives a restore that still knows the user")
	assert.Equal(t, user.ID, current.ID)

	// The pre-restore safety copy sits next to the original backup
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestBackupRestoreCmd_EndsSessionForUnknownUser(t *testing.T) {
	ctx := setupTestContext(t)
	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))

	_, err := ctx.Accounts.SignUp("later@example.com", "password1", "")
	require.NoError(t, err)

	require.NoError(t, (&BackupRestoreCmd{Yes: true}).Run(ctx))

	_, err = ctx.Accounts.Current()
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
}

func TestBackupRestoreCmd_Resolve(t *testing.T) {
	ctx := setupTestContext(t)
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	_, err := (&BackupRestoreCmd{}).resolve(mgr)
	assert.Error(t, err, "no backups yet")

	info, err := mgr.Create()
	require.NoError(t, err)

	path, err := (&BackupRestoreCmd{BackupFile: info.Name}).resolve(mgr)
	require.NoError(t, err)
	assert.Equal(t, info.Path, path)

	path, err = (&BackupRestoreCmd{BackupFile: info.Path}).resolve(mgr)
	require.NoError(t, err)
	assert.Equal(t, info.Path, path)

	_, err = (&BackupRestoreCmd{BackupFile: "missing.db"}).resolve(mgr)
	assert.Error(t, err)

	_, err = (&BackupRestoreCmd{BackupFile: filepath.Join(os.TempDir(), "does-not-exist.db")}).resolve(mgr)
	assert.Error(t, err)
}
