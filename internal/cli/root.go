package cli

import (
	"time"

	"github.com/julianstephens/dailyq/internal/account"
	"github.com/julianstephens/dailyq/internal/backup"
	"github.com/julianstephens/dailyq/internal/logger"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/reflection"
	"github.com/julianstephens/dailyq/internal/secrets"
	"github.com/julianstephens/dailyq/internal/storage"
)

type Context struct {
	Store      storage.Provider
	Secrets    secrets.Store
	Accounts   *account.Service
	Reflection *reflection.Service
	Prompter   Prompter
}

// NewContext wires the services once for the whole process.
func NewContext(store storage.Provider, secretStore secrets.Store, loc *time.Location) *Context {
	return &Context{
		Store:      store,
		Secrets:    secretStore,
		Accounts:   account.NewService(store, secretStore),
		Reflection: reflection.NewService(store, reflection.WithLocation(loc)),
		Prompter:   HuhPrompter{},
	}
}

// Session restores the signed-in user and loads their questions and answers.
func (c *Context) Session() (models.User, error) {
	user, err := c.Accounts.Restore()
	if err != nil {
		return models.User{}, err
	}
	if err := c.Reflection.Load(user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
