package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/cli/accounts"
	"github.com/julianstephens/dailyq/internal/cli/answers"
	"github.com/julianstephens/dailyq/internal/cli/backups"
	"github.com/julianstephens/dailyq/internal/cli/questions"
	"github.com/julianstephens/dailyq/internal/cli/stats"
	"github.com/julianstephens/dailyq/internal/cli/system"
	"github.com/julianstephens/dailyq/internal/config"
	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/logger"
	"github.com/julianstephens/dailyq/internal/secrets"
	"github.com/julianstephens/dailyq/internal/storage"
)

type cliArgs struct {
	Version  kong.VersionFlag
	Config   string `help:"Database file path." type:"string" default:"${default_config}" env:"${env_db}"`
	Debug    bool   `help:"Log debug output to stderr." env:"${env_debug}"`
	Timezone string `help:"IANA timezone that decides the current day." default:"Local" env:"${env_timezone}"`

	Init     system.InitCmd     `cmd:"" help:"Initialize dailyq storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored questions and answers for problems."`
	Reset    system.ResetCmd    `cmd:"" help:"Erase all accounts and data on this device."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks on storage, keyring and data."`
	DebugCmd system.DebugCmd    `cmd:"" name:"debug" help:"Inspect stored data for troubleshooting."`

	Signup        accounts.SignUpCmd        `cmd:"" help:"Create an account."`
	Signin        accounts.SignInCmd        `cmd:"" help:"Sign in."`
	Signout       accounts.SignOutCmd       `cmd:"" help:"Sign out."`
	Whoami        accounts.WhoAmICmd        `cmd:"" help:"Show the signed-in user."`
	Profile       accounts.ProfileCmd       `cmd:"" help:"Show or update your profile."`
	Password      accounts.PasswordCmd      `cmd:"" help:"Change your password."`
	DeleteAccount accounts.DeleteAccountCmd `cmd:"" name:"delete-account" help:"Delete your account and all data."`

	Question questions.QuestionCmd `cmd:"" help:"Manage questions."`
	Answer   answers.AnswerCmd     `cmd:"" help:"Answer a question."`
	Today    answers.TodayCmd      `cmd:"" help:"Show today's reflection." default:"1"`
	Stats    stats.StatsCmd        `cmd:"" help:"Show streaks and completion."`
	Tui      system.TuiCmd         `cmd:"" help:"Open the interactive check-in dashboard."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Daily self-reflection questions with streak tracking"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"env_db":         constants.EnvDatabase,
			"env_debug":      constants.EnvDebug,
			"env_timezone":   constants.EnvTimezone,
			"env_password":   constants.EnvPassword,
		},
	}
}

// selfLoading lists commands that open the database themselves.
var selfLoading = map[string]bool{"init": true, "doctor": true}

func main() {
	// Values from the dotenv file feed the env fallbacks below
	if envPath, err := config.EnvFilePath(); err == nil {
		if err := config.LoadEnv(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	var CLI cliArgs
	ctx := kong.Parse(&CLI, kongOptions()...)

	cfg, err := config.Resolve(CLI.Config, CLI.Debug, CLI.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "db", cfg.DBPath, "timezone", cfg.Timezone)

	store := storage.NewSQLiteStore(cfg.DBPath)
	appCtx := cli.NewContext(store, secrets.NewKeyringStore(), cfg.Location)

	// Init and doctor handle their own setup
	if ctx.Selected() != nil && !selfLoading[ctx.Selected().Name] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
