package system

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/dailyq/internal/backup"
	"github.com/julianstephens/dailyq/internal/cli"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/migration"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/storage/sqlite"
	"github.com/julianstephens/dailyq/internal/validation"
	"github.com/julianstephens/dailyq/migrations"
)

type DoctorCmd struct{}

// availabilityChecker is implemented by secret stores that can report
// whether their backend is reachable.
type availabilityChecker interface {
	IsAvailable() bool
}

type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkFail
	checkSkipped
)

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed := 0
	report := func(name string, status checkStatus, detail string) {
		switch status {
		case checkOK:
			fmt.Println(cli.SuccessStyle.Render("✓ " + name + ": OK"))
		case checkWarn:
			fmt.Println(cli.WarningStyle.Render("⚠ " + name + ": WARNING"))
		case checkFail:
			fmt.Println(cli.DangerStyle.Render("✗ " + name + ": FAIL"))
			failed++
		case checkSkipped:
			fmt.Println(cli.MutedStyle.Render("⊘ " + name + ": SKIPPED"))
		}
		if detail != "" {
			fmt.Println("   " + detail)
		}
	}

	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		report("Database reachable", checkFail, err.Error())
	} else {
		report("Database reachable", checkOK, "")
		dbReachable = true
	}

	if dbReachable {
		current, latest, err := schemaVersions(ctx)
		switch {
		case err != nil:
			report("Schema version", checkFail, err.Error())
		case current > latest:
			report("Schema version", checkFail,
				fmt.Sprintf("database schema version (%d) is newer than supported version (%d)", current, latest))
		case current < latest:
			report("Schema version", checkFail,
				fmt.Sprintf("migrations incomplete: current version %d, latest version %d (run 'dailyq migrate')", current, latest))
		default:
			report("Schema version", checkOK, fmt.Sprintf("version %d", current))
		}
	} else {
		report("Schema version", checkSkipped, "database not reachable")
	}

	if dbReachable {
		if err := checkAnswerIntegrity(ctx); err != nil {
			report("Answer integrity", checkFail, err.Error())
		} else {
			report("Answer integrity", checkOK, "")
		}
	} else {
		report("Answer integrity", checkSkipped, "database not reachable")
	}

	if checker, ok := ctx.Secrets.(availabilityChecker); ok && !checker.IsAvailable() {
		report("Keyring available", checkFail, "the OS keyring is required to store credentials and the session")
	} else {
		report("Keyring available", checkOK, "")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		report("Backups present", checkWarn, err.Error())
	} else {
		report("Backups present", checkOK, "")
	}

	var user *models.User
	if dbReachable {
		u, err := ctx.Session()
		switch {
		case err == nil:
			user = &u
			report("Session", checkOK, "signed in as "+u.Email)
		case apperr.Is(err, apperr.ErrNotInitialized):
			report("Session", checkWarn, "not signed in")
		default:
			report("Session", checkFail, err.Error())
		}
	} else {
		report("Session", checkSkipped, "database not reachable")
	}

	if user != nil {
		if err := checkValidation(ctx, *user); err != nil {
			report("Data validation", checkFail, err.Error())
		} else {
			report("Data validation", checkOK, "")
		}
	} else {
		report("Data validation", checkSkipped, "no signed-in user")
	}

	if err := checkClock(time.Now()); err != nil {
		report("Clock/timezone", checkFail, err.Error())
	} else {
		report("Clock/timezone", checkOK, "today is "+ctx.Reflection.Today())
	}

	fmt.Println()
	if failed > 0 {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("%d health check(s) failed", failed)
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// schemaVersions reads the applied and embedded schema versions. Stores
// without migrations report equal versions.
func schemaVersions(ctx *cli.Context) (current, latest int, err error) {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return 0, 0, nil
	}
	db := sqliteStore.GetDB()
	if db == nil {
		return 0, 0, fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(db, subFS)

	if current, err = runner.CurrentVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

// checkAnswerIntegrity finds answers whose owner differs from the owner of
// their question. Foreign keys cannot express that constraint.
func checkAnswerIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var mismatched int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM answers a
		JOIN questions q ON a.question_id = q.id
		WHERE a.user_id != q.user_id
	`).Scan(&mismatched)
	if err != nil {
		return fmt.Errorf("failed to check answer owners: %w", err)
	}
	if mismatched > 0 {
		return fmt.Errorf("found %d answer(s) owned by a different user than their question", mismatched)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with 'dailyq backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context, user models.User) error {
	snap, err := ctx.Reflection.Snapshot()
	if err != nil {
		return err
	}
	result := validation.New().ValidateAll(user, snap.Questions, snap.Answers)
	if problems := len(result.Conflicts) - len(result.Warnings()); problems > 0 {
		return fmt.Errorf("found %d problem(s), run 'dailyq validate' for details", problems)
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
