package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/kbukum/dbfixture/config"
	"github.com/kbukum/dbfixture/database"
	"github.com/kbukum/dbfixture/database/sqlite"
	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/fixture"
	"github.com/kbukum/dbfixture/logger"
	"github.com/kbukum/dbfixture/observability"
	"github.com/kbukum/dbfixture/resource"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configFile string
	dsn        string
	dir        string
	driver     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   serviceName,
		Short: "Apply, revert and verify database fixtures",
		Long: `fixturectl runs the setup and teardown batches of a fixture directory.

Up files (N_name.up.sql) form the setup batch in ascending version order,
down files (N_name.down.sql) the teardown batch in descending order. Each
batch runs in one transaction on a fresh connection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: fixturectl.yml in standard locations)")
	flags.StringVar(&opts.dsn, "dsn", "", "database connection string")
	flags.StringVarP(&opts.dir, "dir", "d", "", "fixture directory")
	flags.StringVar(&opts.driver, "driver", "", "database driver: sqlite (gorm) or sqlite3 (database/sql)")

	root.AddCommand(
		newApplyCmd(opts),
		newRevertCmd(opts),
		newVerifyCmd(opts),
		newListCmd(opts),
		newVersionCmd(),
	)
	return root
}

// app is what every fixture command works with.
type app struct {
	cfg      Config
	log      *logger.Logger
	exec     fixture.Executor
	set      resource.Set
	metrics  *observability.FixtureMetrics
	shutdown observability.ShutdownFunc
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *rootOptions) (Config, error) {
	var cfg Config
	loaderOpts := []config.LoaderOption{config.WithEnvPrefix("FIXTURECTL")}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return cfg, err
	}

	if opts.dsn != "" {
		cfg.Database.DSN = opts.dsn
	}
	if opts.dir != "" {
		cfg.Fixtures.Dir = opts.dir
	}
	if opts.driver != "" {
		cfg.Database.Driver = opts.driver
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	exec, err := newExecutor(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	set, err := resource.LoadVersioned(os.DirFS(cfg.Fixtures.Dir), ".")
	if err != nil {
		return nil, err
	}
	if cfg.Fixtures.Split {
		set = set.Split()
	}

	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewFixtureMetrics(observability.Meter())
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	return &app{
		cfg:      cfg,
		log:      log,
		exec:     exec,
		set:      set,
		metrics:  metrics,
		shutdown: shutdown,
	}, nil
}

// newExecutor picks the executor for driver.
func newExecutor(cfg database.Config, log *logger.Logger) (fixture.Executor, error) {
	switch cfg.Driver {
	case "sqlite":
		return database.NewExecutor(sqlite.Dialector, cfg, log), nil
	case "sqlite3":
		return database.NewSQLExecutor("sqlite3", log), nil
	default:
		return nil, apperrors.InvalidInput("database.driver",
			fmt.Sprintf("unsupported driver %q (want sqlite or sqlite3)", cfg.Driver))
	}
}

func (a *app) source() fixture.StaticSource {
	return a.set.Source(a.cfg.Database.DSN)
}

func (a *app) fixtureOptions(extra ...fixture.Option) []fixture.Option {
	opts := []fixture.Option{
		fixture.WithName(a.cfg.Name),
		fixture.WithLogger(a.log),
		fixture.WithMetrics(a.metrics),
	}
	return append(opts, extra...)
}

func (a *app) close(ctx context.Context) error {
	return a.shutdown(ctx)
}

// withApp runs fn with a loaded app and shuts it down afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	return errors.Join(fn(ctx, a), a.close(ctx))
}
