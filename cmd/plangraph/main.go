package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/cli"
	"github.com/alexanderramin/plangraph/internal/cli/formatter"
	"github.com/alexanderramin/plangraph/internal/config"
	"github.com/alexanderramin/plangraph/internal/db"
	"github.com/alexanderramin/plangraph/internal/graph"
	"github.com/alexanderramin/plangraph/internal/metrics"
	"github.com/alexanderramin/plangraph/internal/repository"
	"github.com/alexanderramin/plangraph/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath picks --config out of args before cobra parses them; everything
// else is left for the command tree.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("plangraph", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	path := fs.String("config", config.DefaultPath(), "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)
	return *path
}

func run(args []string) (err error) {
	cfg, err := config.Load(configPath(args))
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	reg := metrics.DefaultRegistry()
	if cfg.MetricsTextfile != "" {
		defer func() {
			if werr := reg.WriteTextfile(cfg.MetricsTextfile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	// Wire repositories
	issueRepo := repository.NewSQLiteIssueRepo(database)
	relationRepo := repository.NewSQLiteRelationRepo(database)
	uow := db.NewSQLiteUnitOfWork(database, db.WithTxLogger(logger))

	g := graph.New(
		graph.WithClock(calendar.SystemClock{}),
		graph.WithLogger(logger),
		graph.WithRecorder(reg),
	)

	observers := []service.UseCaseObserver{service.NewMetricsUseCaseObserver(reg)}
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Planning: service.NewPlanningService(g, issueRepo, relationRepo, uow, reg, observers...),
		Clock:    calendar.SystemClock{},
	}

	formatter.SetDateLayout(cfg.DateFormat)
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
