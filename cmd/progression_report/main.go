package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/gymstats/progression"
	"github.com/2beens/gymprogress/internal/gymstats/sessions"
	"github.com/2beens/gymprogress/internal/logging"
	"github.com/2beens/gymprogress/pkg"

	log "github.com/sirupsen/logrus"
)

type exerciseFlags []string

func (e *exerciseFlags) String() string {
	return strings.Join(*e, ",")
}

func (e *exerciseFlags) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	cancel()
	if err != nil {
		log.Fatalf("progression report: %s", err)
	}
}

// run parses args and writes the report to out. Deferred cleanups are done
// by the time it returns, so main can exit right away on error.
func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("progression_report", flag.ContinueOnError)
	env := flags.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flags.String("config", "./config.toml", "path for the TOML config file")
	sessionsFile := flags.String("sessions-file", "", "JSON file with sessions; when set, the configured store is not used")
	from := flags.String("from", "", "first day of the range, YYYY-MM-DD")
	to := flags.String("to", "", "last day of the range, YYYY-MM-DD")
	first := flags.Bool("first", false, "print only the first window")
	summary := flags.Bool("summary", false, "print the per exercise summary instead of windows")
	pruneBefore := flags.String("prune-before", "", "delete stored sessions performed before this day (YYYY-MM-DD) and exit")
	var exercises exerciseFlags
	flags.Var(&exercises, "exercise", "exercise name to include, can be repeated")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// reports go to out, logs stay on stderr
	cleanup := logging.Setup(logging.LoggerSetupParams{
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Environment:   cfg.Environment,
	})
	defer cleanup()
	log.SetOutput(os.Stderr)

	if *pruneBefore != "" {
		if err := prune(ctx, cfg, *pruneBefore); err != nil {
			return fmt.Errorf("prune sessions: %w", err)
		}
		return nil
	}

	query, err := buildQuery(*from, *to, exercises)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	source, closeSource, err := openSource(ctx, cfg, *sessionsFile)
	if err != nil {
		return fmt.Errorf("open session source: %w", err)
	}
	defer closeSource()

	service := progression.NewService(
		source,
		nil,
		progression.WithWindowThreshold(progression.ThresholdFromDays(cfg.WindowThresholdDays)),
	)

	var result any
	switch {
	case *summary:
		result, err = service.Summary(ctx, query)
	case *first:
		result, err = service.First(ctx, query)
	default:
		result, err = service.All(ctx, query)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func buildQuery(from, to string, exercises []string) (progression.Query, error) {
	if from == "" || to == "" {
		return progression.Query{}, errors.New("both -from and -to must be set")
	}
	start, err := pkg.ParseDate(from, false)
	if err != nil {
		return progression.Query{}, fmt.Errorf("from: %w", err)
	}
	end, err := pkg.ParseDate(to, true)
	if err != nil {
		return progression.Query{}, fmt.Errorf("to: %w", err)
	}
	query := progression.Query{
		SessionStart:  start,
		SessionEnd:    end,
		ExerciseNames: exercises,
	}
	return query, query.Validate()
}

func openSource(ctx context.Context, cfg *config.Config, sessionsFile string) (progression.SessionSource, func(), error) {
	if sessionsFile != "" {
		store, err := loadSessionsFile(sessionsFile)
		return store, func() {}, err
	}

	return openRepo(ctx, cfg)
}

func openRepo(ctx context.Context, cfg *config.Config) (*sessions.Repo, func(), error) {
	if !cfg.UsesPostgres() {
		return nil, nil, errors.New("memory store configured, use -sessions-file")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
	})
	if err != nil {
		return nil, nil, err
	}
	return sessions.NewRepo(dbPool), dbPool.Close, nil
}

func prune(ctx context.Context, cfg *config.Config, before string) error {
	t, err := pkg.ParseDate(before, false)
	if err != nil {
		return err
	}

	repo, closeRepo, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	deleted, err := repo.DeleteBefore(ctx, t)
	if err != nil {
		return err
	}
	log.Infof("deleted %d sessions performed before %s", deleted, t.Format(time.DateOnly))
	return nil
}

func loadSessionsFile(path string) (*sessions.MemoryStore, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var loaded []progression.Session
	if err := json.Unmarshal(content, &loaded); err != nil {
		return nil, fmt.Errorf("unmarshal sessions: %w", err)
	}

	store := sessions.NewMemoryStore()
	for _, s := range loaded {
		if err := store.Add(context.Background(), s); err != nil {
			return nil, fmt.Errorf("session %s: %w", s.PerformedAt, err)
		}
	}
	log.Debugf("loaded %d sessions from %s", store.Len(), path)
	return store, nil
}
