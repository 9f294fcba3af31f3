// Command sweep runs the daily sweeps once, for today or for a given date.
// Operators use it to catch up days the scheduler missed:
//
//	sweep --job member_expiry --date 2024-03-10
//	sweep --job all
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gymcore/internal/config"
	"gymcore/internal/db"
	"gymcore/internal/email"
	"gymcore/internal/logger"
	"gymcore/internal/scheduler"
	"gymcore/internal/server"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

type options struct {
	job      string
	date     string
	remind   bool
	migrate  bool
	logLevel string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("sweep", pflag.ContinueOnError)
	fs.StringVarP(&opts.job, "job", "j", "all", "job to run: all, "+jobNames())
	fs.StringVarP(&opts.date, "date", "d", "", "day to run for, YYYY-MM-DD (default today in TIMEZONE)")
	fs.BoolVar(&opts.remind, "email", true, "queue renewal reminder emails")
	fs.BoolVar(&opts.migrate, "migrate", false, "apply pending migrations first")
	fs.StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func jobNames() string {
	names := make([]string, len(scheduler.Jobs))
	for i, j := range scheduler.Jobs {
		names[i] = string(j)
	}
	return strings.Join(names, ", ")
}

// selectJobs resolves the --job flag.
func selectJobs(name string) ([]scheduler.Job, error) {
	if name == "all" {
		return scheduler.Jobs, nil
	}
	job, err := scheduler.ParseJob(name)
	if err != nil {
		return nil, err
	}
	return []scheduler.Job{job}, nil
}

// resolveDate parses --date; empty means today in the scheduler's zone.
func resolveDate(value string, s *scheduler.Scheduler) (time.Time, error) {
	if value == "" {
		return s.Today(), nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", value)
	}
	return day, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger.Init(level, cfg.LogFormat)
	defer logger.Sync()

	jobs, err := selectJobs(opts.job)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if opts.migrate {
		if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	var mailer *email.Service
	if opts.remind {
		mailer = email.New(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), email.SMTPConfig{
			From:     cfg.EmailFrom,
			FromName: cfg.EmailFromName,
		})
		defer mailer.Close()
	}

	services := server.NewServices(database, cfg, mailer)
	sweeps := scheduler.New(services.Tasks(), cfg.SweepSchedule, cfg.Location, nil)

	day, err := resolveDate(opts.date, sweeps)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	ctx := context.Background()
	failed := 0
	for _, job := range jobs {
		n, err := sweeps.RunAt(ctx, job, day)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", job, err)
			continue
		}
		fmt.Printf("%s %s: %d row(s)\n", day.Format("2006-01-02"), job, n)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
