package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

const usage = `Usage: attendance-summary <command> [flags]

Commands:
  summary   Score daily attendance from a CSV of scheduled periods
  transfer  Propose replacement slots for a course transfer
  serve     Run the HTTP API
  init-db   Create the Postgres tables used to store runs
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(fmt.Errorf("load config: %w", err))
	}
	logger := newLogger(cfg.LogLevel)

	args := os.Args[2:]
	switch os.Args[1] {
	case "summary":
		err = runSummary(cfg, logger, args)
	case "transfer":
		err = runTransfer(cfg, logger, args)
	case "serve":
		err = runServe(cfg, logger, args)
	case "init-db":
		err = runInitDB(cfg, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}
	if err != nil {
		exitWithError(err)
	}
}

func runSummary(cfg Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	inputPath := fs.String("input", "", "Path to attendance CSV")
	personID := fs.String("person", "", "Only score rows for this student id")
	startInput := fs.String("start", "", "Range start date (YYYY-MM-DD); defaults to a week ago")
	endInput := fs.String("end", "", "Range end date (YYYY-MM-DD); defaults to today")
	asOf := fs.String("as-of", "", "Treat this date as today (YYYY-MM-DD)")
	weightsPath := fs.String("weights", "", "Optional JSON weight table (keyword -> weight)")
	jsonOut := fs.String("json", "", "Optional JSON output path")
	csvOut := fs.String("csv", "", "Optional daily CSV output path")
	dbEnabled := fs.Bool("db", false, "Store the run in Postgres (requires ATTENDANCE_SUMMARY_DB_URL or DATABASE_URL)")
	dbSchema := fs.String("db-schema", cfg.DBSchema, "Postgres schema for run tables")
	dbTag := fs.String("db-tag", "", "Optional label for this run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *inputPath == "" {
		return errors.New("--input is required")
	}
	today, err := resolveToday(*asOf)
	if err != nil {
		return err
	}
	table, err := cfg.weightTable(*weightsPath)
	if err != nil {
		return err
	}

	start, end := normalizeDateRange(*startInput, *endInput, today)
	logger.Debug("normalized range", slog.String("start", formatDate(start)), slog.String("end", formatDate(end)))

	load, err := loadAttendanceCSV(*inputPath, AttendanceFilter{PersonID: *personID, Start: start, End: end})
	if err != nil {
		return err
	}
	if load.Superseded > 0 {
		logger.Debug("collapsed repeated recordings", slog.Int("rows", load.Superseded))
	}

	report := buildSummaryReport(groupEventsByDate(load.Events), table, SummaryOptions{
		PersonID:    *personID,
		Start:       start,
		End:         end,
		AsOf:        today,
		InvalidRows: load.InvalidRows,
	})

	printSummary(os.Stdout, report, filepath.Base(*inputPath))

	if *jsonOut != "" {
		if err := writeJSON(report, *jsonOut); err != nil {
			return err
		}
		fmt.Printf("\nJSON report saved to %s\n", *jsonOut)
	}
	if *csvOut != "" {
		if err := writeDailyCSV(report, *csvOut); err != nil {
			return err
		}
		fmt.Printf("Daily CSV saved to %s\n", *csvOut)
	}
	if *dbEnabled {
		runID, err := storeSummaryRun(report, DBConfig{URL: cfg.DBURL, Schema: *dbSchema, Tag: *dbTag})
		if err != nil {
			return fmt.Errorf("store summary run: %w", err)
		}
		logger.Info("stored summary run", slog.String("run_id", runID))
		fmt.Printf("\nStored summary run in Postgres (run_id=%s)\n", runID)
	}
	return nil
}

func runTransfer(cfg Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
	oldPath := fs.String("old", "", "Path to the current course's schedule CSV")
	newPath := fs.String("new", "", "Path to the candidate schedule CSV; defaults to --old")
	personID := fs.String("person", "", "Student id")
	courseClassID := fs.String("course", "", "Course class id the student leaves")
	slots := fs.String("slots", "", "Comma separated slot ids to transfer")
	jsonOut := fs.String("json", "", "Optional JSON output path")
	dbEnabled := fs.Bool("db", false, "Store the plan in Postgres (requires ATTENDANCE_SUMMARY_DB_URL or DATABASE_URL)")
	dbSchema := fs.String("db-schema", cfg.DBSchema, "Postgres schema for run tables")
	dbTag := fs.String("db-tag", "", "Optional label for this plan")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *oldPath == "" {
		return errors.New("--old is required")
	}
	fields := []FormField{
		{Key: "person_id", Value: *personID},
		{Key: "course_class_id", Value: *courseClassID},
	}
	for _, slotID := range strings.Split(*slots, ",") {
		if slotID = strings.TrimSpace(slotID); slotID != "" {
			fields = append(fields, FormField{Key: transferFieldPrefix + slotID, Value: "on"})
		}
	}
	req, err := parseTransferForm(fields)
	if err != nil {
		return err
	}

	oldLoad, err := loadScheduleCSV(*oldPath)
	if err != nil {
		return err
	}
	newLoad := oldLoad
	if *newPath != "" {
		if newLoad, err = loadScheduleCSV(*newPath); err != nil {
			return err
		}
	}
	if invalid := oldLoad.InvalidRows + newLoad.InvalidRows; invalid > 0 {
		logger.Warn("skipped invalid schedule rows", slog.Int("rows", invalid))
	}

	plan := buildTransferPlan(req, oldLoad.Rows, newLoad.Rows)
	printTransferPlan(os.Stdout, plan)

	if *jsonOut != "" {
		if err := writeJSON(plan, *jsonOut); err != nil {
			return err
		}
		fmt.Printf("\nJSON plan saved to %s\n", *jsonOut)
	}
	if *dbEnabled {
		planID, err := storeTransferPlan(plan, DBConfig{URL: cfg.DBURL, Schema: *dbSchema, Tag: *dbTag})
		if err != nil {
			return fmt.Errorf("store transfer plan: %w", err)
		}
		logger.Info("stored transfer plan", slog.String("plan_id", planID))
		fmt.Printf("\nStored transfer plan in Postgres (plan_id=%s)\n", planID)
	}
	return nil
}

func runServe(cfg Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.String("port", cfg.Port, "Port to listen on")
	weightsPath := fs.String("weights", "", "Optional JSON weight table (keyword -> weight)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, err := cfg.weightTable(*weightsPath)
	if err != nil {
		return err
	}
	server := newServer(table, logger, time.Now)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen("0.0.0.0:" + *port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return server.Shutdown(ctx)
}

func runInitDB(cfg Config, args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ContinueOnError)
	dbSchema := fs.String("db-schema", cfg.DBSchema, "Postgres schema for run tables")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := initDatabase(DBConfig{URL: cfg.DBURL, Schema: *dbSchema}); err != nil {
		return err
	}
	fmt.Printf("Initialized schema %s\n", *dbSchema)
	return nil
}

func resolveToday(asOf string) (time.Time, error) {
	if asOf == "" {
		return calendarDay(time.Now()), nil
	}
	parsed, err := parseDate(asOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of date: %w", err)
	}
	return calendarDay(parsed), nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
