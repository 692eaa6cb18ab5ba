package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/koltyakov/orgimport/internal/config"
	"github.com/koltyakov/orgimport/internal/db"
	"github.com/koltyakov/orgimport/internal/importer"
	"github.com/koltyakov/orgimport/internal/journal"
	"github.com/koltyakov/orgimport/internal/logging"
	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/internal/report"
	"github.com/koltyakov/orgimport/internal/storage"
	"github.com/koltyakov/orgimport/pkg/types"
)

// session holds everything one import command needs
type session struct {
	cfg       *config.Config
	logger    *logging.Logger
	deps      importer.Deps
	closeDB   func() error
	s3        *storage.S3Client
	startedAt time.Time
}

// loadConfig loads and validates configuration for a command
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("configuration validation failed: %w", err))
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.NewWithOptions(logging.Options{
		Verbose: cfg.Verbose,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
	})
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	return logger, nil
}

// signalContext is cancelled on SIGINT/SIGTERM or when the import timeout expires
func signalContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nReceived interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// openSession validates inputs, sets up logging and connects the store.
// Dry runs import into a fresh in-memory store.
func openSession(ctx context.Context, cfg *config.Config, inputs ...string) (*session, error) {
	if err := cfg.ValidatePaths(inputs...); err != nil {
		return nil, withCode(exitUsage, err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, withCode(exitUsage, err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Starting orgimport v%s (built: %s)", version, buildTime)

	s := &session{cfg: cfg, logger: logger, startedAt: time.Now()}

	if cfg.DryRun {
		logger.Info("Dry run mode - importing into memory")
		mem := db.NewMemoryStore()
		s.deps = importer.Deps{
			Departments: mem.Departments(),
			Positions:   mem.Positions(),
			Employees:   mem.Employees(),
			Tx:          mem,
		}
		s.closeDB = func() error { return nil }
		return s, nil
	}

	logger.Info("Connecting to database: %s@%s:%d/%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBService)
	store, err := db.Open(ctx, &db.Config{
		User:           cfg.DBUser,
		Password:       cfg.DBPassword,
		Host:           cfg.DBHost,
		Port:           cfg.DBPort,
		Service:        cfg.DBService,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		logger.Close()
		return nil, withCode(exitDB, err)
	}
	logger.Info("Database connection established")

	s.deps = importer.Deps{
		Departments: store.Departments(),
		Positions:   store.Positions(),
		Employees:   store.Employees(),
		Tx:          store,
	}
	s.closeDB = store.Close
	return s, nil
}

func (s *session) Close() {
	if err := s.closeDB(); err != nil {
		s.logger.Warn("Failed to close database: %v", err)
	}
	s.logger.Close()
}

func (s *session) importer() *importer.Importer {
	return importer.New(s.deps, s.logger)
}

func (s *session) options() importer.Options {
	return importer.Options{
		UseTransaction: s.cfg.UseTransaction,
		SkipOnError:    s.cfg.SkipOnError,
	}
}

// source reads a local file or an s3:// object
func (s *session) source(ctx context.Context, path string) (*parser.Source, error) {
	return readSource(ctx, s.cfg, &s.s3, path)
}

func readSource(ctx context.Context, cfg *config.Config, client **storage.S3Client, path string) (*parser.Source, error) {
	if !storage.IsURI(path) {
		src, err := parser.ReadFile(path, cfg.Delimiter)
		if err != nil {
			return nil, withCode(exitUsage, err)
		}
		return src, nil
	}

	loc, err := storage.ParseURI(path)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	if *client == nil {
		s3cfg := cfg.S3
		if s3cfg.Bucket == "" {
			s3cfg.Bucket = loc.Bucket
		}
		c, err := storage.NewS3Client(ctx, &s3cfg)
		if err != nil {
			return nil, withCode(exitUsage, err)
		}
		*client = c
	}

	data, err := (*client).Fetch(ctx, loc)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	src, err := parser.ReadBytes(loc.Name(), data, cfg.Delimiter)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	return src, nil
}

// finish reports the result, records the run and maps its status to an exit code
func (s *session) finish(ctx context.Context, kind string, sources []string, result *types.ImportResult) error {
	rep := result.Report()
	printSummary(rep, s.cfg, s.logger)

	if s.cfg.ReportFile != "" {
		if err := report.Write(s.cfg.ReportFile, s.cfg.ReportFormat, rep); err != nil {
			s.logger.Error("Failed to write report: %v", err)
			return withCode(exitUnexpected, err)
		}
		s.logger.Info("Report written to %s", s.cfg.ReportFile)
	}

	j, err := journal.Load(s.cfg.JournalFile)
	if err != nil {
		s.logger.Warn("Journal not updated: %v", err)
	} else {
		entry := journal.NewEntry(kind, sources, s.startedAt, result)
		entry.DryRun = s.cfg.DryRun
		if err := j.Append(entry); err != nil {
			s.logger.Warn("Journal not updated: %v", err)
		} else {
			s.logger.Debug("Run %s recorded in %s", entry.RunID, j.Path())
		}
	}

	if s.cfg.S3.Enabled() {
		s.upload(ctx)
	}

	if rep.Status != types.StatusSuccess {
		return withCode(exitImport, fmt.Errorf("import finished with status %s: %d of %d rows failed",
			rep.Status, rep.Failed, rep.TotalProcessed))
	}
	return nil
}

// upload copies the report and journal to S3. Failures are logged only.
func (s *session) upload(ctx context.Context) {
	if s.s3 == nil {
		c, err := storage.NewS3Client(ctx, &s.cfg.S3)
		if err != nil {
			s.logger.Warn("S3 upload skipped: %v", err)
			return
		}
		s.s3 = c
	}

	if s.cfg.ReportFile != "" {
		key := s.cfg.S3.ReportKey(s.startedAt, s.cfg.ReportFile)
		if exists, err := s.s3.Exists(ctx, key); err == nil && exists {
			s.logger.Warn("Overwriting existing report s3://%s/%s", s.cfg.S3.Bucket, key)
		}
		if err := s.s3.UploadFile(ctx, key, s.cfg.ReportFile); err != nil {
			s.logger.Warn("Report upload failed: %v", err)
		} else {
			s.logger.Info("Report uploaded to s3://%s/%s", s.cfg.S3.Bucket, key)
		}
	}
	if err := s.s3.UploadFile(ctx, s.cfg.S3.JournalKey(), s.cfg.JournalFile); err != nil {
		s.logger.Warn("Journal upload failed: %v", err)
	}
}

func printSummary(rep types.Report, cfg *config.Config, logger *logging.Logger) {
	logger.Info("==================================================")
	logger.Info("Import finished: %s", rep.Status)
	logger.Info("Total processed: %d", rep.TotalProcessed)
	logger.Info("Successful: %d", rep.Successful)
	if rep.Failed > 0 {
		logger.Error("Failed: %d", rep.Failed)
	}
	logger.Info("Departments created: %d, positions created: %d", rep.DepartmentsCreated, rep.PositionsCreated)
	logger.Info("Employees created: %d, updated: %d", rep.EmployeesCreated, rep.EmployeesUpdated)
	logger.Info("==================================================")

	limit := len(rep.Errors)
	if !cfg.Verbose && limit > 10 {
		limit = 10
	}
	for _, e := range rep.Errors[:limit] {
		if e.RowNumber > 0 {
			logger.Error("  ✗ row %d [%s]: %s", e.RowNumber, e.Type, e.Message)
		} else {
			logger.Error("  ✗ [%s]: %s", e.Type, e.Message)
		}
	}
	if limit < len(rep.Errors) {
		logger.Error("  ... %d more errors (use --verbose or --report-file)", len(rep.Errors)-limit)
	}
}
