package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koltyakov/orgimport/internal/config"
	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/importer"
	"github.com/koltyakov/orgimport/internal/journal"
	"github.com/koltyakov/orgimport/internal/report"
	"github.com/koltyakov/orgimport/internal/storage"
	"github.com/koltyakov/orgimport/pkg/types"
)

func runEntity(cmd *cobra.Command, kind domain.Kind) error {
	path, _ := cmd.Flags().GetString("file")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cfg.ImportTimeout)
	defer cancel()

	s, err := openSession(ctx, cfg, path)
	if err != nil {
		return err
	}
	defer s.Close()

	src, err := s.source(ctx, path)
	if err != nil {
		s.logger.Error("Failed to read %s: %v", path, err)
		return err
	}
	s.logger.Info("Importing %s from %s (%s, %s, delimiter %q)", kind, src.Name, src.Format, src.Encoding, src.Delimiter)

	imp := s.importer()
	opts := s.options()

	var result *types.ImportResult
	switch kind {
	case domain.KindDepartments:
		result = imp.ImportDepartments(ctx, src.Content, src.Delimiter, opts)
	case domain.KindPositions:
		result = imp.ImportPositions(ctx, src.Content, src.Delimiter, opts)
	default:
		result = imp.ImportEmployees(ctx, src.Content, src.Delimiter, opts)
	}

	return s.finish(ctx, string(kind), []string{path}, result)
}

func runFull(cmd *cobra.Command, args []string) error {
	deptPath, _ := cmd.Flags().GetString("departments")
	posPath, _ := cmd.Flags().GetString("positions")
	empPath, _ := cmd.Flags().GetString("employees")
	paths := []string{deptPath, posPath, empPath}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cfg.ImportTimeout)
	defer cancel()

	s, err := openSession(ctx, cfg, paths...)
	if err != nil {
		return err
	}
	defer s.Close()

	depts, err := s.source(ctx, deptPath)
	if err != nil {
		return err
	}
	positions, err := s.source(ctx, posPath)
	if err != nil {
		return err
	}
	employees, err := s.source(ctx, empPath)
	if err != nil {
		return err
	}

	opts := s.options()
	opts.DepartmentDelimiter = depts.Delimiter
	opts.PositionDelimiter = positions.Delimiter
	opts.EmployeeDelimiter = employees.Delimiter

	s.logger.Info("Importing full organization structure")
	result := s.importer().ImportFullOrgStructure(ctx, depts.Content, positions.Content, employees.Content, opts)

	return s.finish(ctx, "full", paths, result)
}

func runFile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cfg.ImportTimeout)
	defer cancel()

	s, err := openSession(ctx, cfg, path)
	if err != nil {
		return err
	}
	defer s.Close()

	src, err := s.source(ctx, path)
	if err != nil {
		s.logger.Error("Failed to read %s: %v", path, err)
		return err
	}

	result := s.importer().ImportFromSource(ctx, src, s.options())
	return s.finish(ctx, string(domain.KindAdhoc), []string{path}, result)
}

// runCheck needs no database, so DB settings are not validated
func runCheck(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	kindFlag, _ := cmd.Flags().GetString("kind")

	var kind domain.Kind
	if kindFlag != "" {
		k, ok := domain.ParseKind(kindFlag)
		if !ok {
			return withCode(exitUsage, fmt.Errorf("unknown kind %q", kindFlag))
		}
		kind = k
	}

	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if cfg.Delimiter, err = config.NormalizeDelimiter(cfg.Delimiter); err != nil {
		return withCode(exitUsage, err)
	}

	ctx, cancel := signalContext(cfg.ImportTimeout)
	defer cancel()

	var client *storage.S3Client
	src, err := readSource(ctx, cfg, &client, path)
	if err != nil {
		return err
	}

	summary, err := importer.Check(src, kind)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if err := writeJSON(summary); err != nil {
		return err
	}
	if !summary.Valid() {
		return withCode(exitImport, fmt.Errorf("%s: %d of %d rows invalid, %d headers missing",
			src.Name, summary.InvalidRows, summary.TotalRows, len(summary.MissingHeaders)))
	}
	return nil
}

func runTemplate(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	kind, ok := domain.ParseKind(kindFlag)
	if !ok {
		return withCode(exitUsage, fmt.Errorf("unknown kind %q", kindFlag))
	}
	if err := report.WriteTemplate(out, kind, format); err != nil {
		return withCode(exitUsage, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s template written to %s\n", kind, out)
	return nil
}

func runJournal(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return withCode(exitUsage, err)
	}

	j, err := journal.Load(cfg.JournalFile)
	if err != nil {
		return withCode(exitUsage, err)
	}
	for _, e := range j.Recent(limit) {
		if err := writeJSON(e); err != nil {
			return err
		}
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	testConn, _ := cmd.Flags().GetBool("test-connection")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidatePaths(); err != nil {
		return withCode(exitUsage, err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.Info("Configuration validation: OK")
	if !testConn {
		return nil
	}

	ctx, cancel := signalContext(cfg.ConnectTimeout)
	defer cancel()

	if cfg.DryRun {
		logger.Info("Database connection: skipped (dry run)")
	} else {
		s, err := openSession(ctx, cfg)
		if err != nil {
			return err
		}
		s.Close()
		logger.Info("Database connection: OK")
	}

	if cfg.S3.Enabled() {
		client, err := storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return withCode(exitUsage, err)
		}
		if err := client.CheckConnection(ctx); err != nil {
			logger.Error("S3 connection failed: %v", err)
			return withCode(exitUnexpected, err)
		}
		logger.Info("S3 connection: OK (bucket %s)", cfg.S3.Bucket)
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withCode(exitUnexpected, fmt.Errorf("json encode: %w", err))
	}
	return nil
}
