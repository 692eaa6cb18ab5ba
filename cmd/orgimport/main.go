package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/koltyakov/orgimport/internal/config"
	"github.com/koltyakov/orgimport/internal/domain"
)

var (
	// Version is set at build time
	version = "dev"
	// BuildTime is set at build time
	buildTime = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orgimport",
		Short: "Bulk import of departments, positions and employees from CSV",
		Long: `orgimport loads organization structure data from CSV or XLSX files into Oracle.
Rows are validated before anything is written; relationship and hierarchy errors
roll back the whole batch.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Common flags
	rootCmd.PersistentFlags().String("db-host", config.DefaultDBHost, "Database host")
	rootCmd.PersistentFlags().Int("db-port", config.DefaultDBPort, "Database port")
	rootCmd.PersistentFlags().String("db-service", config.DefaultDBService, "Database service name")
	rootCmd.PersistentFlags().String("db-user", config.DefaultDBUser, "Database user")
	rootCmd.PersistentFlags().String("delimiter", config.DefaultDelimiter, "Column delimiter: auto, ',', ';' or tab")
	rootCmd.PersistentFlags().Bool("skip-on-error", false, "Keep importing departments after a bad row")
	rootCmd.PersistentFlags().Bool("use-transaction", true, "Run each entity import in one transaction")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Import into an in-memory store instead of the database")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("report-file", "", "Write the import report to this file")
	rootCmd.PersistentFlags().String("report-format", config.DefaultReportFormat, "Report format: json, csv or xlsx")
	rootCmd.PersistentFlags().String("journal-file", config.DefaultJournalFile, "Path to the import journal")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format: text or json")
	rootCmd.PersistentFlags().String("env-file", config.DefaultEnvFile, "Load environment variables from this file")
	rootCmd.PersistentFlags().Duration("connect-timeout", config.DefaultConnectTimeoutSecs*time.Second, "Connection timeout")
	rootCmd.PersistentFlags().Duration("import-timeout", config.DefaultImportTimeoutSecs*time.Second, "Import timeout")

	rootCmd.AddCommand(
		newEntityCmd(domain.KindDepartments, "Import departments"),
		newEntityCmd(domain.KindPositions, "Import positions"),
		newEntityCmd(domain.KindEmployees, "Import employees"),
		newFullCmd(),
		newFileCmd(),
		newCheckCmd(),
		newTemplateCmd(),
		newJournalCmd(),
		newValidateCmd(),
	)
	return rootCmd
}

func newEntityCmd(kind domain.Kind, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Long:  fmt.Sprintf("%s from a CSV or XLSX file (local path or s3://bucket/key)", short),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntity(cmd, kind)
		},
	}
	cmd.Flags().String("file", "", "Input file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newFullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "full",
		Short: "Import departments, positions and employees in one run",
		Long:  "Import the full organization structure. A failed departments or positions stage stops the run.",
		RunE:  runFull,
	}
	cmd.Flags().String("departments", "", "Departments file")
	cmd.Flags().String("positions", "", "Positions file")
	cmd.Flags().String("employees", "", "Employees file")
	for _, name := range []string{"departments", "positions", "employees"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Import an employee sheet naming departments and positions inline",
		Long:  "Import a single employee sheet (ФИО, Таб.номер, Подразделение, Должность, ...). Missing departments and positions are created.",
		RunE:  runFile,
	}
	cmd.Flags().String("file", "", "Input file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Preview a file without importing it",
		Long:  "Check headers and rows of a file and print statistics. Nothing is written.",
		RunE:  runCheck,
	}
	cmd.Flags().String("file", "", "Input file")
	cmd.Flags().String("kind", "", "departments, positions, employees or adhoc (detected when empty)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an import template",
		RunE:  runTemplate,
	}
	cmd.Flags().String("kind", string(domain.KindEmployees), "departments, positions, employees or adhoc")
	cmd.Flags().String("format", config.ReportFormatCSV, "csv or xlsx")
	cmd.Flags().String("out", "", "Output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent import runs",
		RunE:  runJournal,
	}
	cmd.Flags().Int("limit", 10, "Number of runs to show")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and connectivity",
		Long:  "Validate configuration and optionally test the database and S3 connections",
		RunE:  runValidate,
	}
	cmd.Flags().Bool("test-connection", false, "Test database and S3 connections")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}
