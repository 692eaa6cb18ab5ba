package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	f := cmd.Flags()
	f.String("db-host", DefaultDBHost, "")
	f.Int("db-port", DefaultDBPort, "")
	f.String("delimiter", DefaultDelimiter, "")
	f.Bool("skip-on-error", false, "")
	f.Bool("dry-run", false, "")
	f.String("report-format", DefaultReportFormat, "")
	f.String("env-file", DefaultEnvFile, "")
	f.Duration("connect-timeout", DefaultConnectTimeoutSecs*time.Second, "")
	return cmd
}

func TestFromCommand_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := newTestCommand()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromCommand(cmd)
	if err != nil {
		t.Fatalf("FromCommand() error = %v", err)
	}
	if cfg.DBHost != DefaultDBHost {
		t.Errorf("DBHost = %q, want %q", cfg.DBHost, DefaultDBHost)
	}
	if !cfg.UseTransaction {
		t.Error("UseTransaction = false, want true by default")
	}
	if cfg.JournalFile != DefaultJournalFile {
		t.Errorf("JournalFile = %q, want %q", cfg.JournalFile, DefaultJournalFile)
	}
	if cfg.ImportTimeout != DefaultImportTimeoutSecs*time.Second {
		t.Errorf("ImportTimeout = %v", cfg.ImportTimeout)
	}
}

func TestFromCommand_FlagsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvDBPassword, "secret")
	t.Setenv("ORGIMPORT_DB_SERVICE", "HRPDB")
	t.Setenv(EnvS3Bucket, "org-imports")

	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--db-host=oracle.local", "--skip-on-error", "--delimiter=;"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromCommand(cmd)
	if err != nil {
		t.Fatalf("FromCommand() error = %v", err)
	}
	if cfg.DBHost != "oracle.local" {
		t.Errorf("DBHost = %q, want oracle.local", cfg.DBHost)
	}
	if !cfg.SkipOnError {
		t.Error("SkipOnError = false, want true")
	}
	if cfg.Delimiter != ";" {
		t.Errorf("Delimiter = %q, want ;", cfg.Delimiter)
	}
	if cfg.DBPassword != "secret" {
		t.Errorf("DBPassword = %q, want secret", cfg.DBPassword)
	}
	if cfg.DBService != "HRPDB" {
		t.Errorf("DBService = %q, want HRPDB", cfg.DBService)
	}
	if cfg.S3.Bucket != "org-imports" {
		t.Errorf("S3.Bucket = %q, want org-imports", cfg.S3.Bucket)
	}
}

func TestFromCommand_EnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	envPath := filepath.Join(t.TempDir(), "import.env")
	content := "ORGIMPORT_DB_USER=hr_loader\nORGIMPORT_DB_PASSWORD=from-file\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load sets process env; register cleanup so other tests are unaffected
	t.Setenv("ORGIMPORT_DB_USER", "")
	os.Unsetenv("ORGIMPORT_DB_USER")
	t.Setenv(EnvDBPassword, "")
	os.Unsetenv(EnvDBPassword)

	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--env-file=" + envPath}); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromCommand(cmd)
	if err != nil {
		t.Fatalf("FromCommand() error = %v", err)
	}
	if cfg.DBUser != "hr_loader" {
		t.Errorf("DBUser = %q, want hr_loader", cfg.DBUser)
	}
	if cfg.DBPassword != "from-file" {
		t.Errorf("DBPassword = %q, want from-file", cfg.DBPassword)
	}
}

func TestFromCommand_MissingExplicitEnvFile(t *testing.T) {
	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--env-file=" + filepath.Join(t.TempDir(), "nope.env")}); err != nil {
		t.Fatal(err)
	}

	if _, err := FromCommand(cmd); err == nil {
		t.Error("expected error for missing explicit env file")
	}
}
