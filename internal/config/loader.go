package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FromCommand loads configuration from cobra command flags, an optional .env file
// and environment variables
func FromCommand(cmd *cobra.Command) (*Config, error) {
	if err := loadEnvFile(cmd); err != nil {
		return nil, err
	}

	v := viper.New()

	// Bind flags to viper
	flags := []struct {
		name string
		key  string
	}{
		{"db-host", "db_host"},
		{"db-port", "db_port"},
		{"db-service", "db_service"},
		{"db-user", "db_user"},
		{"delimiter", "delimiter"},
		{"skip-on-error", "skip_on_error"},
		{"use-transaction", "use_transaction"},
		{"dry-run", "dry_run"},
		{"verbose", "verbose"},
		{"report-file", "report_file"},
		{"report-format", "report_format"},
		{"journal-file", "journal_file"},
		{"log-file", "log_file"},
		{"log-format", "log_format"},
		{"connect-timeout", "connect_timeout"},
		{"import-timeout", "import_timeout"},
	}

	for _, f := range flags {
		flag := cmd.Flags().Lookup(f.name)
		if flag != nil {
			_ = v.BindPFlag(f.key, flag)
		}
	}

	// Enable environment variable reading
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("db_password", EnvDBPassword)
	_ = v.BindEnv("s3_bucket", EnvS3Bucket)
	_ = v.BindEnv("s3_prefix", EnvS3Prefix)
	_ = v.BindEnv("s3_endpoint", EnvS3Endpoint)

	setDefaults(v)

	result := &Config{}
	if err := v.Unmarshal(result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set durations from duration flags
	result.ConnectTimeout = v.GetDuration("connect_timeout")
	result.ImportTimeout = v.GetDuration("import_timeout")

	return result, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_host", DefaultDBHost)
	v.SetDefault("db_port", DefaultDBPort)
	v.SetDefault("db_service", DefaultDBService)
	v.SetDefault("db_user", DefaultDBUser)
	v.SetDefault("db_password", "")
	v.SetDefault("delimiter", DefaultDelimiter)
	v.SetDefault("skip_on_error", false)
	v.SetDefault("use_transaction", true)
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)
	v.SetDefault("report_file", "")
	v.SetDefault("report_format", DefaultReportFormat)
	v.SetDefault("journal_file", DefaultJournalFile)
	v.SetDefault("log_file", "")
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("connect_timeout", DefaultConnectTimeoutSecs*time.Second)
	v.SetDefault("import_timeout", DefaultImportTimeoutSecs*time.Second)
	v.SetDefault("s3_region", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_session_token", "")
}

// loadEnvFile loads variables from --env-file, or from ./.env when it exists.
// Variables already present in the environment are not overridden.
func loadEnvFile(cmd *cobra.Command) error {
	path := DefaultEnvFile
	explicit := false
	if flag := cmd.Flags().Lookup("env-file"); flag != nil && flag.Changed {
		path = flag.Value.String()
		explicit = true
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("env file %s: %w", path, err)
		}
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
