package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Validate checks if the configuration is valid.
// It normalizes the delimiter and format fields in place.
func (c *Config) Validate() error {
	if !c.DryRun {
		if err := c.validateDB(); err != nil {
			return err
		}
	}

	delimiter, err := NormalizeDelimiter(c.Delimiter)
	if err != nil {
		return err
	}
	c.Delimiter = delimiter

	c.ReportFormat = strings.ToLower(strings.TrimSpace(c.ReportFormat))
	if c.ReportFormat == "" {
		c.ReportFormat = DefaultReportFormat
	}
	switch c.ReportFormat {
	case ReportFormatJSON, ReportFormatCSV, ReportFormatXLSX:
	default:
		return fmt.Errorf("report_format must be one of json, csv, xlsx (got %q)", c.ReportFormat)
	}

	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json (got %q)", c.LogFormat)
	}

	// Validate timeouts
	if c.ConnectTimeout < time.Second || c.ConnectTimeout > time.Hour {
		return fmt.Errorf("connect_timeout must be between 1s and 1h")
	}
	if c.ImportTimeout < time.Second || c.ImportTimeout > 24*time.Hour {
		return fmt.Errorf("import_timeout must be between 1s and 24h")
	}

	// Validate S3 configuration
	if err := c.S3.Validate(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateDB() error {
	if c.DBUser == "" {
		return fmt.Errorf("db_user is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("db_password is required (set %s env var)", EnvDBPassword)
	}
	if c.DBHost == "" {
		return fmt.Errorf("db_host is required")
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		return fmt.Errorf("db_port must be between 1 and 65535")
	}
	if c.DBService == "" {
		return fmt.Errorf("db_service is required")
	}
	return nil
}

// NormalizeDelimiter maps user-facing delimiter spellings to the delimiter itself.
// "auto" and "" both mean detection.
func NormalizeDelimiter(d string) (string, error) {
	switch strings.ToLower(d) {
	case "", DelimiterAuto:
		return DelimiterAuto, nil
	case DelimiterComma, "comma":
		return DelimiterComma, nil
	case DelimiterSemicolon, "semicolon":
		return DelimiterSemicolon, nil
	case DelimiterTab, `\t`, "tab":
		return DelimiterTab, nil
	}
	return "", fmt.Errorf("delimiter must be one of auto, ',', ';', tab (got %q)", d)
}

// ValidatePaths checks that local inputs are readable and output locations writable
func (c *Config) ValidatePaths(inputs ...string) error {
	for _, in := range inputs {
		if in == "" || strings.HasPrefix(in, "s3://") {
			continue
		}
		if err := validateFileReadable(in); err != nil {
			return fmt.Errorf("input validation failed: %w", err)
		}
	}

	for name, path := range map[string]string{"report_file": c.ReportFile, "journal_file": c.JournalFile} {
		if path == "" {
			continue
		}
		dir := dirPath(path)
		if dir == "." {
			continue
		}
		if err := validateDirWritable(dir); err != nil {
			return fmt.Errorf("%s directory validation failed: %w", name, err)
		}
	}

	return nil
}

// validateFileReadable checks if a regular file exists and can be opened
func validateFileReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("failed to access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file not readable: %w", err)
	}
	f.Close()

	return nil
}

// validateDirWritable checks if a directory can be written to
func validateDirWritable(path string) error {
	// If directory doesn't exist, try to create it
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
		return nil
	}

	testFile := fmt.Sprintf("%s/.write_test_%d", path, time.Now().UnixNano())
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	f.Close()
	os.Remove(testFile)

	return nil
}

// dirPath returns the directory path of a file path
func dirPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[:i]
		}
	}
	return "."
}
