package config

const (
	// Default values
	DefaultDBHost             = "dbserver"
	DefaultDBPort             = 1521
	DefaultDBService          = "ORCL"
	DefaultDBUser             = "system"
	DefaultDelimiter          = DelimiterAuto
	DefaultReportFormat       = ReportFormatJSON
	DefaultLogFormat          = "text"
	DefaultJournalFile        = "./orgimport-journal.json"
	DefaultEnvFile            = ".env"
	DefaultConnectTimeoutSecs = 30
	DefaultImportTimeoutSecs  = 1800 // 30 minutes

	// S3 defaults
	DefaultS3PartSize = 5 * 1024 * 1024 // 5MB
)

// Delimiter values accepted by --delimiter
const (
	DelimiterAuto      = "auto"
	DelimiterComma     = ","
	DelimiterSemicolon = ";"
	DelimiterTab       = "\t"
)

// Report formats
const (
	ReportFormatJSON = "json"
	ReportFormatCSV  = "csv"
	ReportFormatXLSX = "xlsx"
)

const (
	// Environment variable names
	EnvDBPassword = "ORGIMPORT_DB_PASSWORD"
	EnvPrefix     = "ORGIMPORT"

	// S3 environment variable names.
	// AWS credentials and region use the standard AWS env vars picked up by the SDK.
	EnvS3Bucket   = "ORGIMPORT_S3_BUCKET"
	EnvS3Prefix   = "ORGIMPORT_S3_PREFIX"
	EnvS3Endpoint = "ORGIMPORT_S3_ENDPOINT"
)
