// Package constants provides shared constants for the loan-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencySymbol is the symbol prefixed to formatted amounts
	CurrencySymbol = "$"

	// MaxSchedulePayments bounds the rows of a generated schedule (1000 years)
	MaxSchedulePayments = 1000 * MonthsPerYear
)

// Example preset shown by the calculator: a $60,000 home with 10% down at 9%
// over 20 years.
const (
	ExampleHomePrice          = 60000.0
	ExampleDownPaymentPercent = 10.0
	ExampleInterestRate       = 9.0
	ExampleLoanTermYears      = 20.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML export format (server only)
	OutputFormatYAML = "yaml"

	// OutputFormatText is the plain text export format (server only)
	OutputFormatText = "text"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "loans.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "loans.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides read by viper
	EnvPrefix = "LOANCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Document metadata used by exports
const (
	// SummaryOrganization heads every exported summary
	SummaryOrganization = "Bedrock Communities"

	// SummaryTitle is the title of an exported summary
	SummaryTitle = "Loan Payment Summary"

	// SummaryDateLayout is the layout of the generated date on exports
	SummaryDateLayout = "1/2/2006"
)
