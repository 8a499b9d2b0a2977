// Package constants provides shared constants for the finance-dashboard application.
package constants

// PeriodLayout is the label format for monthly periods in workbooks and
// forecast output, e.g. "Jan 2024".
const PeriodLayout = "Jan 2006"

// DateLayout is the format for calendar dates such as asset purchase dates.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the day count used by the cash conversion calculator
	// and for depreciation elapsed time.
	DaysPerYear = 365

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// BalanceSheetTolerance is the relative tolerance used when checking that
	// total assets reconcile with total liabilities plus equity.
	BalanceSheetTolerance = 0.01
)

// Forecast constants
const (
	// DefaultForecastPeriods is the number of months forecast when unspecified
	DefaultForecastPeriods = 6

	// DefaultGrowthRate is the monthly growth rate in percent
	DefaultGrowthRate = 5.0

	// DefaultConfidenceInterval is the confidence level in percent
	DefaultConfidenceInterval = 80.0

	// DefaultJitterAmplitude bounds the multiplicative jitter to [1-a, 1+a]
	DefaultJitterAmplitude = 0.05

	// HistoricalBand is the cosmetic band applied around historical points
	HistoricalBand = 0.05

	// ConfidenceBandOffset is added to the confidence factor before widening
	ConfidenceBandOffset = 0.05

	// ConfidenceBandDivisor scales how quickly the band widens per step
	ConfidenceBandDivisor = 10.0

	// MovingAverageWindow is the number of trailing points averaged
	MovingAverageWindow = 3

	// ExpenseGrowthOffset is subtracted from the revenue growth rate to
	// obtain the expense growth rate, in percentage points.
	ExpenseGrowthOffset = 1.0

	// MaxForecastPeriods caps the periods the HTTP API will generate
	MaxForecastPeriods = 120

	// MinGrowthRate and MaxGrowthRate bound the dashboard slider
	MinGrowthRate = -10.0
	MaxGrowthRate = 20.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default workbook file name
	DefaultConfigFile = "workbook.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for workbooks (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// ServerAddressEnv overrides the configured listen address
	ServerAddressEnv = "FINANCE_DASHBOARD_ADDRESS"
)
