package config

// Application constants
const (
	AppName = "salesreport"

	// EnvPrefix namespaces every environment variable, e.g. SALESREPORT_REPORT_INPUT
	EnvPrefix = "SALESREPORT"

	DotEnvFile = ".env"

	DefaultInputFile        = "GLOBAL DATASET .xlsx"
	DefaultOutputFile       = "GlobalTech_Sales_Analysis.xlsx"
	DefaultHighlightManager = "Emmanuel"
	DefaultTopProducts      = 10
	DefaultTopCategories    = 6
	DefaultCurrencySymbol   = "₦"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/salesreport.log"
)

// ConfigFileLocations are searched in order when no config file is given
var ConfigFileLocations = []string{
	"salesreport.yaml",
	"config.yaml",
	"configs/salesreport.yaml",
}
