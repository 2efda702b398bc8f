package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/internal/quote"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	flags := &loanFlags{}

	cmd := &cobra.Command{
		Use:   "loancalc",
		Short: "Mobile home loan payment calculator",
		Long: "Calculate the monthly payment, total paid and total interest of a fixed-rate\n" +
			"chattel loan, either from flags or from the loans listed in a config file.",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// A .env file is optional; LOANCALC_ variables may come from the shell.
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, opts, flags, false)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")

	cmd.AddCommand(
		newCalculateCmd(opts),
		newScheduleCmd(opts),
		newExampleCmd(opts),
		newServeCmd(opts),
		newInteractiveCmd(opts),
	)
	return cmd
}

// loanFlags describe a single loan on the command line. When none of them are
// set the loans come from the configuration file instead.
type loanFlags struct {
	homePrice    string
	downPayment  string
	percent      bool
	interestRate string
	loanTerm     string
	name         string
}

var loanFlagNames = []string{"home-price", "down-payment", "percent", "rate", "term"}

func (f *loanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.homePrice, "home-price", "", "home price, e.g. $60,000")
	cmd.Flags().StringVar(&f.downPayment, "down-payment", "", "down payment amount, or percentage with --percent")
	cmd.Flags().BoolVar(&f.percent, "percent", false, "treat --down-payment as a percentage of the home price")
	cmd.Flags().StringVar(&f.interestRate, "rate", "", "annual interest rate in percent")
	cmd.Flags().StringVar(&f.loanTerm, "term", "", "loan term in years")
	cmd.Flags().StringVar(&f.name, "loan", "", "name of a configured loan to use (config mode only)")
}

func (f *loanFlags) provided(cmd *cobra.Command) bool {
	for _, name := range loanFlagNames {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			return true
		}
	}
	return false
}

func (f *loanFlags) form() validation.LoanForm {
	return validation.LoanForm{
		HomePrice:            f.homePrice,
		DownPayment:          f.downPayment,
		DownPaymentIsPercent: f.percent,
		InterestRate:         f.interestRate,
		LoanTerm:             f.loanTerm,
	}
}

// load reads the configuration and builds the logger. When requireConfig is
// false a missing configuration file is treated as an empty one.
func (o *rootOptions) load(requireConfig bool) (*config.Configuration, *zap.Logger, error) {
	conf := &config.Configuration{}
	if _, err := os.Stat(o.configPath); requireConfig || !errors.Is(err, fs.ErrNotExist) {
		loaded, err := config.LoadConfiguration(o.configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
		}
		conf = loaded
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return conf, logger, nil
}

// resolveOutputFormat applies the CLI override over the configured format.
func (o *rootOptions) resolveOutputFormat(conf *config.Configuration) (string, error) {
	outputFormat := conf.Output.Format
	if o.outputFormat != "" {
		outputFormat = o.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

// quotes returns the loans to report on: the one described by flags, or the
// active loans of the configuration.
func (o *rootOptions) quotes(cmd *cobra.Command, flags *loanFlags, conf *config.Configuration, logger *zap.Logger, schedule bool) ([]quote.Quote, error) {
	if flags.provided(cmd) {
		name := flags.name
		if name == "" {
			name = "command line"
		}
		single := config.Configuration{Loans: []config.Loan{{Name: name, Active: true, Schedule: schedule}}}
		inputs, err := flags.form().Inputs()
		if err != nil {
			return nil, err
		}
		single.Loans[0].HomePrice = inputs.HomePrice
		single.Loans[0].DownPayment = inputs.DownPayment
		single.Loans[0].InterestRate = inputs.AnnualInterestRate
		single.Loans[0].LoanTermYears = inputs.LoanTermYears
		return quote.GetQuotes(logger, single)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if schedule {
		for i := range conf.Loans {
			conf.Loans[i].Schedule = true
		}
	}

	results, err := quote.GetQuotes(logger, *conf)
	if err != nil {
		return nil, err
	}
	if flags.name == "" {
		return results, nil
	}

	found := quote.FindQuote(results, flags.name)
	if found == nil {
		return nil, fmt.Errorf("no active loan named %q in %s", flags.name, o.configPath)
	}
	return []quote.Quote{*found}, nil
}

func writeQuotes(w io.Writer, outputFormat string, results []quote.Quote) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, results)
	default:
		output.PrettyFormat(w, results)
		return nil
	}
}
