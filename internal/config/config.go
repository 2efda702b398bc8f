// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-calculator.
type Configuration struct {
	Loans   []Loan        `yaml:"loans"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Loan describes one calculation to run.
type Loan struct {
	Name                 string  `yaml:"name"`
	Active               bool    `yaml:"active"`
	HomePrice            float64 `yaml:"homePrice"`
	DownPayment          float64 `yaml:"downPayment"`
	DownPaymentIsPercent bool    `yaml:"downPaymentIsPercent,omitempty"`
	InterestRate         float64 `yaml:"interestRate"` // annual, percent
	LoanTermYears        float64 `yaml:"loanTermYears"`
	Schedule             bool    `yaml:"schedule,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// DownPaymentAmount returns the down payment in currency, converting a
// percentage of the home price when the loan is configured that way.
func (loan Loan) DownPaymentAmount() float64 {
	if loan.DownPaymentIsPercent {
		return mathutil.ApplyPercentage(loan.HomePrice, loan.DownPayment)
	}
	return loan.DownPayment
}

// Inputs converts the configured loan into calculator inputs.
func (loan Loan) Inputs() loans.LoanInputs {
	return loans.LoanInputs{
		HomePrice:          loan.HomePrice,
		DownPayment:        loan.DownPaymentAmount(),
		AnnualInterestRate: loan.InterestRate,
		LoanTermYears:      loan.LoanTermYears,
	}
}

// ActiveLoans returns the loans flagged active, in configuration order.
func (c *Configuration) ActiveLoans() []Loan {
	var active []Loan
	for _, loan := range c.Loans {
		if loan.Active {
			active = append(active, loan)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Loans that would calculate to zero are reported but not
// rejected since the calculator handles them.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.Loans) == 0 {
		return append(warnings, "No loans configured")
	}

	seen := make(map[string]struct{}, len(c.Loans))
	for _, loan := range c.Loans {
		if _, dup := seen[loan.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Loan name '%s' is used more than once", loan.Name))
		}
		seen[loan.Name] = struct{}{}

		if !loan.Active {
			continue
		}

		if !mathutil.IsPositive(loan.HomePrice) {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' has no home price", loan.Name))
		}
		if loan.DownPaymentIsPercent && (loan.DownPayment < 0 || loan.DownPayment > constants.PercentageMultiplier) {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' down payment of %.2f%% is outside 0-100%%",
				loan.Name, loan.DownPayment))
		}
		if loan.HomePrice > 0 && loan.DownPaymentAmount() >= loan.HomePrice {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' down payment covers the home price - nothing to finance",
				loan.Name))
		}
		if loan.InterestRate < 0 {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' has a negative interest rate (%.3f%%)",
				loan.Name, loan.InterestRate))
		}
		if loan.LoanTermYears <= 0 {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' has no term - no payments will be calculated",
				loan.Name))
		} else if !loans.Calculate(loan.Inputs()).Finite() {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' term of %g years is too long to calculate a payment",
				loan.Name, loan.LoanTermYears))
		}
	}

	if len(c.ActiveLoans()) == 0 {
		warnings = append(warnings, "No active loans configured")
	}

	return warnings
}
