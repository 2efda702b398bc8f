// Package quote runs the configured loans through the calculator and
// collects the results.
package quote

import (
	"errors"
	"fmt"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"go.uber.org/zap"
)

// ErrNoActiveLoans is returned when the configuration has nothing to calculate.
var ErrNoActiveLoans = errors.New("no active loans configured")

// ErrNotCalculable is returned when a loan's payment overflows, typically for
// a term of thousands of years.
var ErrNotCalculable = errors.New("payment cannot be calculated")

// Quote holds all information related to a specific loan calculation.
type Quote struct {
	Name     string
	Inputs   loans.LoanInputs
	Results  loans.LoanResults
	Schedule []loans.Payment
}

// GetQuotes calculates every active loan in configuration order.
func GetQuotes(logger *zap.Logger, conf config.Configuration) ([]Quote, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	generator := loans.NewAmortizationScheduleGenerator(logger)

	var results []Quote
	for _, loan := range conf.Loans {
		if !loan.Active {
			logger.Debug(fmt.Sprintf("skipping loan %s because it is inactive", loan.Name),
				zap.String("op", "quote.GetQuotes"),
			)
			continue
		}

		result := Quote{
			Name:   loan.Name,
			Inputs: loan.Inputs(),
		}
		result.Results = loans.Calculate(result.Inputs)
		if !result.Results.Finite() {
			return nil, fmt.Errorf("loan %s: %w", loan.Name, ErrNotCalculable)
		}
		if loan.Schedule {
			result.Schedule = generator.GenerateSchedule(result.Inputs)
		}

		logger.Debug(fmt.Sprintf("calculated loan %s", loan.Name),
			zap.String("op", "quote.GetQuotes"),
			zap.Float64("principal", result.Results.Principal),
			zap.Float64("monthlyPayment", result.Results.MonthlyPayment),
			zap.Int("scheduledPayments", len(result.Schedule)),
		)
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, ErrNoActiveLoans
	}
	return results, nil
}

// FindQuote finds a quote by name in the results slice.
// Returns a pointer to the quote if found, nil otherwise.
func FindQuote(results []Quote, name string) *Quote {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
