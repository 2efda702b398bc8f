// Package loans provides the amortization arithmetic for fixed-rate chattel loans.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LoanInputs holds the parameters of a single calculation.
type LoanInputs struct {
	HomePrice          float64 `json:"homePrice" yaml:"homePrice"`
	DownPayment        float64 `json:"downPayment" yaml:"downPayment"`
	AnnualInterestRate float64 `json:"annualInterestRate" yaml:"annualInterestRate"` // percent
	LoanTermYears      float64 `json:"loanTermYears" yaml:"loanTermYears"`
}

// LoanResults holds the outcome of a calculation. Every field is rounded to
// the cent independently of the others.
type LoanResults struct {
	MonthlyPayment float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalPaid      float64 `json:"totalPaid" yaml:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest" yaml:"totalInterest"`
	Principal      float64 `json:"principal" yaml:"principal"`
}

// Payment holds the values for a given month of the amortization schedule.
type Payment struct {
	Month              int     `json:"month" yaml:"month"`
	Payment            float64 `json:"payment" yaml:"payment"`
	Principal          float64 `json:"principal" yaml:"principal"`
	Interest           float64 `json:"interest" yaml:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal" yaml:"remainingPrincipal"`
}

// ExampleInputs returns the preset offered by the calculator form.
func ExampleInputs() LoanInputs {
	return LoanInputs{
		HomePrice:          constants.ExampleHomePrice,
		DownPayment:        mathutil.ApplyPercentage(constants.ExampleHomePrice, constants.ExampleDownPaymentPercent),
		AnnualInterestRate: constants.ExampleInterestRate,
		LoanTermYears:      constants.ExampleLoanTermYears,
	}
}

// NumberOfPayments returns the (possibly fractional) count of monthly payments.
func (in LoanInputs) NumberOfPayments() float64 {
	return in.LoanTermYears * constants.MonthsPerYear
}

// Calculate computes the monthly payment, total paid, total interest and
// principal for a loan. It never fails: when the down payment covers the home
// price every field is zero, and when the term is not positive only the
// principal is reported.
func Calculate(inputs LoanInputs) LoanResults {
	principal := inputs.HomePrice - inputs.DownPayment
	if principal <= 0 {
		return LoanResults{}
	}

	if inputs.LoanTermYears <= 0 {
		return LoanResults{Principal: mathutil.Round(principal)}
	}

	numberOfPayments := inputs.NumberOfPayments()
	monthlyPayment := CalculateMonthlyPayment(principal, inputs.AnnualInterestRate, numberOfPayments)

	// Totals derive from the unrounded payment.
	totalPaid := monthlyPayment * numberOfPayments
	totalInterest := totalPaid - principal

	return LoanResults{
		MonthlyPayment: mathutil.Round(monthlyPayment),
		TotalPaid:      mathutil.Round(totalPaid),
		TotalInterest:  mathutil.Round(totalInterest),
		Principal:      mathutil.Round(principal),
	}
}

// Finite reports whether every field holds a real amount. Extreme terms or
// prices overflow the payment formula and yield NaN or infinities.
func (r LoanResults) Finite() bool {
	for _, v := range []float64{r.MonthlyPayment, r.TotalPaid, r.TotalInterest, r.Principal} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate, numberOfPayments float64) float64 {
	monthlyRate := MonthlyRate(annualInterestRate)
	if monthlyRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / numberOfPayments
	}

	power := math.Pow(1+monthlyRate, numberOfPayments)
	return principal * (monthlyRate * power) / (power - 1)
}

// MonthlyRate converts an annual percentage rate into a monthly fraction.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / constants.PercentageMultiplier / constants.MonthsPerYear
}

// CalculateInterestPayment returns the interest owed for one month on the
// remaining principal, rounded to the cent.
func CalculateInterestPayment(remainingPrincipal, monthlyRate decimal.Decimal) decimal.Decimal {
	return remainingPrincipal.Mul(monthlyRate).Round(2)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the month by month schedule for a loan. Amounts are
// carried in cents; the final payment absorbs the rounding remainder so the
// balance closes at exactly zero. A fractional term rounds the number of
// payments up.
func (g *AmortizationScheduleGenerator) GenerateSchedule(inputs LoanInputs) []Payment {
	results := Calculate(inputs)
	if !results.Finite() {
		g.logger.Warn("no schedule for a payment that cannot be calculated",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Float64("principal", results.Principal),
			zap.Float64("loanTermYears", inputs.LoanTermYears),
		)
		return nil
	}
	if results.Principal <= 0 || results.MonthlyPayment <= 0 {
		g.logger.Debug("no schedule for a loan without principal or term",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Float64("principal", results.Principal),
			zap.Float64("loanTermYears", inputs.LoanTermYears),
		)
		return nil
	}

	payments := math.Ceil(inputs.NumberOfPayments())
	if payments > constants.MaxSchedulePayments {
		g.logger.Warn(fmt.Sprintf("no schedule for %.0f payments, the limit is %d", payments, constants.MaxSchedulePayments),
			zap.String("op", "loans.GenerateSchedule"),
		)
		return nil
	}
	count := int(payments)
	monthlyRate := decimal.NewFromFloat(inputs.AnnualInterestRate).
		Div(decimal.NewFromFloat(constants.PercentageMultiplier * constants.MonthsPerYear))
	monthlyPayment := decimal.NewFromFloat(results.MonthlyPayment)
	remaining := decimal.NewFromFloat(results.Principal)

	schedule := make([]Payment, 0, count)
	for month := 1; month <= count; month++ {
		interest := CalculateInterestPayment(remaining, monthlyRate)
		principalPart := monthlyPayment.Sub(interest)
		payment := monthlyPayment

		if month == count || principalPart.GreaterThanOrEqual(remaining) {
			principalPart = remaining
			payment = remaining.Add(interest)
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, Payment{
			Month:              month,
			Payment:            payment.InexactFloat64(),
			Principal:          principalPart.InexactFloat64(),
			Interest:           interest.InexactFloat64(),
			RemainingPrincipal: remaining.InexactFloat64(),
		})

		if remaining.IsZero() {
			if month < count {
				g.logger.Debug(fmt.Sprintf("loan paid off after %d of %d payments", month, count),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			break
		}
	}

	return schedule
}

// SumPayments totals the payment and interest columns of a schedule.
func SumPayments(schedule []Payment) (totalPaid, totalInterest float64) {
	paid := decimal.Zero
	interest := decimal.Zero
	for _, p := range schedule {
		paid = paid.Add(decimal.NewFromFloat(p.Payment))
		interest = interest.Add(decimal.NewFromFloat(p.Interest))
	}
	return paid.InexactFloat64(), interest.InexactFloat64()
}
