package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// Form field names used as FieldErrors keys.
const (
	FieldHomePrice    = "homePrice"
	FieldDownPayment  = "downPayment"
	FieldInterestRate = "interestRate"
	FieldLoanTerm     = "loanTerm"
)

// Messages reported for invalid form fields.
const (
	MsgHomePriceRequired    = "Home price must be greater than $0"
	MsgDownPaymentRequired  = "Down payment is required"
	MsgDownPaymentPercent   = "Percentage must be between 0 and 100"
	MsgDownPaymentExceeds   = "Down payment cannot exceed home price"
	MsgInterestRateNegative = "Interest rate must be 0 or greater"
	MsgLoanTermNotPositive  = "Loan term must be greater than 0"
	MsgNotCalculable        = "Loan term is too long to calculate a payment"
)

// ErrNotANumber is returned by ParseNumber for text that is not a finite number.
var ErrNotANumber = errors.New("not a number")

// LoanForm holds the raw text a user typed into the calculator form.
type LoanForm struct {
	HomePrice            string `json:"homePrice" yaml:"homePrice"`
	DownPayment          string `json:"downPayment" yaml:"downPayment"`
	DownPaymentIsPercent bool   `json:"downPaymentIsPercent" yaml:"downPaymentIsPercent"`
	InterestRate         string `json:"interestRate" yaml:"interestRate"`
	LoanTerm             string `json:"loanTerm" yaml:"loanTerm"`
}

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

// Error joins the messages in field order so the result is stable.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe[field]))
	}
	return strings.Join(parts, "; ")
}

// ExampleForm returns the preset the calculator offers to new users.
func ExampleForm() LoanForm {
	return LoanForm{
		HomePrice:            strconv.FormatFloat(constants.ExampleHomePrice, 'f', -1, 64),
		DownPayment:          strconv.FormatFloat(constants.ExampleDownPaymentPercent, 'f', -1, 64),
		DownPaymentIsPercent: true,
		InterestRate:         strconv.FormatFloat(constants.ExampleInterestRate, 'f', -1, 64),
		LoanTerm:             strconv.FormatFloat(constants.ExampleLoanTermYears, 'f', -1, 64),
	}
}

// ValidateLoanForm checks the raw form and returns one message per invalid
// field. An empty result means the form can be calculated.
func ValidateLoanForm(form LoanForm) FieldErrors {
	errs := make(FieldErrors)

	price := format.ParseCurrency(form.HomePrice)
	if strings.TrimSpace(form.HomePrice) == "" || price <= 0 {
		errs[FieldHomePrice] = MsgHomePriceRequired
	}

	downPayment := format.ParseCurrency(form.DownPayment)
	switch {
	case strings.TrimSpace(form.DownPayment) == "":
		errs[FieldDownPayment] = MsgDownPaymentRequired
	case form.DownPaymentIsPercent:
		if downPayment < 0 || downPayment > constants.PercentageMultiplier {
			errs[FieldDownPayment] = MsgDownPaymentPercent
		}
	default:
		if downPayment < 0 || downPayment > price {
			errs[FieldDownPayment] = MsgDownPaymentExceeds
		}
	}

	if rate, err := ParseNumber(form.InterestRate); err != nil || rate < 0 {
		errs[FieldInterestRate] = MsgInterestRateNegative
	}

	if term, err := ParseNumber(form.LoanTerm); err != nil || term <= 0 {
		errs[FieldLoanTerm] = MsgLoanTermNotPositive
	}

	// The payment formula overflows for extreme terms.
	if len(errs) == 0 && !loans.Calculate(form.inputs()).Finite() {
		errs[FieldLoanTerm] = MsgNotCalculable
	}

	return errs
}

// DownPaymentAmount converts the down payment field into a currency amount,
// applying it as a share of the home price in percent mode.
func (form LoanForm) DownPaymentAmount() float64 {
	value := format.ParseCurrency(form.DownPayment)
	if form.DownPaymentIsPercent {
		return mathutil.ApplyPercentage(format.ParseCurrency(form.HomePrice), value)
	}
	return value
}

// Normalized returns the form with its currency fields regrouped the way the
// calculator shows them while typing ("60000" becomes "60,000"). Fields that
// do not parse to a non-zero amount are left as typed.
func (form LoanForm) Normalized() LoanForm {
	if grouped := format.CurrencyInput(form.HomePrice); grouped != "" {
		form.HomePrice = grouped
	}
	if !form.DownPaymentIsPercent {
		if grouped := format.CurrencyInput(form.DownPayment); grouped != "" {
			form.DownPayment = grouped
		}
	}
	return form
}

// Inputs validates the form and converts it into calculator inputs. The
// returned error is a FieldErrors value when validation fails.
func (form LoanForm) Inputs() (loans.LoanInputs, error) {
	if errs := ValidateLoanForm(form); len(errs) > 0 {
		return loans.LoanInputs{}, errs
	}
	return form.inputs(), nil
}

// inputs converts the form without validating it; rate and term parse
// cleanly once the form is valid.
func (form LoanForm) inputs() loans.LoanInputs {
	rate, _ := ParseNumber(form.InterestRate)
	term, _ := ParseNumber(form.LoanTerm)

	return loans.LoanInputs{
		HomePrice:          format.ParseCurrency(form.HomePrice),
		DownPayment:        form.DownPaymentAmount(),
		AnnualInterestRate: rate,
		LoanTermYears:      term,
	}
}

// ParseNumber parses a rate or term field. Surrounding spaces and a trailing
// percent sign are accepted; anything else must be a plain decimal number.
func ParseNumber(value string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "%"))
	if trimmed == "" {
		return 0, ErrNotANumber
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, value)
	}
	return n, nil
}
