// Package output provides utilities for formatting and displaying loan results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/quote"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Disclaimer is printed at the bottom of every exported summary.
const Disclaimer = "This is an estimate only. Actual payments may vary."

// Summary holds the display strings for one calculation.
type Summary struct {
	Organization   string `json:"organization" yaml:"organization"`
	Title          string `json:"title" yaml:"title"`
	Generated      string `json:"generated" yaml:"generated"`
	HomePrice      string `json:"homePrice" yaml:"homePrice"`
	DownPayment    string `json:"downPayment" yaml:"downPayment"`
	LoanAmount     string `json:"loanAmount" yaml:"loanAmount"`
	InterestRate   string `json:"interestRate" yaml:"interestRate"`
	LoanTerm       string `json:"loanTerm" yaml:"loanTerm"`
	MonthlyPayment string `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalPaid      string `json:"totalPaid" yaml:"totalPaid"`
	TotalInterest  string `json:"totalInterest" yaml:"totalInterest"`
	Disclaimer     string `json:"disclaimer" yaml:"disclaimer"`
}

// NewSummary formats a calculation for display or export. When
// downPaymentIsPercent is set the down payment is shown as the share of the
// home price followed by the amount.
func NewSummary(inputs loans.LoanInputs, results loans.LoanResults, downPaymentIsPercent bool, generated time.Time) Summary {
	downPayment := format.Currency(inputs.DownPayment)
	if downPaymentIsPercent {
		percent := mathutil.Round(mathutil.CalculatePercentage(inputs.DownPayment, inputs.HomePrice))
		downPayment = fmt.Sprintf("%s%% (%s)", plainNumber(percent), downPayment)
	}

	return Summary{
		Organization:   constants.SummaryOrganization,
		Title:          constants.SummaryTitle,
		Generated:      generated.Format(constants.SummaryDateLayout),
		HomePrice:      format.Currency(inputs.HomePrice),
		DownPayment:    downPayment,
		LoanAmount:     format.Currency(results.Principal),
		InterestRate:   plainNumber(inputs.AnnualInterestRate) + "% per year",
		LoanTerm:       plainNumber(inputs.LoanTermYears) + " years",
		MonthlyPayment: format.Currency(results.MonthlyPayment),
		TotalPaid:      format.Currency(results.TotalPaid),
		TotalInterest:  format.Currency(results.TotalInterest),
		Disclaimer:     Disclaimer,
	}
}

// WriteSummary writes the plain text rendition of a summary.
func WriteSummary(w io.Writer, s Summary) error {
	rule := strings.Repeat("-", 50)
	lines := []string{
		s.Organization,
		s.Title,
		"Generated: " + s.Generated,
		rule,
		"Loan Details",
		row("Home Price:", s.HomePrice),
		row("Down Payment:", s.DownPayment),
		row("Loan Amount:", s.LoanAmount),
		row("Interest Rate:", s.InterestRate),
		row("Loan Term:", s.LoanTerm),
		rule,
		"Payment Summary",
		row("Monthly Payment:", s.MonthlyPayment),
		row("Total Amount Paid:", s.TotalPaid),
		row("Total Interest:", s.TotalInterest),
		"",
		s.Disclaimer,
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []quote.Quote) {
	for i, result := range results {
		fmt.Fprintf(w, "--- Results for loan %s ---\n", result.Name)
		fmt.Fprintf(w, "Home Price      | %s\n", format.Currency(result.Inputs.HomePrice))
		fmt.Fprintf(w, "Down Payment    | %s\n", format.Currency(result.Inputs.DownPayment))
		fmt.Fprintf(w, "Interest Rate   | %s\n", format.Percent(result.Inputs.AnnualInterestRate, 2))
		fmt.Fprintf(w, "Loan Term       | %s years\n", plainNumber(result.Inputs.LoanTermYears))
		fmt.Fprintf(w, "Loan Amount     | %s\n", format.Currency(result.Results.Principal))
		fmt.Fprintf(w, "Monthly Payment | %s\n", format.Currency(result.Results.MonthlyPayment))
		fmt.Fprintf(w, "Total Paid      | %s\n", format.Currency(result.Results.TotalPaid))
		fmt.Fprintf(w, "Total Interest  | %s\n", format.Currency(result.Results.TotalInterest))
		if mathutil.IsZero(result.Results.Principal) {
			fmt.Fprintf(w, "Nothing to finance: the down payment covers the home price.\n")
		}
		if len(result.Schedule) > 0 {
			fmt.Fprintf(w, "\n")
			ScheduleFormat(w, result.Schedule)
		}
		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// ScheduleFormat outputs an amortization schedule as an aligned table.
func ScheduleFormat(w io.Writer, schedule []loans.Payment) {
	p := message.NewPrinter(language.AmericanEnglish)
	_, _ = p.Fprintf(w, "Amortization schedule (%d payments)\n", len(schedule))
	fmt.Fprintf(w, "%-5s | %12s | %12s | %12s | %14s\n", "Month", "Payment", "Principal", "Interest", "Balance")
	fmt.Fprintf(w, "%s\n", strings.Repeat("_", 5+12*3+14+12))
	for _, payment := range schedule {
		fmt.Fprintf(w, "%-5d | %12s | %12s | %12s | %14s\n",
			payment.Month,
			format.Currency(payment.Payment),
			format.Currency(payment.Principal),
			format.Currency(payment.Interest),
			format.Currency(payment.RemainingPrincipal),
		)
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, results []quote.Quote) error {
	writer := csv.NewWriter(w)
	header := []string{
		"name", "home price", "down payment", "interest rate", "loan term years",
		"principal", "monthly payment", "total paid", "total interest",
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, result := range results {
		record := []string{
			result.Name,
			decimalString(result.Inputs.HomePrice),
			decimalString(result.Inputs.DownPayment),
			plainNumber(result.Inputs.AnnualInterestRate),
			plainNumber(result.Inputs.LoanTermYears),
			decimalString(result.Results.Principal),
			decimalString(result.Results.MonthlyPayment),
			decimalString(result.Results.TotalPaid),
			decimalString(result.Results.TotalInterest),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV output as a string.
func CsvString(results []quote.Quote) string {
	var b strings.Builder
	if err := CsvFormat(&b, results); err != nil {
		return ""
	}
	return b.String()
}

// ScheduleCsv outputs an amortization schedule in comma-separated value format.
func ScheduleCsv(w io.Writer, name string, schedule []loans.Payment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "month", "payment", "principal", "interest", "remaining principal"}); err != nil {
		return err
	}
	for _, payment := range schedule {
		record := []string{
			name,
			strconv.Itoa(payment.Month),
			decimalString(payment.Payment),
			decimalString(payment.Principal),
			decimalString(payment.Interest),
			decimalString(payment.RemainingPrincipal),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SummaryCsv writes a summary as label,value rows.
func SummaryCsv(w io.Writer, s Summary) error {
	writer := csv.NewWriter(w)
	rows := [][]string{
		{"Home Price", s.HomePrice},
		{"Down Payment", s.DownPayment},
		{"Loan Amount", s.LoanAmount},
		{"Interest Rate", s.InterestRate},
		{"Loan Term", s.LoanTerm},
		{"Monthly Payment", s.MonthlyPayment},
		{"Total Amount Paid", s.TotalPaid},
		{"Total Interest", s.TotalInterest},
		{"Generated", s.Generated},
	}
	if err := writer.Write([]string{"field", "value"}); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func row(label, value string) string {
	return fmt.Sprintf("%-20s %s", label, value)
}

// plainNumber renders user-entered numbers the way they were typed (9, 7.5).
func plainNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func decimalString(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
