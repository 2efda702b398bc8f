// Package interactive prompts for a loan in the terminal and renders the
// result as a styled card.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
)

var (
	accent = lipgloss.Color("#5A56E0")
	muted  = lipgloss.Color("#7D7D7D")
)

// NewForm builds the calculator form. Answers are written into form as the
// user types; each field is checked with the same rules as the web form.
func NewForm(form *validation.LoanForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Home Price").
				Placeholder("$60,000").
				Value(&form.HomePrice).
				Validate(FieldValidator(form, validation.FieldHomePrice)),
			huh.NewConfirm().
				Title("Enter the down payment as a percentage?").
				Affirmative("Percent").
				Negative("Amount").
				Value(&form.DownPaymentIsPercent),
			huh.NewInput().
				Title("Down Payment").
				Value(&form.DownPayment).
				Validate(FieldValidator(form, validation.FieldDownPayment)),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Interest Rate (% per year)").
				Placeholder("9").
				Value(&form.InterestRate).
				Validate(FieldValidator(form, validation.FieldInterestRate)),
			huh.NewInput().
				Title("Loan Term (years)").
				Placeholder("20").
				Value(&form.LoanTerm).
				Validate(FieldValidator(form, validation.FieldLoanTerm)),
		),
	)
}

// FieldValidator returns a huh validation func that checks one field of form
// with the candidate value substituted in.
func FieldValidator(form *validation.LoanForm, field string) func(string) error {
	return func(value string) error {
		candidate := *form
		switch field {
		case validation.FieldHomePrice:
			candidate.HomePrice = value
		case validation.FieldDownPayment:
			candidate.DownPayment = value
		case validation.FieldInterestRate:
			candidate.InterestRate = value
		case validation.FieldLoanTerm:
			candidate.LoanTerm = value
		default:
			return fmt.Errorf("unknown field %q", field)
		}

		if msg, ok := validation.ValidateLoanForm(candidate)[field]; ok {
			return errors.New(msg)
		}
		return nil
	}
}

// RenderResult draws the summary as a bordered card.
func RenderResult(s output.Summary) string {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	title := lipgloss.NewStyle().Foreground(accent).Bold(true)
	label := lipgloss.NewStyle().Foreground(muted).Width(20)
	value := lipgloss.NewStyle().Bold(true)
	note := lipgloss.NewStyle().Foreground(muted).Italic(true)

	rows := []struct{ label, value string }{
		{"Home Price", s.HomePrice},
		{"Down Payment", s.DownPayment},
		{"Loan Amount", s.LoanAmount},
		{"Interest Rate", s.InterestRate},
		{"Loan Term", s.LoanTerm},
		{"", ""},
		{"Monthly Payment", s.MonthlyPayment},
		{"Total Amount Paid", s.TotalPaid},
		{"Total Interest", s.TotalInterest},
	}

	var b strings.Builder
	b.WriteString(title.Render(s.Title))
	b.WriteString("\n\n")
	for _, r := range rows {
		if r.label == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(r.label), value.Render(r.value)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(note.Render(s.Disclaimer))

	return card.Render(b.String())
}

// Run prompts for a loan, then prints its summary card to out. Aborting the
// form is not an error.
func Run(ctx context.Context, logger *zap.Logger, out io.Writer, accessible bool) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var form validation.LoanForm
	err := NewForm(&form).
		WithAccessible(accessible).
		WithOutput(out).
		RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			logger.Debug("interactive form aborted",
				zap.String("op", "interactive.Run"),
			)
			return nil
		}
		return fmt.Errorf("running loan form: %w", err)
	}

	inputs, err := form.Inputs()
	if err != nil {
		return err
	}
	results := loans.Calculate(inputs)

	logger.Debug("interactive loan calculated",
		zap.String("op", "interactive.Run"),
		zap.Float64("monthlyPayment", results.MonthlyPayment),
	)

	summary := output.NewSummary(inputs, results, form.DownPaymentIsPercent, time.Now())
	_, err = fmt.Fprintln(out, RenderResult(summary))
	return err
}
