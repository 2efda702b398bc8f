package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/loan-calculator/internal/quote"
	"github.com/iwvelando/loan-calculator/pkg/loans"
)

func exampleQuote(schedule bool) quote.Quote {
	inputs := loans.ExampleInputs()
	q := quote.Quote{
		Name:    "Example",
		Inputs:  inputs,
		Results: loans.Calculate(inputs),
	}
	if schedule {
		q.Schedule = loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(inputs)
	}
	return q
}

func TestNewSummary(t *testing.T) {
	inputs := loans.ExampleInputs()
	results := loans.Calculate(inputs)
	generated := time.Date(2026, time.March, 5, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		percent         bool
		wantDownPayment string
	}{
		{name: "percent mode", percent: true, wantDownPayment: "10% ($6,000.00)"},
		{name: "amount mode", percent: false, wantDownPayment: "$6,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummary(inputs, results, tt.percent, generated)

			checks := map[string][2]string{
				"Generated":      {s.Generated, "3/5/2026"},
				"HomePrice":      {s.HomePrice, "$60,000.00"},
				"DownPayment":    {s.DownPayment, tt.wantDownPayment},
				"LoanAmount":     {s.LoanAmount, "$54,000.00"},
				"InterestRate":   {s.InterestRate, "9% per year"},
				"LoanTerm":       {s.LoanTerm, "20 years"},
				"MonthlyPayment": {s.MonthlyPayment, "$485.85"},
				"TotalPaid":      {s.TotalPaid, "$116,604.48"},
				"TotalInterest":  {s.TotalInterest, "$62,604.48"},
				"Disclaimer":     {s.Disclaimer, Disclaimer},
			}
			for field, pair := range checks {
				if pair[0] != pair[1] {
					t.Errorf("%s = %q, want %q", field, pair[0], pair[1])
				}
			}
		})
	}
}

func TestWriteSummary(t *testing.T) {
	inputs := loans.ExampleInputs()
	s := NewSummary(inputs, loans.Calculate(inputs), true, time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := WriteSummary(&buf, s); err != nil {
		t.Fatalf("WriteSummary returned error: %v", err)
	}
	output := buf.String()

	expectedParts := []string{
		"Bedrock Communities",
		"Loan Payment Summary",
		"Generated: 1/2/2026",
		"Loan Details",
		"Payment Summary",
		"Down Payment:        10% ($6,000.00)",
		"Monthly Payment:     $485.85",
		"Total Amount Paid:   $116,604.48",
		Disclaimer,
	}
	for _, part := range expectedParts {
		if !strings.Contains(output, part) {
			t.Errorf("WriteSummary output missing %q\n%s", part, output)
		}
	}
}

func TestPrettyFormat(t *testing.T) {
	results := []quote.Quote{exampleQuote(false), {Name: "Paid", Inputs: loans.LoanInputs{HomePrice: 1000, DownPayment: 1000}}}

	var buf bytes.Buffer
	PrettyFormat(&buf, results)
	output := buf.String()

	expectedParts := []string{
		"--- Results for loan Example ---",
		"--- Results for loan Paid ---",
		"Interest Rate   | 9.00%",
		"Loan Term       | 20 years",
		"Loan Amount     | $54,000.00",
		"Monthly Payment | $485.85",
		"Total Paid      | $116,604.48",
		"Total Interest  | $62,604.48",
		"Monthly Payment | $0.00",
		"Nothing to finance",
	}
	for _, part := range expectedParts {
		if !strings.Contains(output, part) {
			t.Errorf("PrettyFormat output missing %q", part)
		}
	}
	if strings.Contains(output, "Amortization schedule") {
		t.Errorf("PrettyFormat printed a schedule that was not requested")
	}
	if strings.Count(output, "Nothing to finance") != 1 {
		t.Errorf("expected only the paid-off loan to be flagged")
	}
}

func TestPrettyFormatWithSchedule(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, []quote.Quote{exampleQuote(true)})
	output := buf.String()

	if !strings.Contains(output, "Amortization schedule (240 payments)") {
		t.Errorf("PrettyFormat missing schedule header")
	}
	if !strings.Contains(output, "$53,919.15") {
		t.Errorf("PrettyFormat missing first month balance")
	}
}

func TestScheduleFormat(t *testing.T) {
	schedule := []loans.Payment{
		{Month: 1, Payment: 1000, Principal: 900, Interest: 100, RemainingPrincipal: 1100},
		{Month: 2, Payment: 1104.5, Principal: 1100, Interest: 4.5, RemainingPrincipal: 0},
	}

	var buf bytes.Buffer
	ScheduleFormat(&buf, schedule)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if len(lines) != 5 {
		t.Fatalf("ScheduleFormat wrote %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Amortization schedule (2 payments)" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Month |") {
		t.Errorf("column header = %q", lines[1])
	}
	if !strings.Contains(lines[4], "$1,104.50") || !strings.HasSuffix(lines[4], "$0.00") {
		t.Errorf("last row = %q", lines[4])
	}
}

func TestCsvFormat(t *testing.T) {
	results := []quote.Quote{
		exampleQuote(false),
		{Name: "name, with comma", Inputs: loans.LoanInputs{HomePrice: 1000, DownPayment: 1000}},
	}

	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		t.Fatalf("CsvFormat returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CsvFormat produced unreadable CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "name" || len(records[0]) != 9 {
		t.Errorf("unexpected header %v", records[0])
	}

	want := []string{"Example", "60000.00", "6000.00", "9", "20", "54000.00", "485.85", "116604.48", "62604.48"}
	for i, value := range want {
		if records[1][i] != value {
			t.Errorf("column %d = %q, want %q", i, records[1][i], value)
		}
	}
	if records[2][0] != "name, with comma" {
		t.Errorf("quoted name not preserved: %q", records[2][0])
	}
}

func TestCsvString(t *testing.T) {
	out := CsvString([]quote.Quote{exampleQuote(false)})
	if !strings.HasPrefix(out, "name,home price,") {
		t.Errorf("CsvString missing header: %q", out)
	}
	if !strings.Contains(out, "Example,60000.00,6000.00,9,20,54000.00,485.85,116604.48,62604.48") {
		t.Errorf("CsvString missing row: %q", out)
	}
}

func TestScheduleCsv(t *testing.T) {
	schedule := []loans.Payment{
		{Month: 1, Payment: 1000, Principal: 900, Interest: 100, RemainingPrincipal: 1100},
		{Month: 2, Payment: 1104.5, Principal: 1100, Interest: 4.5, RemainingPrincipal: 0},
	}

	var buf bytes.Buffer
	if err := ScheduleCsv(&buf, "short", schedule); err != nil {
		t.Fatalf("ScheduleCsv returned error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ScheduleCsv produced unreadable CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	want := []string{"short", "2", "1104.50", "1100.00", "4.50", "0.00"}
	for i, value := range want {
		if records[2][i] != value {
			t.Errorf("column %d = %q, want %q", i, records[2][i], value)
		}
	}
}

func TestSummaryCsv(t *testing.T) {
	inputs := loans.ExampleInputs()
	s := NewSummary(inputs, loans.Calculate(inputs), false, time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := SummaryCsv(&buf, s); err != nil {
		t.Fatalf("SummaryCsv returned error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("SummaryCsv produced unreadable CSV: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("got %d records, want 10", len(records))
	}
	if records[1][0] != "Home Price" || records[1][1] != "$60,000.00" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if records[9][1] != "7/4/2026" {
		t.Errorf("generated = %q", records[9][1])
	}
}
