package loans

import (
	"math"
	"testing"

	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		inputs   LoanInputs
		expected LoanResults
	}{
		{
			name:   "Preset example",
			inputs: LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: 20},
			expected: LoanResults{
				MonthlyPayment: 485.85,
				TotalPaid:      116604.48,
				TotalInterest:  62604.48,
				Principal:      54000,
			},
		},
		{
			name:   "Zero interest",
			inputs: LoanInputs{HomePrice: 60000, DownPayment: 10000, AnnualInterestRate: 0, LoanTermYears: 10},
			expected: LoanResults{
				MonthlyPayment: 416.67,
				TotalPaid:      50000,
				TotalInterest:  0,
				Principal:      50000,
			},
		},
		{
			name:     "Full down payment",
			inputs:   LoanInputs{HomePrice: 60000, DownPayment: 60000, AnnualInterestRate: 9, LoanTermYears: 20},
			expected: LoanResults{},
		},
		{
			name:     "Down payment above price",
			inputs:   LoanInputs{HomePrice: 60000, DownPayment: 75000, AnnualInterestRate: 9, LoanTermYears: 20},
			expected: LoanResults{},
		},
		{
			name:     "Zero term keeps principal",
			inputs:   LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: 0},
			expected: LoanResults{Principal: 54000},
		},
		{
			name:     "Negative term keeps principal",
			inputs:   LoanInputs{HomePrice: 60000.004, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: -5},
			expected: LoanResults{Principal: 54000},
		},
		{
			name:   "Different loan amount",
			inputs: LoanInputs{HomePrice: 100000, DownPayment: 20000, AnnualInterestRate: 7.5, LoanTermYears: 15},
			expected: LoanResults{
				MonthlyPayment: 741.61,
				TotalPaid:      133489.78,
				TotalInterest:  53489.78,
				Principal:      80000,
			},
		},
		{
			name:   "Fractional term",
			inputs: LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: 2.5},
			expected: LoanResults{
				MonthlyPayment: 2016.80,
				TotalPaid:      60504.02,
				TotalInterest:  6504.02,
				Principal:      54000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Calculate(tt.inputs)
			assert.InDelta(t, tt.expected.MonthlyPayment, result.MonthlyPayment, 0.001, "MonthlyPayment")
			assert.InDelta(t, tt.expected.TotalPaid, result.TotalPaid, 0.001, "TotalPaid")
			assert.InDelta(t, tt.expected.TotalInterest, result.TotalInterest, 0.001, "TotalInterest")
			assert.InDelta(t, tt.expected.Principal, result.Principal, 0.001, "Principal")
		})
	}
}

func TestCalculateDegenerateInputsAreZero(t *testing.T) {
	for _, down := range []float64{60000, 60000.01, 1e9} {
		result := Calculate(LoanInputs{HomePrice: 60000, DownPayment: down, AnnualInterestRate: 9, LoanTermYears: 20})
		assert.Equal(t, LoanResults{}, result, "down payment %v", down)
	}

	for _, term := range []float64{0, -1, -0.5} {
		result := Calculate(LoanInputs{HomePrice: 75000.56, DownPayment: 5000, AnnualInterestRate: 6, LoanTermYears: term})
		assert.Equal(t, LoanResults{Principal: 70000.56}, result, "term %v", term)
	}
}

func TestCalculateZeroRateRecoversPrincipal(t *testing.T) {
	terms := []float64{1, 3, 7, 10, 15, 25, 30}
	for _, term := range terms {
		inputs := LoanInputs{HomePrice: 87654.32, DownPayment: 12345.67, AnnualInterestRate: 0, LoanTermYears: term}
		result := Calculate(inputs)
		principal := mathutil.Round(inputs.HomePrice - inputs.DownPayment)

		assert.InDelta(t, principal/(term*12), result.MonthlyPayment, 0.005, "term %v", term)
		assert.Equal(t, 0.0, result.TotalInterest, "term %v", term)
		assert.Equal(t, principal, result.TotalPaid, "term %v", term)
	}
}

func TestCalculateRoundsFieldsIndependently(t *testing.T) {
	inputs := LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: 20}
	result := Calculate(inputs)

	// The total is rounded from the raw payment, not rebuilt from the rounded one.
	rebuilt := mathutil.Round(result.MonthlyPayment * inputs.NumberOfPayments())
	assert.InDelta(t, 116604.00, rebuilt, 0.001)
	assert.NotEqual(t, rebuilt, result.TotalPaid)
}

func TestCalculateResultsHaveAtMostTwoDecimals(t *testing.T) {
	result := Calculate(LoanInputs{HomePrice: 55555, DownPayment: 5555, AnnualInterestRate: 8.888, LoanTermYears: 18})

	for name, v := range map[string]float64{
		"MonthlyPayment": result.MonthlyPayment,
		"TotalPaid":      result.TotalPaid,
		"TotalInterest":  result.TotalInterest,
		"Principal":      result.Principal,
	} {
		assert.Equal(t, mathutil.Round(v), v, "%s = %v is not rounded to cents", name, v)
	}
	assert.InDelta(t, 464.73, result.MonthlyPayment, 0.001)
}

func TestCalculateIsDeterministic(t *testing.T) {
	inputs := LoanInputs{HomePrice: 123456.78, DownPayment: 2345.67, AnnualInterestRate: 6.125, LoanTermYears: 23}
	first := Calculate(inputs)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Calculate(inputs))
	}
}

func TestExampleInputs(t *testing.T) {
	inputs := ExampleInputs()
	assert.Equal(t, 60000.0, inputs.HomePrice)
	assert.InDelta(t, 6000.0, inputs.DownPayment, 1e-9)
	assert.Equal(t, 9.0, inputs.AnnualInterestRate)
	assert.Equal(t, 20.0, inputs.LoanTermYears)
	assert.Equal(t, 240.0, inputs.NumberOfPayments())
}

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		principal          float64
		annualInterestRate float64
		numberOfPayments   float64
		expectedRange      []float64 // [min, max] expected range
	}{
		{"Standard 30-year mortgage", 240000, 6.0, 360, []float64{1438, 1440}},
		{"5-year chattel loan", 20000, 4.0, 60, []float64{368, 369}},
		{"Zero interest loan", 10000, 0.0, 60, []float64{166.66, 166.67}},
		{"High interest loan", 10000, 18.0, 36, []float64{361, 362}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.annualInterestRate, tt.numberOfPayments)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualInterestRate float64
		expected           string
	}{
		{"Standard interest", 200000, 6.0, "1000"},
		{"Chattel loan interest", 15000, 4.5, "56.25"},
		{"Zero interest", 10000, 0.0, "0"},
		{"Preset first month", 54000, 9.0, "405"},
		{"Rounded to the cent", 53919.15, 9.0, "404.39"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(decimal.NewFromFloat(tt.remainingPrincipal), decimalMonthlyRate(tt.annualInterestRate))
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

func decimalMonthlyRate(annualInterestRate float64) decimal.Decimal {
	return decimal.NewFromFloat(annualInterestRate).Div(decimal.NewFromInt(1200))
}

func TestLoanResultsFinite(t *testing.T) {
	assert.True(t, Calculate(ExampleInputs()).Finite())
	assert.True(t, LoanResults{}.Finite())

	// A ten thousand year term overflows (1+r)^n and leaves NaN behind.
	overflow := Calculate(LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: 10000})
	assert.True(t, math.IsNaN(overflow.MonthlyPayment))
	assert.False(t, overflow.Finite())

	assert.False(t, LoanResults{TotalPaid: math.Inf(1)}.Finite())
}

func TestGenerateScheduleUncalculablePayment(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	assert.NotPanics(t, func() {
		schedule := generator.GenerateSchedule(LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: 10000})
		assert.Nil(t, schedule)
	})
}

func TestGenerateScheduleTooManyPayments(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	// 2000 years at 0% is a finite 2.25 a month but 24,000 rows.
	inputs := LoanInputs{HomePrice: 60000, DownPayment: 6000, LoanTermYears: 2000}
	require.Equal(t, 2.25, Calculate(inputs).MonthlyPayment)
	assert.Nil(t, generator.GenerateSchedule(inputs))
}

func TestGenerateSchedule(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())
	inputs := ExampleInputs()

	schedule := generator.GenerateSchedule(inputs)
	require.Len(t, schedule, 240)

	first := schedule[0]
	assert.Equal(t, 1, first.Month)
	assert.InDelta(t, 485.85, first.Payment, 1e-9)
	assert.InDelta(t, 405.00, first.Interest, 1e-9)
	assert.InDelta(t, 80.85, first.Principal, 1e-9)
	assert.InDelta(t, 53919.15, first.RemainingPrincipal, 1e-9)

	last := schedule[len(schedule)-1]
	assert.Equal(t, 240, last.Month)
	assert.Equal(t, 0.0, last.RemainingPrincipal)
	assert.InDelta(t, 485.85, last.Payment, 2.0)

	for i := 1; i < len(schedule); i++ {
		prev, cur := schedule[i-1], schedule[i]
		assert.InDelta(t, prev.RemainingPrincipal-cur.Principal, cur.RemainingPrincipal, 1e-6, "month %d", cur.Month)
		assert.InDelta(t, cur.Principal+cur.Interest, cur.Payment, 1e-6, "month %d", cur.Month)
	}

	totalPaid, totalInterest := SumPayments(schedule)
	assert.InDelta(t, 54000, totalPaid-totalInterest, 1e-6)
	assert.InDelta(t, Calculate(inputs).TotalPaid, totalPaid, 5.0)
}

func TestGenerateScheduleZeroRate(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)
	schedule := generator.GenerateSchedule(LoanInputs{HomePrice: 60000, DownPayment: 10000, LoanTermYears: 10})
	require.Len(t, schedule, 120)

	assert.InDelta(t, 416.67, schedule[0].Payment, 1e-9)
	assert.InDelta(t, 416.27, schedule[119].Payment, 1e-9)

	totalPaid, totalInterest := SumPayments(schedule)
	assert.InDelta(t, 50000, totalPaid, 1e-6)
	assert.Equal(t, 0.0, totalInterest)
}

func TestGenerateScheduleFractionalTerm(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())
	schedule := generator.GenerateSchedule(LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9, LoanTermYears: 2.5})
	require.Len(t, schedule, 30)
	assert.Equal(t, 0.0, schedule[29].RemainingPrincipal)

	short := generator.GenerateSchedule(LoanInputs{HomePrice: 10000, AnnualInterestRate: 6, LoanTermYears: 1.0 / 24})
	require.Len(t, short, 1)
	assert.InDelta(t, 10050.00, short[0].Payment, 1e-9)
}

func TestGenerateScheduleDegenerate(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())
	assert.Empty(t, generator.GenerateSchedule(LoanInputs{HomePrice: 60000, DownPayment: 60000, AnnualInterestRate: 9, LoanTermYears: 20}))
	assert.Empty(t, generator.GenerateSchedule(LoanInputs{HomePrice: 60000, DownPayment: 6000, AnnualInterestRate: 9}))
}

func TestMonthlyRate(t *testing.T) {
	assert.InDelta(t, 0.0075, MonthlyRate(9), 1e-12)
	assert.Equal(t, 0.0, MonthlyRate(0))
	assert.False(t, math.IsNaN(MonthlyRate(-3)))
}
