// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/internal/quote"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// LoadQuotes loads the configuration at path and calculates its active loans,
// failing the test on any error.
func LoadQuotes(t testing.TB, path string) []quote.Quote {
	t.Helper()

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration(%s) error = %v", path, err)
	}

	results, err := quote.GetQuotes(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("GetQuotes() error = %v", err)
	}
	return results
}

// MustFindQuote returns the named quote or fails the test.
func MustFindQuote(t testing.TB, results []quote.Quote, name string) *quote.Quote {
	t.Helper()

	found := quote.FindQuote(results, name)
	if found == nil {
		t.Fatalf("quote %q not found", name)
	}
	return found
}

// AssertCents fails the test when got and want differ by more than a cent.
func AssertCents(t testing.TB, label string, got, want float64) {
	t.Helper()

	if !mathutil.WithinTolerance(got, want, constants.CurrencyTolerance+1e-9) {
		t.Errorf("%s: expected %.2f, got %.2f", label, want, got)
	}
}

// CheckSchedule verifies the invariants every amortization schedule holds:
// months count up from 1, each payment splits into principal and interest,
// the balance falls by the principal paid and closes at zero.
func CheckSchedule(t testing.TB, principal float64, schedule []loans.Payment) {
	t.Helper()

	if len(schedule) == 0 {
		t.Fatal("expected a non-empty schedule")
	}

	balance := principal
	for i, p := range schedule {
		if p.Month != i+1 {
			t.Fatalf("payment %d has month %d", i, p.Month)
		}
		AssertCents(t, "payment split", p.Principal+p.Interest, p.Payment)
		balance -= p.Principal
		AssertCents(t, "remaining principal", p.RemainingPrincipal, balance)
	}

	if last := schedule[len(schedule)-1]; last.RemainingPrincipal != 0 {
		t.Errorf("expected final balance of 0, got %v", last.RemainingPrincipal)
	}
}
