package networth

import (
	"context"
	"errors"
	"testing"
)

func TestAllTimeHighReport(t *testing.T) {
	f := newFixture(t, "2025-06-10")
	a := f.account("checking", eur(0))
	f.credit(a, "2025-06-01", eur(1000))
	f.credit(a, "2025-06-03", eur(500)) // peak: 1500
	f.debit(a, "2025-06-05", eur(600))  // trough: 900
	f.credit(a, "2025-06-08", eur(300)) // current: 1200

	report, err := f.val.NewAllTimeHighReport(context.Background(), "EUR", f.today)
	if err != nil {
		t.Fatalf("NewAllTimeHighReport failed: %v", err)
	}

	if !report.Peak.Equal(eur(1500)) {
		t.Errorf("Peak = %s, want %s", report.Peak, eur(1500))
	}
	if want := MustParse("2025-06-03"); report.PeakDate != want {
		t.Errorf("PeakDate = %s, want %s", report.PeakDate, want)
	}
	if !report.Current.Equal(eur(1200)) {
		t.Errorf("Current = %s, want %s", report.Current, eur(1200))
	}
	// (1500 - 1200) / 1500 = 20%
	if !report.DeclineFromPeak.Equal(Percent(20)) {
		t.Errorf("DeclineFromPeak = %s, want 20%%", report.DeclineFromPeak)
	}
	// (1500 - 900) / 1500 = 40%, trough on the 5th.
	if !report.MaxDrawdown.Equal(Percent(40)) {
		t.Errorf("MaxDrawdown = %s, want 40%%", report.MaxDrawdown)
	}
	if want := MustParse("2025-06-05"); report.MaxDrawdownDate != want {
		t.Errorf("MaxDrawdownDate = %s, want %s", report.MaxDrawdownDate, want)
	}
	if report.HasAccountsWithoutTransactions {
		t.Error("HasAccountsWithoutTransactions = true, want false")
	}
}

func TestAllTimeHighReport_TieKeepsEarliestPeakDate(t *testing.T) {
	f := newFixture(t, "2025-06-10")
	a := f.account("checking", eur(0))
	f.credit(a, "2025-06-01", eur(1500))
	f.debit(a, "2025-06-03", eur(500))
	f.credit(a, "2025-06-06", eur(500)) // back to 1500

	report, err := f.val.NewAllTimeHighReport(context.Background(), "EUR", f.today)
	if err != nil {
		t.Fatalf("NewAllTimeHighReport failed: %v", err)
	}
	if want := MustParse("2025-06-01"); report.PeakDate != want {
		t.Errorf("PeakDate = %s, want first occurrence %s", report.PeakDate, want)
	}
	if !report.DeclineFromPeak.Equal(Percent(0)) {
		t.Errorf("DeclineFromPeak = %s, want 0%%", report.DeclineFromPeak)
	}
}

func TestAllTimeHighReport_FlagsAccountsWithoutTransactions(t *testing.T) {
	f := newFixture(t, "2025-06-10")
	a := f.account("active", eur(0))
	f.account("dormant", eur(5000)) // initial amount only, never touched
	f.credit(a, "2025-06-01", eur(1000))

	report, err := f.val.NewAllTimeHighReport(context.Background(), "EUR", f.today)
	if err != nil {
		t.Fatalf("NewAllTimeHighReport failed: %v", err)
	}
	if !report.HasAccountsWithoutTransactions {
		t.Error("HasAccountsWithoutTransactions = false, want true")
	}
}

func TestAllTimeHighReport_NoEntries(t *testing.T) {
	f := newFixture(t, "2025-06-10")
	f.account("checking", eur(1000))

	_, err := f.val.NewAllTimeHighReport(context.Background(), "EUR", f.today)
	if !errors.Is(err, ErrNoValuationData) {
		t.Fatalf("error = %v, want ErrNoValuationData", err)
	}
}
