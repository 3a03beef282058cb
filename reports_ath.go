package networth

import (
	"context"
	"fmt"
)

// AllTimeHighReport tracks the historical wealth peak and the worst
// peak-to-trough decline, scanning every day from the first entry to today.
type AllTimeHighReport struct {
	Currency string

	Peak     Money
	PeakDate Date // first date the peak was reached

	Current Money
	// DeclineFromPeak is (peak - current) / peak * 100.
	DeclineFromPeak Percent

	// MaxDrawdown is the largest percentage drop from a running peak to a
	// later trough, with the trough date.
	MaxDrawdown     Percent
	MaxDrawdownDate Date

	// HasAccountsWithoutTransactions is set when a value-included account
	// has no entry in the scanned window: it contributes only its initial
	// amount for the whole scan, which distorts the peak.
	HasAccountsWithoutTransactions bool
}

// NewAllTimeHighReport computes the all-time-high / drawdown report in the
// target currency. A scope with no value-included account, or none with
// entries, is a hard failure: the peak is undefined, not zero.
func (v *Valuation) NewAllTimeHighReport(ctx context.Context, target string, today Date) (*AllTimeHighReport, error) {
	start, ok := v.earliestEntryDate()
	if !ok {
		return nil, fmt.Errorf("all-time high report: %w", ErrNoValuationData)
	}
	if start.After(today) {
		start = today
	}

	series, err := v.WealthSeries(ctx, Range{From: start, To: today}, target)
	if err != nil {
		return nil, fmt.Errorf("all-time high report: %w", err)
	}

	peak, peakDate := series[0], start
	runningPeak := series[0]
	var maxDrawdown Percent
	maxDrawdownDate := start
	for i, w := range series {
		on := start.Add(i)
		// Strict comparisons keep the earliest date on ties.
		if w.GreaterThan(peak) {
			peak, peakDate = w, on
		}
		if w.GreaterThan(runningPeak) {
			runningPeak = w
		}
		if runningPeak.IsPositive() {
			drop := Percent(runningPeak.Sub(w).Decimal().Div(runningPeak.Decimal()).InexactFloat64() * 100)
			if drop > maxDrawdown {
				maxDrawdown, maxDrawdownDate = drop, on
			}
		}
	}

	current := series[len(series)-1]
	var decline Percent
	if !peak.IsZero() {
		decline = Percent(peak.Sub(current).Decimal().Div(peak.Decimal()).InexactFloat64() * 100)
	}

	report := &AllTimeHighReport{
		Currency:        target,
		Peak:            peak,
		PeakDate:        peakDate,
		Current:         current,
		DeclineFromPeak: decline,
		MaxDrawdown:     maxDrawdown,
		MaxDrawdownDate: maxDrawdownDate,
	}
	for a := range v.valueIncluded() {
		if !v.hasEntryUpTo(a.ID, today) {
			report.HasAccountsWithoutTransactions = true
			break
		}
	}
	return report, nil
}
