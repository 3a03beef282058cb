package networth

import (
	"fmt"
)

// MonthMetric is one monthly figure with its percentage deltas against the
// same metric one and twelve months earlier. A delta is nil when there is
// no prior data to compare against.
type MonthMetric struct {
	Value          Money
	MonthOverMonth *Percent
	YearOverYear   *Percent
}

// MonthlyTotal summarizes one calendar month.
type MonthlyTotal struct {
	MonthEnd Date

	// HasData is false for months that end before the first ledger entry.
	HasData bool

	// Point-in-time wealth at month end (clamped to the base date for the
	// current month), in the target currency and in crypto units.
	Wealth       MonthMetric
	WealthCrypto MonthMetric

	// Flows split by currency kind: fiat flows converted to the target
	// currency at each entry's date, crypto flows kept in crypto units.
	Income        MonthMetric
	Expense       MonthMetric
	CryptoIncome  MonthMetric
	CryptoExpense MonthMetric

	// Crypto trade volumes, in crypto units.
	BuyVolume  MonthMetric
	SellVolume MonthMetric
}

// MonthlyGrandTotal sums the flow metrics across the range. Point-in-time
// wealth values are not additive and are deliberately absent.
type MonthlyGrandTotal struct {
	Income        Money
	Expense       Money
	CryptoIncome  Money
	CryptoExpense Money
	BuyVolume     Money
	SellVolume    Money
}

// MonthlyTotalsReport lists one MonthlyTotal per month overlapping the
// requested range.
type MonthlyTotalsReport struct {
	Currency   string
	Base       Date
	Range      Range
	Months     []MonthlyTotal
	GrandTotal MonthlyGrandTotal
}

// rawMonth accumulates the unadorned figures for one month, including the
// lookback months that only feed delta computations.
type rawMonth struct {
	wealth, wealthCrypto        Money
	income, expense             Money
	cryptoIncome, cryptoExpense Money
	buy, sell                   Money
	hasData                     bool
}

// NewMonthlyTotalsReport computes wealth, flow and volume totals for every
// month overlapping the range, with month-over-month and year-over-year
// deltas. base anchors "now": the current month's wealth is valued at base
// rather than at its future month end.
func (v *Valuation) NewMonthlyTotalsReport(base Date, r Range, target string) (*MonthlyTotalsReport, error) {
	earliest, hasEntries := v.earliestEntryDate()

	// Metrics are also computed for the 12 months before the range so the
	// first months of the range still get their deltas. Subtracting months
	// from the month start avoids AddMonth's day-29/31 normalization.
	extended := Range{From: r.From.StartOf(Monthly).AddMonth(-12), To: r.To}
	months := make(map[Date]*rawMonth) // keyed by month start

	for period := range extended.Periods(Monthly) {
		raw := &rawMonth{
			income:        M(0, target),
			expense:       M(0, target),
			cryptoIncome:  Sats(0),
			cryptoExpense: Sats(0),
			buy:           Sats(0),
			sell:          Sats(0),
		}
		months[period.From] = raw
		if !hasEntries || period.To.Before(earliest) {
			continue // months before any entry carry no data
		}
		raw.hasData = true

		on := period.To
		if on.After(base) {
			on = base // current month is valued "as of now"
		}
		wealth, err := v.WealthAt(on, target)
		if err != nil {
			return nil, fmt.Errorf("monthly totals on %s: %w", on, err)
		}
		wealthCrypto, err := v.WealthInCrypto(on)
		if err != nil {
			return nil, fmt.Errorf("monthly totals on %s: %w", on, err)
		}
		raw.wealth, raw.wealthCrypto = wealth, wealthCrypto
	}

	if err := v.accumulateFlows(months, extended, target); err != nil {
		return nil, err
	}

	report := &MonthlyTotalsReport{
		Currency: target,
		Base:     base,
		Range:    r,
		GrandTotal: MonthlyGrandTotal{
			Income:        M(0, target),
			Expense:       M(0, target),
			CryptoIncome:  Sats(0),
			CryptoExpense: Sats(0),
			BuyVolume:     Sats(0),
			SellVolume:    Sats(0),
		},
	}
	for period := range r.Periods(Monthly) {
		raw := months[period.From]
		prevMonth := months[period.From.AddMonth(-1)]
		prevYear := months[period.From.AddMonth(-12)]

		report.Months = append(report.Months, MonthlyTotal{
			MonthEnd:      period.To,
			HasData:       raw.hasData,
			Wealth:        metric(raw.wealth, prevMonth, prevYear, func(m *rawMonth) Money { return m.wealth }),
			WealthCrypto:  metric(raw.wealthCrypto, prevMonth, prevYear, func(m *rawMonth) Money { return m.wealthCrypto }),
			Income:        metric(raw.income, prevMonth, prevYear, func(m *rawMonth) Money { return m.income }),
			Expense:       metric(raw.expense, prevMonth, prevYear, func(m *rawMonth) Money { return m.expense }),
			CryptoIncome:  metric(raw.cryptoIncome, prevMonth, prevYear, func(m *rawMonth) Money { return m.cryptoIncome }),
			CryptoExpense: metric(raw.cryptoExpense, prevMonth, prevYear, func(m *rawMonth) Money { return m.cryptoExpense }),
			BuyVolume:     metric(raw.buy, prevMonth, prevYear, func(m *rawMonth) Money { return m.buy }),
			SellVolume:    metric(raw.sell, prevMonth, prevYear, func(m *rawMonth) Money { return m.sell }),
		})

		g := &report.GrandTotal
		g.Income = g.Income.Add(raw.income)
		g.Expense = g.Expense.Add(raw.expense)
		g.CryptoIncome = g.CryptoIncome.Add(raw.cryptoIncome)
		g.CryptoExpense = g.CryptoExpense.Add(raw.cryptoExpense)
		g.BuyVolume = g.BuyVolume.Add(raw.buy)
		g.SellVolume = g.SellVolume.Add(raw.sell)
	}
	return report, nil
}

// accumulateFlows walks the entry set once and buckets flow metrics into
// their months. Transfers never count as income or expense; only the trade
// kinds feed the volume figures.
func (v *Valuation) accumulateFlows(months map[Date]*rawMonth, within Range, target string) error {
	included := make(map[string]bool)
	for a := range v.valueIncluded() {
		included[a.ID.String()] = true
	}

	for e := range v.entries.Entries() {
		if e.When().After(within.To) {
			break
		}
		if e.When().Before(within.From) {
			continue
		}
		raw, ok := months[e.When().StartOf(Monthly)]
		if !ok {
			continue
		}
		switch entry := e.(type) {
		case Credit:
			if !included[entry.Account.String()] {
				continue
			}
			if entry.Amount.IsCrypto() {
				raw.cryptoIncome = raw.cryptoIncome.Add(entry.Amount)
				continue
			}
			converted, err := v.ToFiat(entry.Amount, e.When(), target)
			if err != nil {
				return fmt.Errorf("monthly totals on %s: %w", e.When(), err)
			}
			raw.income = raw.income.Add(converted)
		case Debit:
			if !included[entry.Account.String()] {
				continue
			}
			if entry.Amount.IsCrypto() {
				raw.cryptoExpense = raw.cryptoExpense.Add(entry.Amount)
				continue
			}
			converted, err := v.ToFiat(entry.Amount, e.When(), target)
			if err != nil {
				return fmt.Errorf("monthly totals on %s: %w", e.When(), err)
			}
			raw.expense = raw.expense.Add(converted)
		case Transfer:
			if !included[entry.From.String()] && !included[entry.To.String()] {
				continue
			}
			switch entry.Kind() {
			case KindTransferBuy:
				raw.buy = raw.buy.Add(entry.ToAmount)
			case KindTransferSell:
				raw.sell = raw.sell.Add(entry.FromAmount)
			}
		}
	}
	return nil
}

func metric(value Money, prevMonth, prevYear *rawMonth, pick func(*rawMonth) Money) MonthMetric {
	m := MonthMetric{Value: value}
	if prevMonth != nil {
		m.MonthOverMonth = changePercent(value, pick(prevMonth), prevMonth.hasData)
	}
	if prevYear != nil {
		m.YearOverYear = changePercent(value, pick(prevYear), prevYear.hasData)
	}
	return m
}
