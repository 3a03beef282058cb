package networth

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// statsWindowMonths is the number of completed calendar months feeding the
// expense medians. The current month is always excluded, even mid-month.
const statsWindowMonths = 11

// StatisticsReport summarizes spending behavior and how long the current
// wealth would sustain it.
type StatisticsReport struct {
	Currency string

	// MedianExpense is the median of the window's monthly expenses, in
	// the target currency. Zero when the window has no data.
	MedianExpense Money

	// CryptoMedianExpense is the median of the window's monthly
	// crypto-tagged expenses, in crypto units. It may carry no data even
	// when the fiat median does.
	CryptoMedianExpense Money
	HasCryptoMedian     bool

	// CoverageMonths is floor(currentWealth / MedianExpense).
	CoverageMonths int
	// Coverage is CoverageMonths formatted as "5", "1y 3m", "2y" or "0".
	Coverage string

	// Evolution compares the median against the preceding window's, nil
	// when the preceding window has no data.
	Evolution *Percent
}

// NewStatisticsReport computes expense medians over the last 11 completed
// calendar months and the wealth coverage for the caller-supplied current
// wealth.
func (v *Valuation) NewStatisticsReport(target string, currentWealth Money, now Date) (*StatisticsReport, error) {
	currentWindow := statsWindow(now, 0)
	previousWindow := statsWindow(now, statsWindowMonths)

	median, hasData, err := v.medianExpense(now, currentWindow, target)
	if err != nil {
		return nil, fmt.Errorf("statistics report: %w", err)
	}
	prevMedian, prevHasData, err := v.medianExpense(now, previousWindow, target)
	if err != nil {
		return nil, fmt.Errorf("statistics report: %w", err)
	}

	report := &StatisticsReport{
		Currency:            target,
		MedianExpense:       M(0, target),
		CryptoMedianExpense: Sats(0),
	}
	if hasData {
		report.MedianExpense = median
	}
	if hasData && prevHasData {
		report.Evolution = changePercent(median, prevMedian, true)
	}

	if crypto, ok := v.cryptoMedianExpense(currentWindow); ok {
		report.CryptoMedianExpense = crypto
		report.HasCryptoMedian = true
	}

	if report.MedianExpense.IsPositive() && currentWealth.IsPositive() {
		report.CoverageMonths = int(currentWealth.Decimal().Div(report.MedianExpense.Decimal()).IntPart())
	}
	report.Coverage = FormatCoverage(report.CoverageMonths)
	return report, nil
}

// statsWindow returns the range of 11 completed months ending 'back' months
// before the current one.
func statsWindow(now Date, back int) Range {
	// Month arithmetic stays on month starts: AddMonth from a day-29/31
	// date normalizes into the next month and would shift the window.
	end := now.StartOf(Monthly).AddMonth(-back).Add(-1) // last completed month's end
	start := end.StartOf(Monthly).AddMonth(-(statsWindowMonths - 1))
	return Range{From: start, To: end}
}

// medianExpense computes the median of the window's monthly expense totals
// through the monthly totals report. Months before the first entry carry no
// data and are excluded rather than counted as zero.
func (v *Valuation) medianExpense(base Date, window Range, target string) (Money, bool, error) {
	monthly, err := v.NewMonthlyTotalsReport(base, window, target)
	if err != nil {
		return Money{}, false, err
	}
	values := make([]decimal.Decimal, 0, len(monthly.Months))
	for _, m := range monthly.Months {
		if m.HasData {
			values = append(values, m.Expense.Value.Decimal())
		}
	}
	if len(values) == 0 {
		return Money{}, false, nil
	}
	return M(median(values), target), true, nil
}

// cryptoMedianExpense computes the median of monthly crypto-equivalent
// expenses over the window. Only debit entries tagged with a crypto-unit
// equivalent qualify: transfers have no single outbound meaning and credits
// are income. Months without any tagged debit are not data.
func (v *Valuation) cryptoMedianExpense(window Range) (Money, bool) {
	sums := make(map[Date]Money) // keyed by month start
	for e := range v.entries.Entries() {
		if e.When().After(window.To) {
			break
		}
		if e.When().Before(window.From) {
			continue
		}
		debit, ok := e.(Debit)
		if !ok || debit.Equivalent.IsZero() {
			continue
		}
		month := e.When().StartOf(Monthly)
		sums[month] = sums[month].Add(debit.Equivalent)
	}
	if len(sums) == 0 {
		return Money{}, false
	}
	values := make([]decimal.Decimal, 0, len(sums))
	for _, m := range sums {
		values = append(values, m.Decimal())
	}
	return M(median(values), CryptoCurrency), true
}

// median returns the middle of the sorted values, averaging the two middle
// ones for an even count.
func median(values []decimal.Decimal) decimal.Decimal {
	slices.SortFunc(values, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return values[n/2-1].Add(values[n/2]).Div(decimal.NewFromInt(2))
}

// FormatCoverage renders a month count the way the overview screen expects:
// a bare number under a year, "Ny" for whole years, "Ny Mm" otherwise, and
// "0" when there is nothing to cover with.
func FormatCoverage(months int) string {
	if months <= 0 {
		return "0"
	}
	if months < 12 {
		return fmt.Sprintf("%d", months)
	}
	years, rest := months/12, months%12
	if rest == 0 {
		return fmt.Sprintf("%dy", years)
	}
	return fmt.Sprintf("%dy %dm", years, rest)
}
