package networth

import (
	"fmt"
)

// WealthBucket is one point of the periodic overview: total wealth at the
// bucket's end date, in the target currency and in crypto units.
type WealthBucket struct {
	End          Date
	Wealth       Money
	WealthCrypto Money
}

// WealthOverviewReport shows wealth over the last buckets of a granularity:
// per day, per Saturday-ending week, per calendar month or per calendar
// year, always ending "now".
type WealthOverviewReport struct {
	Currency    string
	Granularity Period
	Buckets     []WealthBucket
}

// overviewBuckets is the fixed depth of the overview.
const overviewBuckets = 12

// NewWealthOverviewReport computes at most the last 12 buckets of the given
// granularity. Buckets ending before the earliest entry date are omitted,
// not zero-filled.
func (v *Valuation) NewWealthOverviewReport(granularity Period, target string, now Date) (*WealthOverviewReport, error) {
	earliest, hasEntries := v.earliestEntryDate()

	// Walk backward from now: the current bucket ends today, every earlier
	// bucket ends on its period boundary.
	ends := make([]Date, 0, overviewBuckets)
	end := now
	for len(ends) < overviewBuckets {
		if hasEntries && end.Before(earliest) {
			break
		}
		ends = append(ends, end)
		end = end.StartOf(granularity).Add(-1)
	}

	report := &WealthOverviewReport{Currency: target, Granularity: granularity}
	if !hasEntries {
		return report, nil // empty scope: empty result, not a failure
	}
	for i := len(ends) - 1; i >= 0; i-- {
		on := ends[i]
		wealth, err := v.WealthAt(on, target)
		if err != nil {
			return nil, fmt.Errorf("wealth overview on %s: %w", on, err)
		}
		wealthCrypto, err := v.WealthInCrypto(on)
		if err != nil {
			return nil, fmt.Errorf("wealth overview on %s: %w", on, err)
		}
		report.Buckets = append(report.Buckets, WealthBucket{End: on, Wealth: wealth, WealthCrypto: wealthCrypto})
	}
	return report, nil
}
