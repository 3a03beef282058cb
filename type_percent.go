package networth

import "fmt"

// Percent is a percentage value (e.g. 5.0 for 5%).
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// changePercent returns the relative change from prev to cur, or nil when
// prev carries no data to compare against.
func changePercent(cur, prev Money, prevHasData bool) *Percent {
	if !prevHasData || prev.IsZero() {
		return nil
	}
	change := cur.Sub(prev).Decimal().Div(prev.Decimal().Abs())
	p := Percent(change.InexactFloat64() * 100)
	return &p
}
