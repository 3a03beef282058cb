package networth

import (
	"testing"

	"github.com/google/uuid"
)

func TestEntry_EffectOn(t *testing.T) {
	on := MustParse("2025-06-10")
	a, b, other := uuid.New(), uuid.New(), uuid.New()

	testCases := []struct {
		name    string
		entry   Entry
		account uuid.UUID
		want    Money
		ok      bool
	}{
		{"credit on its account", NewCredit(uuid.New(), on, a, eur(100)), a, eur(100), true},
		{"credit elsewhere", NewCredit(uuid.New(), on, a, eur(100)), other, Money{}, false},
		{"debit on its account", NewDebit(uuid.New(), on, a, eur(100)), a, eur(-100), true},
		{"transfer source leg", NewTransfer(uuid.New(), on, a, b, eur(50), eur(50)), a, eur(-50), true},
		{"transfer destination leg", NewTransfer(uuid.New(), on, a, b, eur(50), eur(50)), b, eur(50), true},
		{"transfer elsewhere", NewTransfer(uuid.New(), on, a, b, eur(50), eur(50)), other, Money{}, false},
		{"buy destination in crypto", NewTransfer(uuid.New(), on, a, b, eur(500), Sats(1_000_000)), b, Sats(1_000_000), true},
		{"self transfer nets out", NewTransfer(uuid.New(), on, a, a, eur(50), eur(50)), a, eur(0), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.entry.EffectOn(tc.account)
			if ok != tc.ok {
				t.Fatalf("EffectOn ok = %v, want %v", ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("EffectOn = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestTransfer_KindFromLegCurrencies(t *testing.T) {
	on := MustParse("2025-06-10")
	a, b := uuid.New(), uuid.New()

	testCases := []struct {
		from, to Money
		want     EntryKind
	}{
		{eur(100), eur(100), KindTransferFiat},
		{eur(100), usd(110), KindTransferFiat},
		{eur(500), Sats(1_000_000), KindTransferBuy},
		{Sats(1_000_000), eur(480), KindTransferSell},
		{Sats(1_000_000), Sats(999_000), KindTransferCrypto},
	}
	for _, tc := range testCases {
		e := NewTransfer(uuid.New(), on, a, b, tc.from, tc.to)
		if e.Kind() != tc.want {
			t.Errorf("NewTransfer(%s, %s).Kind() = %s, want %s", tc.from, tc.to, e.Kind(), tc.want)
		}
	}
}

func TestEntry_Touches(t *testing.T) {
	on := MustParse("2025-06-10")
	a, b := uuid.New(), uuid.New()

	if got := NewCredit(uuid.New(), on, a, eur(1)).Touches(); len(got) != 1 || got[0] != a {
		t.Errorf("credit Touches = %v, want [%s]", got, a)
	}
	if got := NewTransfer(uuid.New(), on, a, b, eur(1), eur(1)).Touches(); len(got) != 2 {
		t.Errorf("transfer Touches = %v, want two accounts", got)
	}
	// A self transfer lists its account once.
	if got := NewTransfer(uuid.New(), on, a, a, eur(1), eur(1)).Touches(); len(got) != 1 {
		t.Errorf("self transfer Touches = %v, want one account", got)
	}
}
