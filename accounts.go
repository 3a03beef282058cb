package networth

import (
	"iter"

	"github.com/google/uuid"
)

// Account describes a money container as seen by this package: a currency
// kind (one fiat code, or the cryptocurrency), an initial amount fixed at
// creation, and inclusion flags. Accounts are owned by the ledger module;
// this package only reads them.
type Account struct {
	ID            uuid.UUID
	Name          string
	Currency      string // ISO 4217 code, or CryptoCurrency
	InitialAmount Money
	// IncludeInValue marks the account as counting toward aggregate
	// wealth figures.
	IncludeInValue bool
	// Hidden accounts are kept out of listings but still count.
	Hidden bool
}

// IsCrypto reports whether the account is denominated in the cryptocurrency.
func (a Account) IsCrypto() bool { return a.Currency == CryptoCurrency }

// AccountSource is the read access this package consumes from the ledger
// module.
type AccountSource interface {
	// Accounts iterates over all accounts.
	Accounts() iter.Seq[Account]
	// Account returns the account with the given id.
	Account(id uuid.UUID) (Account, bool)
}
