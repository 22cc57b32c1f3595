package entities

import (
	"github.com/shopspring/decimal"
)

// PoolSnapshot is a read-consistent view of the prize pool: every balance
// plus the revision counter at the moment the snapshot was taken. Every
// credit and debit bumps the revision, so a draw can record exactly which
// pool state it acted on.
type PoolSnapshot struct {
	Revision int64
	Balances map[string]decimal.Decimal
}

// Balance returns the balance for a currency, zero if the pool has never
// held that currency.
func (s *PoolSnapshot) Balance(currency string) decimal.Decimal {
	if bal, ok := s.Balances[currency]; ok {
		return bal
	}
	return decimal.Zero
}

// Currencies returns the currencies with a positive balance
func (s *PoolSnapshot) Currencies() []string {
	currencies := make([]string, 0, len(s.Balances))
	for currency, bal := range s.Balances {
		if bal.IsPositive() {
			currencies = append(currencies, currency)
		}
	}
	return currencies
}

// PoolCredit is one funding entry of the prize pool. The payment id doubles
// as the idempotency key: a retried approval cannot credit twice.
type PoolCredit struct {
	PaymentID string          `db:"payment_id"`
	Currency  string          `db:"currency"`
	Amount    decimal.Decimal `db:"amount"`
}
