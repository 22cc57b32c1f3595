package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPoolSnapshot_Balance(t *testing.T) {
	snapshot := &PoolSnapshot{
		Revision: 3,
		Balances: map[string]decimal.Decimal{
			"USDT": decimal.NewFromInt(100),
		},
	}

	assert.True(t, snapshot.Balance("USDT").Equal(decimal.NewFromInt(100)))
	assert.True(t, snapshot.Balance("TON").IsZero())
}

func TestPoolSnapshot_Currencies(t *testing.T) {
	snapshot := &PoolSnapshot{
		Balances: map[string]decimal.Decimal{
			"USDT":   decimal.NewFromInt(100),
			"TON":    decimal.Zero,
			"POINTS": decimal.NewFromInt(-5),
		},
	}

	currencies := snapshot.Currencies()
	assert.Equal(t, []string{"USDT"}, currencies)
}
