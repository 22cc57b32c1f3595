package testutil

import (
	"time"

	"prizepool/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestPayment creates a pending payment with default values
func CreateTestPayment(userID int64, quantity int) *entities.Payment {
	return &entities.Payment{
		ID:             uuid.New(),
		UserID:         userID,
		Currency:       "USDT",
		Amount:         decimal.NewFromInt(2).Mul(decimal.NewFromInt(int64(quantity))),
		TicketQuantity: quantity,
		WalletAddress:  "wallet-" + uuid.NewString()[:8],
		TxRef:          "tx-" + uuid.NewString()[:8],
		Status:         entities.PaymentStatusPending,
		CreatedAt:      time.Now(),
	}
}

// CreateTestPaymentWithCurrency creates a pending payment in a specific currency
func CreateTestPaymentWithCurrency(userID int64, quantity int, currency string, amount decimal.Decimal) *entities.Payment {
	payment := CreateTestPayment(userID, quantity)
	payment.Currency = currency
	payment.Amount = amount
	return payment
}
