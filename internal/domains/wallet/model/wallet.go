package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletStatus controls whether a wallet can receive postings
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "active"
	WalletStatusFrozen    WalletStatus = "frozen"
	WalletStatusSuspended WalletStatus = "suspended"
)

// Wallet holds a payee's running balance. Created lazily on first payout.
type Wallet struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            uuid.UUID       `json:"userId" db:"user_id"`
	Balance           decimal.Decimal `json:"balance" db:"balance"`
	TotalEarnings     decimal.Decimal `json:"totalEarnings" db:"total_earnings"`
	Status            WalletStatus    `json:"status" db:"status"`
	LastTransactionAt *time.Time      `json:"lastTransactionAt,omitempty" db:"last_transaction_at"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
}

// TransactionType classifies a ledger posting
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeFee        TransactionType = "fee"
	TransactionTypeBonus      TransactionType = "bonus"
)

// SignedAmount returns the balance delta a posting of this type applies
func (t TransactionType) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TransactionTypeWithdrawal, TransactionTypeFee:
		return amount.Neg()
	default:
		return amount
	}
}

// TransactionStatus is the posting's processing state
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionDetails is the free-form audit payload stored with a posting
type TransactionDetails struct {
	OrderCode   string          `json:"orderCode,omitempty"`
	Milestone   string          `json:"milestone,omitempty"`
	Percentage  int             `json:"percentage,omitempty"`
	GrossAmount decimal.Decimal `json:"grossAmount,omitempty"`
	ServiceFee  decimal.Decimal `json:"serviceFee,omitempty"`
	Note        string          `json:"note,omitempty"`
}

func (d TransactionDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *TransactionDetails) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type for TransactionDetails: %T", value)
	}
}

// Transaction is one append-only ledger row.
// BalanceAfter = BalanceBefore + signed amount, and the next row's
// BalanceBefore must equal this row's BalanceAfter for the same wallet.
type Transaction struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	WalletID      uuid.UUID          `json:"walletId" db:"wallet_id"`
	UserID        uuid.UUID          `json:"userId" db:"user_id"`
	OrderID       *uuid.UUID         `json:"orderId,omitempty" db:"order_id"`
	Type          TransactionType    `json:"type" db:"type"`
	Amount        decimal.Decimal    `json:"amount" db:"amount"`
	BalanceBefore decimal.Decimal    `json:"balanceBefore" db:"balance_before"`
	BalanceAfter  decimal.Decimal    `json:"balanceAfter" db:"balance_after"`
	Status        TransactionStatus  `json:"status" db:"status"`
	Details       TransactionDetails `json:"details" db:"details"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
}
