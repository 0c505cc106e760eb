package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCash   AccountType = "cash"
	AccountTypeCredit AccountType = "credit"
	AccountTypeDebt   AccountType = "debt"
)

// Account represents a financial account in the system
type Account struct {
	Base
	UserID   string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string      `gorm:"not null" json:"name"`
	Type     AccountType `gorm:"not null" json:"type"`
	Balance  int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency string      `gorm:"not null;default:'USD'" json:"currency"`
	IsActive bool        `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
