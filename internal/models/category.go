package models

// CategoryType represents the transaction flows a category may classify
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeBoth categories classify income and expense flows alike.
	CategoryTypeBoth CategoryType = "both"
)

// Category represents a transaction category
type Category struct {
	Base
	UserID  string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string       `gorm:"not null" json:"name"`
	Type    CategoryType `gorm:"not null" json:"type"`
	BgColor string       `gorm:"size:7;not null;default:'#F9FAFB'" json:"bg_color"`
	FgColor string       `gorm:"size:7;not null;default:'#4B5563'" json:"fg_color"`
	Icon    string       `gorm:"size:50;not null;default:'tag'" json:"icon"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
