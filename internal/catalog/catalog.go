// Package catalog holds the fixed starter catalog of categories inserted
// by the seed-defaults operation.
package catalog

import "tally/internal/models"

// Entry describes one default category.
type Entry struct {
	Name    string
	Type    models.CategoryType
	BgColor string
	FgColor string
	Icon    string
}

// defaults is the starter catalog. Seeding matches entries by name per
// user, so re-seeding never duplicates.
var defaults = []Entry{
	{Name: "Groceries", Type: models.CategoryTypeExpense, BgColor: "#F0FDF4", FgColor: "#166534", Icon: "shopping-cart"},
	{Name: "Rent", Type: models.CategoryTypeExpense, BgColor: "#EFF6FF", FgColor: "#1E40AF", Icon: "home"},
	{Name: "Utilities", Type: models.CategoryTypeExpense, BgColor: "#FEFCE8", FgColor: "#854D0E", Icon: "bolt"},
	{Name: "Transport", Type: models.CategoryTypeExpense, BgColor: "#F5F3FF", FgColor: "#5B21B6", Icon: "car"},
	{Name: "Dining Out", Type: models.CategoryTypeExpense, BgColor: "#FFF7ED", FgColor: "#9A3412", Icon: "utensils"},
	{Name: "Health", Type: models.CategoryTypeExpense, BgColor: "#FEF2F2", FgColor: "#991B1B", Icon: "heart"},
	{Name: "Entertainment", Type: models.CategoryTypeExpense, BgColor: "#FDF4FF", FgColor: "#86198F", Icon: "film"},
	{Name: "Shopping", Type: models.CategoryTypeExpense, BgColor: "#FDF2F8", FgColor: "#9D174D", Icon: "gift"},
	{Name: "Education", Type: models.CategoryTypeExpense, BgColor: "#ECFEFF", FgColor: "#155E75", Icon: "graduation-cap"},
	{Name: "Travel", Type: models.CategoryTypeExpense, BgColor: "#F0F9FF", FgColor: "#075985", Icon: "plane"},
	{Name: "Subscriptions", Type: models.CategoryTypeExpense, BgColor: "#F8FAFC", FgColor: "#334155", Icon: "credit-card"},
	{Name: "Phone", Type: models.CategoryTypeExpense, BgColor: "#F7FEE7", FgColor: "#3F6212", Icon: "phone"},
	{Name: "Repairs", Type: models.CategoryTypeExpense, BgColor: "#FAFAF9", FgColor: "#44403C", Icon: "wrench"},
	{Name: "Books", Type: models.CategoryTypeExpense, BgColor: "#FFFBEB", FgColor: "#92400E", Icon: "book"},
	{Name: "Salary", Type: models.CategoryTypeIncome, BgColor: "#ECFDF5", FgColor: "#065F46", Icon: "briefcase"},
	{Name: "Freelance", Type: models.CategoryTypeIncome, BgColor: "#EEF2FF", FgColor: "#3730A3", Icon: "wallet"},
	{Name: "Investments", Type: models.CategoryTypeIncome, BgColor: "#F0FDFA", FgColor: "#115E59", Icon: "chart-line"},
	{Name: "Savings", Type: models.CategoryTypeBoth, BgColor: "#FAF5FF", FgColor: "#6B21A8", Icon: "piggy-bank"},
	{Name: "Miscellaneous", Type: models.CategoryTypeBoth, BgColor: "#F9FAFB", FgColor: "#4B5563", Icon: "tag"},
}

// Defaults returns a copy of the starter catalog.
func Defaults() []Entry {
	out := make([]Entry, len(defaults))
	copy(out, defaults)
	return out
}
