package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/homebase/internal/model"
)

// DefaultCategory is one entry of the starter category set.
type DefaultCategory struct {
	Name  string
	Icon  string
	Color string
}

// DefaultCategories is the starter set given to seeded households.
var DefaultCategories = []DefaultCategory{
	{"Groceries", "🛒", "#10B981"},
	{"Dining Out", "🍽️", "#F59E0B"},
	{"Transportation", "🚗", "#3B82F6"},
	{"Utilities", "💡", "#8B5CF6"},
	{"Entertainment", "🎬", "#EC4899"},
	{"Healthcare", "⚕️", "#EF4444"},
	{"Shopping", "🛍️", "#F97316"},
	{"Education", "📚", "#6366F1"},
	{"Housing", "🏠", "#14B8A6"},
	{"Other", "📌", "#6B7280"},
}

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.HouseholdID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const categoryCols = `id, name, icon, color, household_id, created_at`

// ListByHousehold returns the household's categories in insertion order.
func (s *CategoryStore) ListByHousehold(ctx context.Context, householdID string) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE household_id = ? ORDER BY id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// SeedHousehold creates a household with the default categories in a
// single transaction.
func (s *CategoryStore) SeedHousehold(ctx context.Context, name, currency string) (*model.Household, error) {
	if currency == "" {
		currency = model.DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	householdID := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO households (id, name, currency) VALUES (?, ?, ?)`,
		householdID, name, currency,
	); err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}

	for _, c := range DefaultCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, icon, color, household_id) VALUES (?, ?, ?, ?, ?)`,
			newID(), c.Name, c.Icon, c.Color, householdID,
		); err != nil {
			return nil, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	h, err := scanHousehold(tx.QueryRowContext(ctx, `SELECT `+householdCols+` FROM households WHERE id = ?`, householdID))
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return h, nil
}
