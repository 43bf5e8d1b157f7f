package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/homebase/internal/model"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	err := scanner.Scan(&h.ID, &h.Name, &h.Currency, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const householdCols = `id, name, currency, created_at, updated_at`

// NewAdmin holds the fields of the first user of a new household.
type NewAdmin struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// CreateWithAdmin creates a household and its first user (role ADMIN) in a
// single transaction. Either both rows exist afterwards or neither does.
// It returns ErrEmailTaken if the email is already registered.
func (s *HouseholdStore) CreateWithAdmin(ctx context.Context, name, currency string, admin NewAdmin) (*model.Household, *model.User, error) {
	if currency == "" {
		currency = model.DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	householdID := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO households (id, name, currency) VALUES (?, ?, ?)`,
		householdID, name, currency,
	); err != nil {
		return nil, nil, fmt.Errorf("insert household: %w", err)
	}

	userID := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, role, household_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, admin.Email, admin.PasswordHash, admin.FirstName, admin.LastName, model.RoleAdmin, householdID,
	); err != nil {
		if isUniqueViolation(err, "users.email") {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("insert user: %w", err)
	}

	h, err := scanHousehold(tx.QueryRowContext(ctx, `SELECT `+householdCols+` FROM households WHERE id = ?`, householdID))
	if err != nil {
		return nil, nil, fmt.Errorf("get household: %w", err)
	}
	u, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, userID))
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err, "users.email") {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return h, u, nil
}

func (s *HouseholdStore) GetByID(ctx context.Context, id string) (*model.Household, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) List(ctx context.Context) ([]model.Household, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+householdCols+` FROM households ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	var households []model.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	return households, rows.Err()
}

// Delete removes a household together with its users and categories.
func (s *HouseholdStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM households WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}
