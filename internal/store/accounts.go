package store

import (
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

type AccountStore struct {
	db *database.DB
}

func NewAccountStore(db *database.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Authenticate verifies a username/password pair and returns the matching
// account. The failure is the same for unknown users and wrong passwords.
func (s *AccountStore) Authenticate(username, password string) (*models.Account, error) {
	var acc models.Account
	err := s.db.QueryRow(`
		SELECT id, username, password_hash, fname, lname, role, created_at
		FROM accounts WHERE username = ?
	`, username).Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.FirstName, &acc.LastName, &acc.Role, &acc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &acc, nil
}

// Get returns one account by id
func (s *AccountStore) Get(id int64) (*models.Account, error) {
	var acc models.Account
	err := s.db.QueryRow(`
		SELECT id, username, password_hash, fname, lname, role, created_at
		FROM accounts WHERE id = ?
	`, id).Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.FirstName, &acc.LastName, &acc.Role, &acc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

// List returns all accounts ordered by username
func (s *AccountStore) List() ([]models.Account, error) {
	rows, err := s.db.Query(`
		SELECT id, username, password_hash, fname, lname, role, created_at
		FROM accounts ORDER BY username ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.FirstName, &acc.LastName, &acc.Role, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// Create inserts a new account, hashing the password before it touches
// storage.
func (s *AccountStore) Create(username, password, fname, lname string, role models.Role) (*models.Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO accounts (username, password_hash, fname, lname, role)
		VALUES (?, ?, ?, ?, ?)
	`, username, string(hash), fname, lname, role)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: username %q", ErrDuplicate, username)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new account id: %w", err)
	}
	return s.Get(id)
}

// Update overwrites names and role, and rehashes the password when a new
// one is supplied.
func (s *AccountStore) Update(id int64, fname, lname string, role models.Role, newPassword string) (*models.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	var res sql.Result
	var err error
	if newPassword != "" {
		var hash []byte
		hash, err = bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		res, err = s.db.Exec(`
			UPDATE accounts SET fname = ?, lname = ?, role = ?, password_hash = ? WHERE id = ?
		`, fname, lname, role, string(hash), id)
	} else {
		res, err = s.db.Exec(`
			UPDATE accounts SET fname = ?, lname = ?, role = ? WHERE id = ?
		`, fname, lname, role, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// MySQL reports zero affected rows for no-op updates too, so
		// distinguish a missing row explicitly.
		if _, getErr := s.Get(id); getErr != nil {
			return nil, getErr
		}
	}
	return s.Get(id)
}

// Delete removes an account
func (s *AccountStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
