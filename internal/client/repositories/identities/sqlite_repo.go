package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/dbx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return findByEmail(ctx, r.db, email)
}

// Insert checks for an existing email and inserts in one transaction. The
// unique index on lower(email) backs the check up against other writers.
func (r *SQLiteRepository) Insert(ctx context.Context, identity *models.Identity) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := findByEmail(ctx, tx, identity.Email)
		switch {
		case err == nil:
			return common.ErrEmailAlreadyExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		createdAt := identity.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO identities (id, name, email, role, avatar, salt, verifier, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, identity.ID, identity.Name, identity.Email, identity.Role.String(), identity.Avatar,
			identity.Salt, identity.Verifier, createdAt)
		if err != nil {
			if isUniqueViolation(err) {
				return common.ErrEmailAlreadyExists
			}
			return fmt.Errorf("failed to insert identity %s: %w", identity.Email, err)
		}
		return nil
	})
}

func findByEmail(ctx context.Context, db dbx.DBTX, email string) (*models.Identity, error) {
	var (
		identity models.Identity
		role     string
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, name, email, role, avatar, salt, verifier, created_at
		FROM identities WHERE lower(email) = ?
	`, models.NormalizeEmail(email)).Scan(
		&identity.ID, &identity.Name, &identity.Email, &role, &identity.Avatar,
		&identity.Salt, &identity.Verifier, &identity.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity %s: %w", email, err)
	}

	if identity.Role, err = models.ParseRole(role); err != nil {
		return nil, fmt.Errorf("identity %s: %w", identity.ID, err)
	}
	return &identity, nil
}

// isUniqueViolation reports whether err is SQLite rejecting a row that
// breaks a UNIQUE constraint or index.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
