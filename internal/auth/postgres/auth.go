package postgres

import (
	"database/sql"
	"fmt"

	"github.com/almajalla/majalla/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetIdentityByID(userID int64) (auth.Identity, error) {
	var identity auth.Identity

	query := `SELECT id, email FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&identity.ID, &identity.Email); err != nil {
		if err == sql.ErrNoRows {
			return auth.Identity{}, fmt.Errorf("user not found")
		}
		return auth.Identity{}, err
	}
	return identity, nil
}
