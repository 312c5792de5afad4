package store

import (
	"database/sql"
	"strings"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
)

// ErrUsernameTaken is returned when creating or renaming an admin to a
// username that already exists.
var ErrUsernameTaken = apperr.NewValidationError("username", "already exists")

func (s *Store) GetAdminByUsername(username string) (*models.Admin, error) {
	query := `SELECT id, username, password FROM admins WHERE username = ?`
	row := s.DB.QueryRow(query, username)

	var admin models.Admin
	if err := row.Scan(&admin.ID, &admin.Username, &admin.Password); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin seeds a new admin credential; there is no self-service signup.
func (s *Store) CreateAdmin(id, username, hashedPassword string) error {
	query := `INSERT INTO admins (id, username, password) VALUES (?, ?, ?)`
	_, err := s.DB.Exec(query, id, username, hashedPassword)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrUsernameTaken
	}
	return err
}

// ListAdmins returns ids and usernames only, never credential hashes.
func (s *Store) ListAdmins() ([]models.Admin, error) {
	rows, err := s.DB.Query(`SELECT id, username FROM admins ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.Username); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (s *Store) UpdateAdmin(id, username, hashedPassword string) error {
	res, err := s.DB.Exec(`UPDATE admins SET username = ?, password = ? WHERE id = ?`, username, hashedPassword, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUsernameTaken
		}
		return err
	}
	return requireRow(res, "admin", id)
}

func (s *Store) DeleteAdmin(id string) error {
	res, err := s.DB.Exec(`DELETE FROM admins WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "admin", id)
}
