package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
)

const productColumns = `id, name, category, subcategory, price, sale, image, description, ratings, comments, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var ratings, comments []byte
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Subcategory, &p.Price, &p.Sale,
		&p.Image, &p.Description, &ratings, &comments, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ratings, &p.Ratings); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(p *models.Product) error {
	ratings, err := json.Marshal(p.Ratings)
	if err != nil {
		return err
	}
	comments, err := json.Marshal(p.Comments)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (id, name, category, subcategory, price, sale, image, description, ratings, comments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.DB.Exec(query, p.ID, p.Name, p.Category, p.Subcategory, p.Price, p.Sale,
		p.Image, p.Description, ratings, comments, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *Store) GetAllProducts() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) GetProductByID(id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	p, err := scanProduct(s.DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NewNotFoundError("product", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces the editable fields. Ratings and comments are only
// touched through RateProduct and AddComment.
func (s *Store) UpdateProduct(p *models.Product) error {
	query := `
		UPDATE products
		SET name = ?, category = ?, subcategory = ?, price = ?, sale = ?, description = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.DB.Exec(query, p.Name, p.Category, p.Subcategory, p.Price, p.Sale, p.Description, time.Now().UTC(), p.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "product", p.ID)
}

func (s *Store) UpdateProductImage(id, image string) error {
	res, err := s.DB.Exec(`UPDATE products SET image = ?, updated_at = ? WHERE id = ?`, image, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, "product", id)
}

// DeleteProduct removes the product. Orders keep their captured line-item
// snapshots; deletion does not cascade.
func (s *Store) DeleteProduct(id string) error {
	res, err := s.DB.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "product", id)
}

// RateProduct upserts a user's rating: at most one rating per user, last
// write wins. Ratings are keyed by user id even though the stored form is
// a list.
func (s *Store) RateProduct(id, userID string, rating int) (*models.Product, error) {
	p, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]int, len(p.Ratings)) // userId -> index
	for i, r := range p.Ratings {
		byUser[r.UserID] = i
	}
	if i, ok := byUser[userID]; ok {
		p.Ratings[i].Rating = rating
	} else {
		p.Ratings = append(p.Ratings, models.Rating{UserID: userID, Rating: rating})
	}

	if err := s.saveRatings(p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddComment appends a comment; the list is append-only.
func (s *Store) AddComment(id, user, text string) (*models.Product, error) {
	p, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	p.Comments = append(p.Comments, models.Comment{User: user, Text: text, Date: time.Now().UTC()})
	comments, err := json.Marshal(p.Comments)
	if err != nil {
		return nil, err
	}
	res, err := s.DB.Exec(`UPDATE products SET comments = ?, updated_at = ? WHERE id = ?`, comments, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res, "product", id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) saveRatings(p *models.Product) error {
	ratings, err := json.Marshal(p.Ratings)
	if err != nil {
		return err
	}
	res, err := s.DB.Exec(`UPDATE products SET ratings = ?, updated_at = ? WHERE id = ?`, ratings, time.Now().UTC(), p.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "product", p.ID)
}

// requireRow converts a zero-row write into a NotFoundError.
func requireRow(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NewNotFoundError(resource, id)
	}
	return nil
}
