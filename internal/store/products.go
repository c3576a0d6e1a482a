package store

import (
	"context"
	"database/sql"

	"github.com/pratoexpress/delivery/pkg/models"
)

// Products lists the catalog sorted by name, optionally filtered to one
// category.
func (s *Store) Products(ctx context.Context, category string) ([]models.Product, error) {
	query := `SELECT id, name, description, price, image_url, category FROM products`
	args := []interface{}{}

	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) ProductByID(ctx context.Context, id int) (*models.Product, error) {
	p := &models.Product{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, image_url, category FROM products WHERE id = $1`,
		id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, image_url, category)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		req.Name, req.Description, req.Price, req.ImageURL, req.Category).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}
