package store

import (
	"context"
	"fmt"
	"strings"
)

func (s *Store) InsertListing(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO market_listings (
			seller_id, seller_name, seller_email, seller_phone,
			title, description, category,
			price, unit, quantity_available, location, image_url, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		l.SellerID, l.SellerName, l.SellerEmail, l.SellerPhone,
		l.Title, l.Description, l.Category,
		l.Price, l.Unit, l.QuantityAvailable, l.Location, l.ImageURL, l.Status,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

// ListingFilter narrows ListListings; zero values mean no constraint.
type ListingFilter struct {
	Keywords string
	Category string
	Status   string
	Limit    int
}

// ListListings returns listings newest first, optionally filtered by
// category and status.
func (s *Store) ListListings(ctx context.Context, filter ListingFilter) ([]Listing, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	conditions := []string{}
	args := []interface{}{}
	if filter.Keywords != "" {
		args = append(args, "%"+filter.Keywords+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `
		SELECT id, seller_id, seller_name, seller_email, seller_phone,
		       title, description, category,
		       price, unit, quantity_available, location, image_url, status, created_at
		FROM market_listings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []Listing{}
	for rows.Next() {
		var l Listing
		if err := rows.Scan(
			&l.ID, &l.SellerID, &l.SellerName, &l.SellerEmail, &l.SellerPhone,
			&l.Title, &l.Description, &l.Category,
			&l.Price, &l.Unit, &l.QuantityAvailable, &l.Location, &l.ImageURL, &l.Status, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
