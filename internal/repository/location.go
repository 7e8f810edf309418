package repository

import (
	"context"
	"fmt"
)

// LocationName resolves a location id to its display name.
func (p *Postgres) LocationName(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", ErrNotFound
	}

	var name string
	err := p.db.QueryRow(ctx, `SELECT name FROM locations WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if notFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get location: %w", err)
	}
	return name, nil
}
