package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tienda/pricewatch/internal/models"
)

// postgresStore implements Store on a pgx connection pool.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a connection pool for dsn and verifies
// connectivity with a ping. Returns an error if the database cannot be
// reached within 5 seconds.
func NewPostgresStore(ctx context.Context, dsn string) (Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) ReadProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, last_price, unit_size, last_update
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.LastPrice, &p.UnitSize, &p.LastUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read product %s: %w", id, err)
	}
	return &p, nil
}

func (s *postgresStore) RecordObservation(ctx context.Context, obs Observation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin observation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	p := obs.Product
	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, name, last_price, unit_size, last_update)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			last_price = EXCLUDED.last_price,
			unit_size = EXCLUDED.unit_size,
			last_update = EXCLUDED.last_update
	`, p.ID, p.Name, p.LastPrice, p.UnitSize, p.LastUpdate)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}

	if c := obs.Change; c != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO price_history (product_id, name, old_price, new_price, change_date)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ProductID, c.Name, c.OldPrice, c.NewPrice, c.ObservedAt)
		if err != nil {
			return fmt.Errorf("append history for %s: %w", c.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit observation for %s: %w", p.ID, err)
	}
	return nil
}

func (s *postgresStore) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, last_price, unit_size, last_update
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.LastPrice, &p.UnitSize, &p.LastUpdate); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *postgresStore) History(ctx context.Context) ([]models.PriceChange, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, name, old_price, new_price, change_date
		FROM price_history
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var history []models.PriceChange
	for rows.Next() {
		var c models.PriceChange
		if err := rows.Scan(&c.ProductID, &c.Name, &c.OldPrice, &c.NewPrice, &c.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		history = append(history, c)
	}
	return history, rows.Err()
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
