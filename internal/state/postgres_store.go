package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/picksmart/picksmart/internal/models"
)

type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connectionString)))

	db := bun.NewDB(sqldb, pgdialect.New())

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	store := &PostgresStore{db: db}

	ctx := context.Background()
	if err := store.InitializeDatabase(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) InitializeDatabase(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*models.ProductDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}

	_, err = s.db.NewCreateIndex().
		Model((*models.ProductDB)(nil)).
		Index("idx_products_title").
		Column("title").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create title index: %w", err)
	}

	_, err = s.db.NewCreateTable().
		Model((*models.CheckpointDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create pipeline_checkpoints table: %w", err)
	}

	return nil
}

func (s *PostgresStore) Products() *ProductIndex {
	return &ProductIndex{db: s.db}
}

func (s *PostgresStore) Checkpoints() *CheckpointStore {
	return &CheckpointStore{db: s.db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
