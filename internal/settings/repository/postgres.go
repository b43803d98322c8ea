package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/guineapos/checkout-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Get(ctx context.Context, merchantID string) (*model.Settings, error) {
	var s model.Settings
	query := `SELECT * FROM merchant_settings WHERE merchant_id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, merchantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Upsert(ctx context.Context, s *model.Settings) error {
	query := `
        INSERT INTO merchant_settings (merchant_id, default_sale_type, tax_enabled, tax_rate, currency, walk_in_customer_id, updated_at)
        VALUES (:merchant_id, :default_sale_type, :tax_enabled, :tax_rate, :currency, :walk_in_customer_id, :updated_at)
        ON CONFLICT (merchant_id) DO UPDATE
        SET default_sale_type = EXCLUDED.default_sale_type,
            tax_enabled = EXCLUDED.tax_enabled,
            tax_rate = EXCLUDED.tax_rate,
            currency = EXCLUDED.currency,
            walk_in_customer_id = EXCLUDED.walk_in_customer_id,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}
