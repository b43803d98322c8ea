package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/guineapos/checkout-service/internal/inventory/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetLevel(ctx context.Context, merchantID, productID string, posID *string) (*model.StockLevel, error) {
	var level model.StockLevel
	// IS NOT DISTINCT FROM matches the NULL warehouse row when posID is nil.
	query := `
        SELECT * FROM stock_levels
        WHERE merchant_id = $1 AND product_id = $2 AND point_of_sale_id IS NOT DISTINCT FROM $3
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &level, query, merchantID, productID, posID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &level, nil
}

func (r *PGRepository) BatchGetLevels(ctx context.Context, merchantID string, productIDs []string, posID *string) (map[string]model.StockLevel, error) {
	result := make(map[string]model.StockLevel, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
        SELECT * FROM stock_levels
        WHERE merchant_id = ? AND product_id IN (?) AND point_of_sale_id IS NOT DISTINCT FROM ?
    `, merchantID, productIDs, posID)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var levels []model.StockLevel
	if err := r.DB.SelectContext(ctx, &levels, query, args...); err != nil {
		return nil, err
	}
	for _, l := range levels {
		result[l.ProductID] = l
	}
	return result, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StockLevelFilters) ([]model.StockLevel, int, error) {
	var levels []model.StockLevel
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.PointOfSaleID != nil {
		if *f.PointOfSaleID == "" {
			conditions = append(conditions, "point_of_sale_id IS NULL")
		} else {
			conditions = append(conditions, "point_of_sale_id = :point_of_sale_id")
			args["point_of_sale_id"] = *f.PointOfSaleID
		}
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LowStockOnly {
		conditions = append(conditions, "quantity <= reorder_level")
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM stock_levels" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_levels" + whereClause + " ORDER BY product_id ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &levels, args); err != nil {
		return nil, 0, err
	}

	return levels, count, nil
}

func (r *PGRepository) ApplyMovement(ctx context.Context, level *model.StockLevel, movement *model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Partial unique indexes cover both the per-POS and the warehouse
	// (NULL point_of_sale_id) rows, so a plain ON CONFLICT target does not
	// work here. Update first, insert when nothing matched.
	res, err := tx.NamedExecContext(ctx, `
        UPDATE stock_levels
        SET quantity = :quantity,
            reorder_level = :reorder_level,
            updated_at = :updated_at
        WHERE merchant_id = :merchant_id
          AND product_id = :product_id
          AND point_of_sale_id IS NOT DISTINCT FROM :point_of_sale_id
    `, level)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		_, err = tx.NamedExecContext(ctx, `
            INSERT INTO stock_levels (id, merchant_id, point_of_sale_id, product_id, quantity, reorder_level, updated_at)
            VALUES (:id, :merchant_id, :point_of_sale_id, :product_id, :quantity, :reorder_level, :updated_at)
        `, level)
		if err != nil {
			return err
		}
	}

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO stock_movements (id, merchant_id, point_of_sale_id, product_id, movement_type, quantity_change,
                                     quantity_before, quantity_after, reference_type, reference_id, notes, created_by, created_at)
        VALUES (:id, :merchant_id, :point_of_sale_id, :product_id, :movement_type, :quantity_change,
                :quantity_before, :quantity_after, :reference_type, :reference_id, :notes, :created_by, :created_at)
    `, movement)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) SetReorderLevel(ctx context.Context, merchantID, productID string, posID *string, reorderLevel int) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE stock_levels
        SET reorder_level = $4, updated_at = now()
        WHERE merchant_id = $1 AND product_id = $2 AND point_of_sale_id IS NOT DISTINCT FROM $3
    `, merchantID, productID, posID, reorderLevel)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var movements []model.StockMovement
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.PointOfSaleID != nil {
		if *f.PointOfSaleID == "" {
			conditions = append(conditions, "point_of_sale_id IS NULL")
		} else {
			conditions = append(conditions, "point_of_sale_id = :point_of_sale_id")
			args["point_of_sale_id"] = *f.PointOfSaleID
		}
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &movements, args); err != nil {
		return nil, 0, err
	}

	return movements, count, nil
}
