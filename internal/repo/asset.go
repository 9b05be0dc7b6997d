package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/assetflow/assetflow/internal/core"
	"github.com/assetflow/assetflow/internal/models"
)

const assetColumns = `id, name, category_id, department_id, purchase_date, cost, created_by, updated_by, created_at, updated_at`

// AssetRepo persists assets. Deletion is deliberately only available through
// DeleteTx so it always runs inside the coordinator's transaction.
type AssetRepo struct {
	DB *sql.DB
}

func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{DB: db}
}

func scanAsset(row interface{ Scan(dest ...any) error }) (models.Asset, error) {
	var a models.Asset
	err := row.Scan(
		&a.ID, &a.Name, &a.CategoryID, &a.DepartmentID, &a.PurchaseDate,
		&a.Cost, &a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *AssetRepo) Create(ctx context.Context, a models.Asset) (models.Asset, error) {
	return scanAsset(r.DB.QueryRowContext(ctx,
		`INSERT INTO assets (name, category_id, department_id, purchase_date, cost, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING `+assetColumns,
		a.Name, a.CategoryID, a.DepartmentID, a.PurchaseDate, a.Cost, a.CreatedBy,
	))
}

func (r *AssetRepo) GetByID(ctx context.Context, id int) (models.Asset, error) {
	a, err := scanAsset(r.DB.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, &core.NotFoundError{Entity: "asset", ID: id}
	}
	return a, err
}

// GetForUpdate loads the asset with a row lock inside the caller's
// transaction. Missing rows surface as core.NotFoundError.
func (r *AssetRepo) GetForUpdate(ctx context.Context, q Querier, id int) (models.Asset, error) {
	a, err := scanAsset(q.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, &core.NotFoundError{Entity: "asset", ID: id}
	}
	return a, err
}

func (r *AssetRepo) UpdateByID(ctx context.Context, id int, a models.Asset) (models.Asset, error) {
	out, err := scanAsset(r.DB.QueryRowContext(ctx,
		`UPDATE assets
		 SET name = $1, category_id = $2, department_id = $3, purchase_date = $4, cost = $5, updated_by = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING `+assetColumns,
		a.Name, a.CategoryID, a.DepartmentID, a.PurchaseDate, a.Cost, a.UpdatedBy, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return out, &core.NotFoundError{Entity: "asset", ID: id}
	}
	return out, err
}

// DeleteTx removes the asset row inside the caller's transaction and reports
// whether a row was actually deleted (false when a concurrent deletion beat
// us to it).
func (r *AssetRepo) DeleteTx(ctx context.Context, q Querier, id int) (bool, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AssetRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssets(rows)
}

func (r *AssetRepo) SearchPaginated(ctx context.Context, query string, limit, offset int) ([]models.Asset, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE name ILIKE $1 ORDER BY id LIMIT $2 OFFSET $3`,
		"%"+query+"%", limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssets(rows)
}

func collectAssets(rows *sql.Rows) ([]models.Asset, error) {
	var assets []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
