package repo

import (
	"context"
	"database/sql"

	"github.com/assetflow/assetflow/internal/models"
)

// RefDataRepo serves the category and department reference tables.
type RefDataRepo struct {
	DB *sql.DB
}

func NewRefDataRepo(db *sql.DB) *RefDataRepo {
	return &RefDataRepo{DB: db}
}

func (r *RefDataRepo) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	var c models.Category
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name`, name,
	).Scan(&c.ID, &c.Name)
	return c, err
}

func (r *RefDataRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *RefDataRepo) CreateDepartment(ctx context.Context, name string) (models.Department, error) {
	var d models.Department
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO departments (name) VALUES ($1) RETURNING id, name`, name,
	).Scan(&d.ID, &d.Name)
	return d, err
}

func (r *RefDataRepo) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
