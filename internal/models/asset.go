package models

import "time"

type Asset struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	CategoryID   int       `json:"category_id"`
	DepartmentID int       `json:"department_id"`
	PurchaseDate time.Time `json:"purchase_date"`
	Cost         float64   `json:"cost"`
	CreatedBy    int       `json:"created_by"`
	UpdatedBy    int       `json:"updated_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category is a reference table row (e.g. "Laptops", "Monitors").
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Department is a reference table row (e.g. "Engineering", "Finance").
type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
