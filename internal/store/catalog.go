package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

type CatalogStore struct {
	db *database.DB
}

func NewCatalogStore(db *database.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const productColumns = `
	p.id, p.name, p.type_id, t.name, c.name, p.supplier_id, s.name,
	p.price, p.quantity, p.total, p.reorder_level, p.supplied_at`

const productJoins = `
	FROM products p
	JOIN ` + "`type`" + ` t ON t.id = p.type_id
	JOIN category c ON c.id = t.category_id
	JOIN suppliers s ON s.id = p.supplier_id`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.TypeID, &p.TypeName, &p.CategoryName,
		&p.SupplierID, &p.SupplierName, &p.Price, &p.Quantity, &p.Total,
		&p.ReorderLevel, &p.SuppliedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct returns one product with its type, category and supplier names
func (s *CatalogStore) GetProduct(id int64) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRow(`SELECT`+productColumns+productJoins+` WHERE p.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// ListProducts returns the full catalog ordered by product id
func (s *CatalogStore) ListProducts() ([]models.Product, error) {
	rows, err := s.db.Query(`SELECT` + productColumns + productJoins + ` ORDER BY p.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func validateProductInput(in *models.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if strings.TrimSpace(in.SupplierName) == "" {
		return fmt.Errorf("%w: supplier name is required", ErrValidation)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if in.ReorderLevel < 0 {
		return fmt.Errorf("%w: reorder level must not be negative", ErrValidation)
	}
	return nil
}

// resolveSupplier returns the id for the named supplier, inserting it when
// absent. The UNIQUE key plus ON DUPLICATE KEY makes this a single atomic
// statement, so two resolutions of the same name share one row.
func resolveSupplier(tx *sql.Tx, name string) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO suppliers (name) VALUES (?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
	`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve supplier: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read supplier id: %w", err)
	}
	return id, nil
}

// AddProduct inserts a product, resolving the supplier by name and
// persisting total = price * quantity alongside the current timestamp.
func (s *CatalogStore) AddProduct(in *models.ProductInput) (*models.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	supplierID, err := resolveSupplier(tx, in.SupplierName)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	total := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
	res, err := tx.Exec(`
		INSERT INTO products (name, type_id, supplier_id, price, quantity, total, reorder_level, supplied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW())
	`, in.Name, in.TypeID, supplierID, in.Price, in.Quantity, total, in.ReorderLevel)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read new product id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product insert: %w", err)
	}
	return s.GetProduct(id)
}

// UpdateProduct overwrites the mutable fields and recomputes the total
func (s *CatalogStore) UpdateProduct(id int64, in *models.ProductInput) (*models.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	supplierID, err := resolveSupplier(tx, in.SupplierName)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	total := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
	_, err = tx.Exec(`
		UPDATE products
		SET name = ?, type_id = ?, supplier_id = ?, price = ?, quantity = ?, total = ?, reorder_level = ?
		WHERE id = ?
	`, in.Name, in.TypeID, supplierID, in.Price, in.Quantity, total, in.ReorderLevel, id)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// A missing row surfaces as ErrNotFound from the read-back below.
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return s.GetProduct(id)
}

// DeleteProduct removes a product and its entire ledger history in one
// transaction. The history is unrecoverable afterwards.
func (s *CatalogStore) DeleteProduct(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, stmt := range []string{
		`DELETE FROM stockin WHERE product_id = ?`,
		`DELETE FROM stockout WHERE product_id = ?`,
		`DELETE FROM orders WHERE product_id = ?`,
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to delete product history: %w", err)
		}
	}

	res, err := tx.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	return tx.Commit()
}

// ListSuppliers returns all suppliers ordered by name
func (s *CatalogStore) ListSuppliers() ([]models.Supplier, error) {
	rows, err := s.db.Query(`SELECT id, name FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		var sup models.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, rows.Err()
}

// DeleteSupplier removes a supplier unless products still reference it
func (s *CatalogStore) DeleteSupplier(id int64) error {
	return s.deleteGuarded("suppliers", id,
		`SELECT COUNT(*) FROM products WHERE supplier_id = ?`)
}

// ListCategories returns all categories ordered by name
func (s *CatalogStore) ListCategories() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT id, name FROM category ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category
func (s *CatalogStore) CreateCategory(name string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	res, err := s.db.Exec(`INSERT INTO category (name) VALUES (?)`, name)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: category %q", ErrDuplicate, name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new category id: %w", err)
	}
	return &models.Category{ID: id, Name: name}, nil
}

// RenameCategory updates a category name
func (s *CatalogStore) RenameCategory(id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	res, err := s.db.Exec(`UPDATE category SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: category %q", ErrDuplicate, name)
		}
		return fmt.Errorf("failed to rename category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category unless types still reference it
func (s *CatalogStore) DeleteCategory(id int64) error {
	return s.deleteGuarded("category", id,
		"SELECT COUNT(*) FROM `type` WHERE category_id = ?")
}

// ListTypes returns all types with their category names
func (s *CatalogStore) ListTypes() ([]models.ProductType, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.category_id, c.name
		FROM ` + "`type`" + ` t
		JOIN category c ON c.id = t.category_id
		ORDER BY c.name ASC, t.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	defer rows.Close()

	var types []models.ProductType
	for rows.Next() {
		var t models.ProductType
		if err := rows.Scan(&t.ID, &t.Name, &t.CategoryID, &t.CategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// CreateType inserts a type under a category
func (s *CatalogStore) CreateType(name string, categoryID int64) (*models.ProductType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: type name is required", ErrValidation)
	}
	res, err := s.db.Exec("INSERT INTO `type` (name, category_id) VALUES (?, ?)", name, categoryID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: type %q", ErrDuplicate, name)
		}
		return nil, fmt.Errorf("failed to create type: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new type id: %w", err)
	}
	return &models.ProductType{ID: id, Name: name, CategoryID: categoryID}, nil
}

// DeleteType removes a type unless products still reference it
func (s *CatalogStore) DeleteType(id int64) error {
	return s.deleteGuarded("`type`", id,
		`SELECT COUNT(*) FROM products WHERE type_id = ?`)
}

// deleteGuarded deletes a row only when the reference count query reports
// zero dependents. The foreign keys enforce the same constraint at the
// storage level.
func (s *CatalogStore) deleteGuarded(table string, id int64, refQuery string) error {
	var refs int64
	if err := s.db.QueryRow(refQuery, id).Scan(&refs); err != nil {
		return fmt.Errorf("failed to count references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d dependent rows", ErrInUse, refs)
	}

	res, err := s.db.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
