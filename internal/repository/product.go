package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easygroceries/grocery-api/internal/domain/product"
)

const (
	listProductsSQL = `SELECT product_id, product_name, product_desc, price, is_physical, is_active, created_date
		FROM products WHERE is_active ORDER BY product_id`

	getProductByIDSQL = `SELECT product_id, product_name, product_desc, price, is_physical, is_active, created_date
		FROM products WHERE is_active AND product_id = $1`

	insertProductSQL = `INSERT INTO products (product_name, product_desc, price, is_physical)
		VALUES ($1, $2, $3, $4)
		RETURNING product_id`

	updateProductSQL = `UPDATE products
		SET product_name = $2, product_desc = $3, price = $4, is_physical = $5
		WHERE product_id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all active products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single active product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

// Add inserts a product and returns the assigned ID.
func (r *ProductRepository) Add(ctx context.Context, p *product.Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, insertProductSQL, p.Name, p.Description, p.Price, p.IsPhysical).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert product")
	}
	return id, nil
}

// Update rewrites the product's mutable fields. It reports
// product.ErrNotFound when no row matches the ID.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL, p.ID, p.Name, p.Description, p.Price, p.IsPhysical)
	if err != nil {
		return errors.Wrapf(err, "update product %d", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.IsPhysical, &p.IsActive, &p.CreatedAt)
	return p, err
}
