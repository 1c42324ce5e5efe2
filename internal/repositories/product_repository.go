package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	intconfig "storefront/internal/config"
	intdb "storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

const productsTable = "products"

type ProductRepository struct {
	DB *sql.DB
}

func (r ProductRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// legacyImage remembers, per connection pool, whether products still has
// the old "image" column. Migrate never adds or drops it, so one lookup
// per process is enough.
var legacyImage sync.Map // *sql.DB -> bool

func (r ProductRepository) hasLegacyImage(ctx context.Context) bool {
	db := r.db()
	if v, ok := legacyImage.Load(db); ok {
		return v.(bool)
	}
	found, err := intdb.LookupColumn(ctx, db, productsTable, "image")
	if err != nil {
		return false
	}
	legacyImage.Store(db, found)
	return found
}

// selectColumns builds the product projection. Older catalogs kept the
// picture in an "image" column; image_url wins when both are set.
func (r ProductRepository) selectColumns(ctx context.Context) string {
	image := "COALESCE(image_url,'')"
	if r.hasLegacyImage(ctx) {
		image = "COALESCE(NULLIF(image_url,''), image, '')"
	}
	return strings.Join([]string{
		"id",
		"COALESCE(title,'')",
		"COALESCE(description,'')",
		"COALESCE(category,'')",
		"COALESCE(price,0)",
		"COALESCE(stock,0)",
		"COALESCE(featured,0)",
		"COALESCE(active,0)",
		image,
		"created_at",
		"updated_at",
	}, ", ")
}

func (r ProductRepository) list(ctx context.Context, where string, tail string, args ...any) ([]models.Product, error) {
	query := "SELECT " + r.selectColumns(ctx) + " FROM " + productsTable
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at DESC, id DESC" + tail

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (models.Product, error) {
	var p models.Product
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.Stock,
		&p.Featured,
		&p.Active,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// ListActive returns every sellable product, newest first.
func (r ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	out, err := r.list(ctx, "active = 1", "")
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return out, nil
}

// ListNewest returns the limit most recent active products.
func (r ProductRepository) ListNewest(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return []models.Product{}, nil
	}
	out, err := r.list(ctx, "active = 1", " LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list newest products: %w", err)
	}
	return out, nil
}

// ListAll returns active and inactive products for the admin panel.
func (r ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	out, err := r.list(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r ProductRepository) CountFeatured(ctx context.Context) (int, error) {
	var n int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE featured = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count featured products: %w", err)
	}
	return n, nil
}

// Categories lists the distinct categories of active products.
func (r ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT DISTINCT category
		FROM products
		WHERE active = 1 AND category <> ''
		ORDER BY category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r ProductRepository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	if id <= 0 {
		return models.Product{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	query := "SELECT " + r.selectColumns(ctx) + " FROM " + productsTable + " WHERE id = ? LIMIT 1"
	p, err := scanProduct(r.db().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, domain.NotFoundError{Resource: "product", ID: id, Err: err}
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r ProductRepository) Create(ctx context.Context, in models.ProductInput) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO products (title, description, category, price, stock, featured, active, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, in.Title, intdb.NullIfEmpty(in.Description), in.Category, in.Price, in.Stock, in.Featured, in.Active, intdb.NullIfEmpty(in.ImageURL))
	if err != nil {
		return 0, mapWriteError(err, "create product")
	}
	return res.LastInsertId()
}

// Update overwrites every writable field. The DSN sets clientFoundRows, so
// an unchanged row still counts as affected and zero means missing.
func (r ProductRepository) Update(ctx context.Context, id int64, in models.ProductInput) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE products
		SET title = ?, description = ?, category = ?, price = ?, stock = ?, featured = ?, active = ?, image_url = ?, updated_at = NOW()
		WHERE id = ?
	`, in.Title, intdb.NullIfEmpty(in.Description), in.Category, in.Price, in.Stock, in.Featured, in.Active, intdb.NullIfEmpty(in.ImageURL), id)
	if err != nil {
		return mapWriteError(err, "update product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "product", ID: id}
	}
	return nil
}

func (r ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "product", ID: id}
	}
	return nil
}

func mapWriteError(err error, op string) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return domain.ConflictError{Resource: "product", Msg: "duplicate entry", Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
