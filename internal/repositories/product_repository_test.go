package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

var productCols = []string{"id", "title", "description", "category", "price", "stock", "featured", "active", "image", "created_at", "updated_at"}

func newMock(t *testing.T) (ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return ProductRepository{DB: db}, mock
}

func expectImageColumn(mock sqlmock.Sqlmock, legacy bool) {
	rows := sqlmock.NewRows([]string{"column_name"})
	if legacy {
		rows.AddRow("image")
	}
	mock.ExpectQuery("information_schema\\.columns").WithArgs("products", "image").WillReturnRows(rows)
}

func TestListActiveScansRows(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	expectImageColumn(mock, true)
	mock.ExpectQuery("SELECT .*COALESCE\\(NULLIF\\(image_url,''\\), image, ''\\).* FROM products WHERE active = 1 ORDER BY created_at DESC, id DESC").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(2, "Kaftan", "", "Menswear", "30000.00", 4, true, true, "/uploads/products/a.png", created, created).
			AddRow(1, "Clutch", "beaded", "Accessories", "9500.50", 0, false, true, "legacy.jpg", created.Add(-time.Hour), created))

	got, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].Title != "Kaftan" || !got[0].Featured || got[0].Stock != 4 {
		t.Fatalf("unexpected first product: %+v", got[0])
	}
	if !got[1].Price.Equal(decimal.RequireFromString("9500.5")) {
		t.Fatalf("price not scanned: %s", got[1].Price)
	}
	if got[1].ImageURL != "legacy.jpg" || got[1].InStock() {
		t.Fatalf("unexpected second product: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListNewestUsesLimit(t *testing.T) {
	repo, mock := newMock(t)

	expectImageColumn(mock, false)
	mock.ExpectQuery("FROM products WHERE active = 1 ORDER BY created_at DESC, id DESC LIMIT \\?").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(productCols))

	got, err := repo.ListNewest(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListNewest error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	expectImageColumn(mock, false)
	mock.ExpectQuery("FROM products WHERE id = \\? LIMIT 1").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(productCols))

	_, err := repo.GetByID(context.Background(), 7)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByIDRejectsBadID(t *testing.T) {
	repo, _ := newMock(t)
	if _, err := repo.GetByID(context.Background(), 0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProduct(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO products").
		WithArgs("Kaftan", nil, "Menswear", "30000", 4, true, true, "/uploads/products/a.png").
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := repo.Create(context.Background(), models.ProductInput{
		Title:    "Kaftan",
		Category: "Menswear",
		Price:    decimal.NewFromInt(30000),
		Stock:    4,
		Featured: true,
		Active:   true,
		ImageURL: "/uploads/products/a.png",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 12 {
		t.Fatalf("expected id 12, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateProductDuplicateIsConflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO products").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Create(context.Background(), models.ProductInput{Title: "x", Category: "y"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 99, models.ProductInput{Title: "x", Category: "y"})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM products WHERE id = \\?").WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM products WHERE id = \\?").WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), 4); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategoriesAndCountFeatured(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT DISTINCT category").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Accessories").AddRow("Menswear"))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE featured = 1").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))

	cats, err := repo.Categories(context.Background())
	if err != nil || len(cats) != 2 || cats[1] != "Menswear" {
		t.Fatalf("Categories = %v, %v", cats, err)
	}
	n, err := repo.CountFeatured(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("CountFeatured = %d, %v", n, err)
	}
}

func TestListActiveQueryError(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("boom")

	expectImageColumn(mock, false)
	mock.ExpectQuery("FROM products").WillReturnError(boom)

	if _, err := repo.ListActive(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestImageColumnLookedUpOncePerPool(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	expectImageColumn(mock, true)
	mock.ExpectQuery("COALESCE\\(NULLIF\\(image_url,''\\), image, ''\\).* FROM products WHERE active = 1").
		WillReturnRows(sqlmock.NewRows(productCols))
	mock.ExpectQuery("COALESCE\\(NULLIF\\(image_url,''\\), image, ''\\).* FROM products WHERE id = \\? LIMIT 1").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(3, "Gele", "", "Accessories", "3500", 1, false, true, "gele.jpg", now, now))

	if _, err := repo.ListActive(context.Background()); err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	p, err := repo.GetByID(context.Background(), 3)
	if err != nil || p.ImageURL != "gele.jpg" {
		t.Fatalf("GetByID = %+v, %v", p, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestImageColumnLookupErrorIsRetried(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("information_schema\\.columns").WithArgs("products", "image").
		WillReturnError(errors.New("lost connection"))
	mock.ExpectQuery("SELECT .*COALESCE\\(image_url,''\\), created_at.* FROM products WHERE active = 1").
		WillReturnRows(sqlmock.NewRows(productCols))
	expectImageColumn(mock, true)
	mock.ExpectQuery("COALESCE\\(NULLIF\\(image_url,''\\), image, ''\\)").
		WillReturnRows(sqlmock.NewRows(productCols))

	for i := 0; i < 2; i++ {
		if _, err := repo.ListActive(context.Background()); err != nil {
			t.Fatalf("ListActive #%d error: %v", i, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
