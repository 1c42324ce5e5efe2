package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"
	"storefront/internal/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RecentProductsLimit is how many products the dashboard lists as recent.
const RecentProductsLimit = 5

// AdminService backs the admin panel: product CRUD and dashboard numbers.
type AdminService struct {
	Repo      repositories.ProductRepository
	RequestID string
}

type ProductListing struct {
	Products []models.Product `json:"products"`
	Recent   []models.Product `json:"recent"`
}

// ListProducts returns every product (inactive included), newest first,
// along with the head of that list for the "recent" panel.
func (s AdminService) ListProducts(ctx context.Context) (ProductListing, error) {
	all, err := s.Repo.ListAll(ctx)
	if err != nil {
		return ProductListing{}, domain.InternalError{Msg: "Failed to load products", Err: err}
	}
	recent := all
	if len(recent) > RecentProductsLimit {
		recent = recent[:RecentProductsLimit]
	}
	return ProductListing{Products: all, Recent: recent}, nil
}

func (s AdminService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s AdminService) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	in = normalizeInput(in)
	if err := validateInput(in); err != nil {
		return models.Product{}, err
	}
	id, err := s.Repo.Create(ctx, in)
	if err != nil {
		return models.Product{}, err
	}
	utils.LogEvent(s.RequestID, "admin", "create_product", fmt.Sprintf("product_id=%d", id))
	return s.saved(ctx, id, in, time.Time{}), nil
}

// UpdateProduct overwrites the product. An empty ImageURL keeps the current
// image. The image URL held before the update is returned so the caller can
// drop a file that is no longer referenced.
func (s AdminService) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, string, error) {
	in = normalizeInput(in)
	if err := validateInput(in); err != nil {
		return models.Product{}, "", err
	}
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, "", err
	}
	if in.ImageURL == "" {
		in.ImageURL = existing.ImageURL
	}
	if err := s.Repo.Update(ctx, id, in); err != nil {
		return models.Product{}, "", err
	}
	utils.LogEvent(s.RequestID, "admin", "update_product", fmt.Sprintf("product_id=%d", id))
	return s.saved(ctx, id, in, existing.CreatedAt), existing.ImageURL, nil
}

// saved re-reads a product after a committed write. If the read fails the
// write still stands, so the product is rebuilt from the input instead of
// reporting an error.
func (s AdminService) saved(ctx context.Context, id int64, in models.ProductInput, created time.Time) models.Product {
	p, err := s.Repo.GetByID(ctx, id)
	if err == nil {
		return p
	}
	utils.LogError(s.RequestID, "admin", "reload_product", err)
	now := time.Now()
	if created.IsZero() {
		created = now
	}
	return models.Product{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		Featured:    in.Featured,
		Active:      in.Active,
		ImageURL:    in.ImageURL,
		CreatedAt:   created,
		UpdatedAt:   now,
	}
}

func (s AdminService) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "admin", "delete_product", fmt.Sprintf("product_id=%d", id))
	return nil
}

// DashboardStats runs the product scan and the featured count concurrently.
func (s AdminService) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var (
		all      []models.Product
		featured int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.Repo.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		featured, err = s.Repo.CountFeatured(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, domain.InternalError{Msg: "Failed to load dashboard statistics", Err: err}
	}

	stats := summarize(all)
	stats.FeaturedCount = featured
	return stats, nil
}

// summarize totals stock and stock value; FeaturedCount is left to the caller.
func summarize(products []models.Product) models.DashboardStats {
	stats := models.DashboardStats{TotalProducts: len(products), InventoryValue: decimal.Zero}
	for _, p := range products {
		stats.TotalStock += p.Stock
		stats.InventoryValue = stats.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return stats
}

func normalizeInput(in models.ProductInput) models.ProductInput {
	in.Title = utils.NormalizeSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

func validateInput(in models.ProductInput) error {
	switch {
	case in.Title == "":
		return domain.ValidationError{Field: "title", Msg: "is required"}
	case in.Category == "":
		return domain.ValidationError{Field: "category", Msg: "is required"}
	case in.Price.IsNegative():
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	case in.Stock < 0:
		return domain.ValidationError{Field: "stock", Msg: "must not be negative"}
	}
	return nil
}
