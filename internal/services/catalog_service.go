package services

import (
	"context"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"
	"storefront/internal/utils"
)

// NewArrivalsLimit is how many products the home page shows.
const NewArrivalsLimit = 4

type BrowseQuery struct {
	Filters catalog.FilterState
	Page    int
}

type BrowseResult struct {
	Products []models.Product    `json:"products"`
	HasMore  bool                `json:"has_more"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int                 `json:"total"`
	State    catalog.ViewState   `json:"state"`
	Filters  catalog.FilterState `json:"filters"`
}

// CatalogService serves the public storefront.
type CatalogService struct {
	Repo      repositories.ProductRepository
	RequestID string

	// FetchActive overrides the repository fetch (tests).
	FetchActive func(ctx context.Context) ([]models.Product, error)
}

func (s CatalogService) fetchActive(ctx context.Context) ([]models.Product, error) {
	if s.FetchActive != nil {
		return s.FetchActive(ctx)
	}
	return s.Repo.ListActive(ctx)
}

// Browse loads the active catalog and runs it through the view pipeline:
// filter, sort, then reveal pages 1..q.Page. Pages past the end stop at the
// last one.
func (s CatalogService) Browse(ctx context.Context, q BrowseQuery) (BrowseResult, error) {
	if q.Page < 1 {
		return BrowseResult{}, domain.ValidationError{Field: "page", Msg: "must be >= 1"}
	}

	products, err := s.fetchActive(ctx)
	if err != nil {
		utils.LogError(s.RequestID, "catalog", "browse", err)
		return BrowseResult{}, domain.InternalError{Msg: "Failed to load products. Please try again later.", Err: err}
	}

	view := catalog.NewView(products)
	view.SetFilters(q.Filters)
	for view.Page() < q.Page && view.HasMore() {
		view.LoadMore()
	}
	visible, hasMore := view.Result()

	utils.LogEvent(s.RequestID, "catalog", "browse",
		fmt.Sprintf("total=%d visible=%d page=%d", view.Total(), len(visible), view.Page()))

	return BrowseResult{
		Products: visible,
		HasMore:  hasMore,
		Page:     view.Page(),
		PageSize: catalog.PageSize,
		Total:    view.Total(),
		State:    view.State(),
		Filters:  view.Filters(),
	}, nil
}

func (s CatalogService) NewArrivals(ctx context.Context) ([]models.Product, error) {
	out, err := s.Repo.ListNewest(ctx, NewArrivalsLimit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load new arrivals", Err: err}
	}
	return out, nil
}

func (s CatalogService) Categories(ctx context.Context) ([]string, error) {
	out, err := s.Repo.Categories(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load categories", Err: err}
	}
	return out, nil
}

// Product returns one active product. Inactive products read as missing.
func (s CatalogService) Product(ctx context.Context, id int64) (models.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !p.Active {
		return models.Product{}, domain.NotFoundError{Resource: "product", ID: id}
	}
	return p, nil
}
