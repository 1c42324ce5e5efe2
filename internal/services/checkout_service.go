package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"
	"storefront/internal/utils"
)

// Handoff is what the storefront needs to continue an order on WhatsApp.
type Handoff struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	URL       string `json:"url"`
}

// CheckoutService hands purchase intent over to the store's WhatsApp line.
// There is no order record; the conversation happens off-site.
type CheckoutService struct {
	Repo      repositories.ProductRepository
	StoreName string
	Phone     string
	RequestID string

	// Loader overrides the product lookup (tests).
	Loader func(ctx context.Context, id int64) (models.Product, error)
}

func (s CheckoutService) load(ctx context.Context, id int64) (models.Product, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	return s.Repo.GetByID(ctx, id)
}

func (s CheckoutService) Handoff(ctx context.Context, productID int64) (Handoff, error) {
	if strings.TrimSpace(s.Phone) == "" {
		return Handoff{}, domain.InternalError{Msg: "checkout is not configured"}
	}
	p, err := s.load(ctx, productID)
	if err != nil {
		return Handoff{}, err
	}
	if !p.Active {
		return Handoff{}, domain.NotFoundError{Resource: "product", ID: productID}
	}
	if !p.InStock() {
		return Handoff{}, domain.ConflictError{Resource: "product", Msg: "out of stock"}
	}

	msg := CheckoutMessage(s.StoreName, p)
	utils.LogEvent(s.RequestID, "checkout", "handoff", fmt.Sprintf("product_id=%d", p.ID))
	return Handoff{
		ProductID: p.ID,
		Title:     p.Title,
		Message:   msg,
		URL:       WhatsAppURL(s.Phone, msg),
	}, nil
}

func CheckoutMessage(store string, p models.Product) string {
	return fmt.Sprintf("Hello %s! I'm interested in purchasing:\nProduct: %s\nPrice: %s\nCategory: %s\nPlease confirm availability.",
		store, p.Title, utils.FormatNaira(p.Price), p.Category)
}

// WhatsAppURL builds a wa.me deep link. Spaces are percent-encoded since
// WhatsApp shows a literal "+" otherwise.
func WhatsAppURL(phone, text string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + encoded
}
