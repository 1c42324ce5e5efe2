package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"
	"storefront/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// ReportService renders the admin inventory report as a PDF.
type ReportService struct {
	Repo      repositories.ProductRepository
	StoreName string
	RequestID string
	Loader    func(ctx context.Context) ([]models.Product, error)
	Now       func() time.Time
}

func (s ReportService) loadProducts(ctx context.Context) ([]models.Product, error) {
	if s.Loader != nil {
		return s.Loader(ctx)
	}
	return s.Repo.ListAll(ctx)
}

func (s ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// InventoryPDF returns the PDF bytes and a download file name.
func (s ReportService) InventoryPDF(ctx context.Context) ([]byte, string, error) {
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "Failed to load products", Err: err}
	}
	generated := s.now()
	out, err := buildInventoryPDF(s.StoreName, generated, products)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "Failed to render report", Err: err}
	}
	utils.LogEvent(s.RequestID, "reports", "inventory_pdf", fmt.Sprintf("products=%d bytes=%d", len(products), len(out)))

	filename := fmt.Sprintf("INVENTORY_%s_%s.pdf", utils.SafeFilenamePart(s.StoreName), utils.FileStamp(generated))
	return out, filename, nil
}

var inventoryColumns = []struct {
	title string
	width float64
	align string
}{
	{"Product", 62, "L"},
	{"Category", 34, "L"},
	{"Price", 28, "R"},
	{"Stock", 16, "R"},
	{"Value", 30, "R"},
	{"Status", 20, "C"},
}

func buildInventoryPDF(store string, generated time.Time, products []models.Product) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Inventory Report", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVENTORY REPORT")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(safe(store, "-")))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated: "+utils.FormatDateTime(generated))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range inventoryColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	stats := summarize(products)
	for _, p := range products {
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
		cells := []string{
			truncate(p.Title, 36),
			truncate(p.Category, 20),
			utils.FormatAmount(p.Price),
			fmt.Sprintf("%d", p.Stock),
			utils.FormatAmount(value),
			productStatus(p),
		}
		for i, c := range inventoryColumns {
			pdf.CellFormat(c.width, 6, tr(cells[i]), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Products: %d", stats.TotalProducts))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Units in stock: %d", stats.TotalStock))
	pdf.Ln(7)
	// Core fonts have no naira glyph.
	pdf.Cell(0, 7, "Inventory value: NGN "+utils.FormatAmount(stats.InventoryValue))
	pdf.Ln(7)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func productStatus(p models.Product) string {
	switch {
	case !p.Active:
		return "Hidden"
	case !p.InStock():
		return "Sold out"
	default:
		return "Active"
	}
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max-3]) + "..."
}
