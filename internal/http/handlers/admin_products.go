package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// productRequest is the JSON body of the admin product form. Active
// defaults to true when omitted.
type productRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Active      *bool           `json:"active"`
	ImageURL    string          `json:"image_url"`
}

func (r productRequest) input() models.ProductInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return models.ProductInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Featured:    r.Featured,
		Active:      active,
		ImageURL:    r.ImageURL,
	}
}

// bindProductInput accepts either a JSON body or the multipart admin form,
// where an optional "image" file is stored before the product is saved.
// uploaded is the public URL of that file, empty when none was stored; the
// caller owns it and must remove it if the product is not saved.
func bindProductInput(c *gin.Context) (in models.ProductInput, uploaded string, ok bool) {
	if !isMultipart(c) {
		var req productRequest
		if !BindJSONOrError(c, &req) {
			return models.ProductInput{}, "", false
		}
		return req.input(), "", true
	}

	in, err := productFromForm(c)
	if err != nil {
		RespondDomainError(c, err)
		return models.ProductInput{}, "", false
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, "", true
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_image", "could not read image upload", nil)
		return models.ProductInput{}, "", false
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_image", "could not read image upload", nil)
		return models.ProductInput{}, "", false
	}
	defer f.Close()

	stored, err := storageService(c).Upload(fh.Filename, f)
	if err != nil {
		RespondDomainError(c, err)
		return models.ProductInput{}, "", false
	}
	in.ImageURL = stored.URL
	return in, stored.URL, true
}

// discardImage removes a stored product image, recording failures on the
// context instead of failing the request.
func discardImage(c *gin.Context, url string) {
	if url == "" {
		return
	}
	if err := storageService(c).Remove(url); err != nil {
		_ = c.Error(err)
	}
}

func productFromForm(c *gin.Context) (models.ProductInput, error) {
	in := models.ProductInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Featured:    utils.ParseCheckbox(c.PostForm("featured")),
		Active:      utils.ParseCheckbox(c.PostForm("active")),
		ImageURL:    c.PostForm("image_url"),
	}
	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return in, domain.ValidationError{Field: "price", Msg: "must be a number", Err: err}
		}
		in.Price = price
	}
	if raw := strings.TrimSpace(c.PostForm("stock")); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return in, domain.ValidationError{Field: "stock", Msg: "must be a whole number", Err: err}
		}
		in.Stock = stock
	}
	return in, nil
}

// GET /api/admin/products
func AdminListProducts(c *gin.Context) {
	out, err := adminService(c).ListProducts(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/admin/products/:id
func AdminGetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "product")
	if !ok {
		return
	}
	p, err := adminService(c).GetProduct(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/admin/products
func AdminCreateProduct(c *gin.Context) {
	in, uploaded, ok := bindProductInput(c)
	if !ok {
		return
	}
	p, err := adminService(c).CreateProduct(c.Request.Context(), in)
	if err != nil {
		discardImage(c, uploaded)
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /api/admin/products/:id
func AdminUpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "product")
	if !ok {
		return
	}
	in, uploaded, ok := bindProductInput(c)
	if !ok {
		return
	}
	p, previous, err := adminService(c).UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		discardImage(c, uploaded)
		RespondDomainError(c, err)
		return
	}
	if previous != "" && previous != p.ImageURL {
		discardImage(c, previous)
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /api/admin/products/:id
func AdminDeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "product")
	if !ok {
		return
	}
	svc := adminService(c)
	existing, err := svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := svc.DeleteProduct(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	discardImage(c, existing.ImageURL)
	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "id": id})
}

// GET /api/admin/dashboard
func AdminDashboard(c *gin.Context) {
	stats, err := adminService(c).DashboardStats(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
