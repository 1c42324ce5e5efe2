package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/reports/inventory.pdf
func InventoryReportPDF(c *gin.Context) {
	pdfBytes, filename, err := reportService(c).InventoryPDF(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
