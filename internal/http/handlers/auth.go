package handlers

import (
	"net/http"

	"storefront/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := authService(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/admin/logout
func Logout(c *gin.Context) {
	authService(c).Logout(middleware.Identity(c).SessionID)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GET /api/admin/me
func Me(c *gin.Context) {
	u, err := authService(c).Me(c.Request.Context(), middleware.Identity(c).UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
