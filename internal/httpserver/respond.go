package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopapi/internal/domain"
	usersvc "shopapi/internal/service/user"
)

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

// writeError maps domain error kinds onto HTTP statuses. Stock conflicts keep
// their structured context so clients can adjust quantities.
func writeError(c *gin.Context, err error) {
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "insufficient_stock",
				"message": stockErr.Error(),
				"details": gin.H{
					"productId":   stockErr.ProductID,
					"productName": stockErr.ProductName,
					"requested":   stockErr.Requested,
					"available":   stockErr.Available,
					"inCart":      stockErr.InCart,
				},
			},
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody("not_found", err.Error()))
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorBody("invalid_input", err.Error()))
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, errorBody("insufficient_stock", err.Error()))
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorBody("already_exists", err.Error()))
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, errorBody("empty_cart", "cart is empty"))
	case errors.Is(err, domain.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorBody("forbidden", err.Error()))
	case errors.Is(err, usersvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody("invalid_credentials", "invalid email or password"))
	case errors.Is(err, usersvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errorBody("invalid_token", "invalid or expired token"))
	default:
		c.JSON(http.StatusInternalServerError, errorBody("internal", "internal server error"))
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody("invalid_input", message))
}
