package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type cartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := carts.GetItems(c.Request.Context(), currentOwner(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func addCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId and quantity are required")
			return
		}
		item, err := carts.AddItem(c.Request.Context(), currentOwner(c), req.ProductID, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// updateCartItemHandler replaces a line quantity. Zero removes the line, so
// the response distinguishes the two outcomes.
func updateCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			badRequest(c, "quantity is required")
			return
		}
		item, err := carts.UpdateItemQuantity(c.Request.Context(), currentOwner(c), c.Param("productId"), *req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		if item == nil {
			c.JSON(http.StatusOK, gin.H{"removed": true, "productId": c.Param("productId")})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func removeCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.RemoveItem(c.Request.Context(), currentOwner(c), c.Param("productId")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := carts.ClearCart(c.Request.Context(), currentOwner(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}

type cleanupRequest struct {
	DaysOld int `json:"daysOld"`
}

func cleanupCartsHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := cleanupRequest{DaysOld: 30}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, "invalid request body")
				return
			}
		}
		removed, err := carts.CleanupOldCarts(c.Request.Context(), req.DaysOld)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}
