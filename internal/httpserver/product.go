package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	productsvc "shopapi/internal/service/product"
)

func listProductsHandler(products ProductService, includeInactive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context(), includeInactive)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": list, "count": len(list)})
	}
}

func getProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func checkAvailabilityHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
		if err != nil {
			badRequest(c, "quantity must be an integer")
			return
		}
		available, err := products.CheckAvailability(c.Request.Context(), c.Param("id"), quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"productId": c.Param("id"), "quantity": quantity, "available": available})
	}
}

func createProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productsvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := products.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productsvc.UpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := products.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type restockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func restockProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req restockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity is required")
			return
		}
		p, err := products.Restock(c.Request.Context(), c.Param("id"), req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
