package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	suppliersvc "shopapi/internal/service/supplier"
)

func listSuppliersHandler(suppliers SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := suppliers.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suppliers": list, "count": len(list)})
	}
}

func getSupplierHandler(suppliers SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := suppliers.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func createSupplierHandler(suppliers SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req suppliersvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		s, err := suppliers.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

func updateSupplierHandler(suppliers SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req suppliersvc.UpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		s, err := suppliers.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func deleteSupplierHandler(suppliers SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
