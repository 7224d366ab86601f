package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopapi/internal/domain"
	ordersvc "shopapi/internal/service/order"
)

func createOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		order, err := orders.CreateFromCart(c.Request.Context(), currentUser(c).ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.Get(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listMyOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := intQuery(c, "page", 1)
		pageSize := intQuery(c, "pageSize", 0)
		list, err := orders.ListForUser(c.Request.Context(), currentUser(c).ID, page, pageSize)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
	}
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// cancelOrderHandler is the customer-facing cancellation; the service layer
// enforces ownership and the pending/confirmed window.
func cancelOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.UpdateStatus(c.Request.Context(), currentUser(c), c.Param("id"), string(domain.OrderStatusCancelled))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func updateOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "status is required")
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), currentUser(c), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listAllOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := orders.ListAll(c.Request.Context(), ordersvc.ListInput{
			Status:   c.Query("status"),
			Page:     intQuery(c, "page", 1),
			PageSize: intQuery(c, "pageSize", 0),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func orderStatsHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := orders.Stats(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
