package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopapi/internal/domain"
	"shopapi/internal/metrics"
	ordersvc "shopapi/internal/service/order"
	productsvc "shopapi/internal/service/product"
	suppliersvc "shopapi/internal/service/supplier"
	usersvc "shopapi/internal/service/user"
)

// UserService is the slice of the user service the handlers need.
type UserService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

// ProductService covers the catalog operations exposed over HTTP.
type ProductService interface {
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, id string, quantity int) (bool, error)
	Restock(ctx context.Context, id string, quantity int) (*domain.Product, error)
}

// SupplierService covers the supplier admin operations.
type SupplierService interface {
	Create(ctx context.Context, in suppliersvc.CreateInput) (*domain.Supplier, error)
	Get(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, id string, in suppliersvc.UpdateInput) (*domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// CartService covers the cart operations plus the login-time migration.
type CartService interface {
	AddItem(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error)
	GetItems(ctx context.Context, owner domain.Owner) (*domain.CartSummary, error)
	UpdateItemQuantity(ctx context.Context, owner domain.Owner, productID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, owner domain.Owner, productID string) error
	ClearCart(ctx context.Context, owner domain.Owner) (int64, error)
	MigrateSessionCart(ctx context.Context, sessionID, userID string) (int64, error)
	CleanupOldCarts(ctx context.Context, daysOld int) (int64, error)
}

// OrderService covers checkout and the order lifecycle.
type OrderService interface {
	CreateFromCart(ctx context.Context, userID string, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, error)
	ListAll(ctx context.Context, in ordersvc.ListInput) (*ordersvc.ListResult, error)
	UpdateStatus(ctx context.Context, actor *domain.User, orderID, target string) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

// Deps carries the services the router wires into handlers.
type Deps struct {
	UserSvc     UserService
	ProductSvc  ProductService
	SupplierSvc SupplierService
	CartSvc     CartService
	OrderSvc    OrderService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.UserSvc == nil || deps.ProductSvc == nil || deps.SupplierSvc == nil || deps.CartSvc == nil || deps.OrderSvc == nil {
		return nil, errors.New("httpserver: all services are required")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:    []string{"Authorization", "Content-Type", sessionHeader},
		ExposeHeaders:   []string{sessionHeader},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	identity := identityMiddleware(deps.UserSvc)

	auth := router.Group("/auth")
	{
		auth.POST("/register", registerHandler(deps.UserSvc))
		auth.POST("/login", loginHandler(deps.UserSvc, deps.CartSvc, logger))
		auth.GET("/me", identity, requireUser(), meHandler())
	}

	products := router.Group("/products")
	{
		products.GET("", listProductsHandler(deps.ProductSvc, false))
		products.GET("/:id", getProductHandler(deps.ProductSvc))
		products.GET("/:id/availability", checkAvailabilityHandler(deps.ProductSvc))
	}

	cart := router.Group("/cart", identity)
	{
		cart.GET("", getCartHandler(deps.CartSvc))
		cart.POST("/items", addCartItemHandler(deps.CartSvc))
		cart.PUT("/items/:productId", updateCartItemHandler(deps.CartSvc))
		cart.DELETE("/items/:productId", removeCartItemHandler(deps.CartSvc))
		cart.DELETE("", clearCartHandler(deps.CartSvc))
	}

	orders := router.Group("/orders", identity, requireUser())
	{
		orders.POST("", createOrderHandler(deps.OrderSvc))
		orders.GET("", listMyOrdersHandler(deps.OrderSvc))
		orders.GET("/:id", getOrderHandler(deps.OrderSvc))
		orders.POST("/:id/cancel", cancelOrderHandler(deps.OrderSvc))
	}

	admin := router.Group("/admin", identity, requireUser(), requireAdmin())
	{
		admin.GET("/products", listProductsHandler(deps.ProductSvc, true))
		admin.POST("/products", createProductHandler(deps.ProductSvc))
		admin.PUT("/products/:id", updateProductHandler(deps.ProductSvc))
		admin.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc))
		admin.POST("/products/:id/stock", restockProductHandler(deps.ProductSvc))

		admin.GET("/suppliers", listSuppliersHandler(deps.SupplierSvc))
		admin.POST("/suppliers", createSupplierHandler(deps.SupplierSvc))
		admin.GET("/suppliers/:id", getSupplierHandler(deps.SupplierSvc))
		admin.PUT("/suppliers/:id", updateSupplierHandler(deps.SupplierSvc))
		admin.DELETE("/suppliers/:id", deleteSupplierHandler(deps.SupplierSvc))

		admin.GET("/orders", listAllOrdersHandler(deps.OrderSvc))
		admin.GET("/orders/stats", orderStatsHandler(deps.OrderSvc))
		admin.PUT("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
		admin.POST("/maintenance/cart-cleanup", cleanupCartsHandler(deps.CartSvc))
	}

	return router, nil
}
