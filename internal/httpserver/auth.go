package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	usersvc "shopapi/internal/service/user"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User              any    `json:"user"`
	AccessToken       string `json:"accessToken"`
	RefreshToken      string `json:"refreshToken"`
	ExpiresIn         int    `json:"expiresIn"`
	MigratedCartLines int64  `json:"migratedCartLines"`
}

func registerHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, err := users.Register(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// loginHandler authenticates and, when the client carried an anonymous
// session token, folds that session's cart into the user's cart.
func loginHandler(users UserService, carts CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password are required")
			return
		}
		u, access, refresh, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}

		var migrated int64
		if session := strings.TrimSpace(c.GetHeader(sessionHeader)); session != "" {
			migrated, err = carts.MigrateSessionCart(c.Request.Context(), session, u.ID)
			if err != nil {
				// Login already succeeded; a failed migration must not undo it.
				logger.Printf("cart migration failed for user %s: %v", u.ID, err)
				migrated = 0
			}
		}

		c.JSON(http.StatusOK, loginResponse{
			User:              u,
			AccessToken:       access,
			RefreshToken:      refresh,
			ExpiresIn:         users.AccessTTLSeconds(),
			MigratedCartLines: migrated,
		})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentUser(c))
	}
}
