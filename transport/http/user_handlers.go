package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tin21habesha/primetrade.ai-backend/service"
)

// UserHandlers serves the admin-only account endpoints.
type UserHandlers struct {
	users *service.UserService
}

// NewUserHandlers creates the user handlers.
func NewUserHandlers(users *service.UserService) *UserHandlers {
	return &UserHandlers{users: users}
}

// List returns every account summary.
func (h *UserHandlers) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// Get returns one account summary.
func (h *UserHandlers) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes an account and revokes its sessions.
func (h *UserHandlers) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
