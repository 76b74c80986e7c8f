package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// ListUsers returns all non-deleted users.
// GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListCoaches returns active coach-role users, for the commit-time coach
// selection dropdown.
// GET /api/users/coaches
func (h *Handler) ListCoaches(c *gin.Context) {
	coaches, err := h.store.ListCoaches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if coaches == nil {
		coaches = []model.User{}
	}
	c.JSON(http.StatusOK, gin.H{"coaches": coaches})
}
