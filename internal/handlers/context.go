package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/models"
)

// currentUser returns the authenticated user placed in the context by the auth
// middleware. The boolean is false only when a route was wired without it.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// parseIDParam extracts a numeric path parameter such as the task id.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
