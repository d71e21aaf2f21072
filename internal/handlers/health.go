package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// Health returns a simple status payload useful for readiness checks,
// including a database ping.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, apperrors.Wrap(err, "database unreachable"))
			return
		}

		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
