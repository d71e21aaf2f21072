package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/services"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
	"github.com/taskdeck/taskdeck/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserKey   = "authUser"
)

// Auth enforces bearer-token authentication. A missing header fails distinctly
// from a bad token, and the user row is re-read on every request so a deleted
// account cannot keep using a live token.
func Auth(jwt *iauth.JWTService, accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := strings.TrimSpace(c.GetHeader("Authorization"))
		if authz == "" {
			response.Error(c, apperrors.ErrTokenRequired)
			c.Abort()
			return
		}

		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, apperrors.ErrTokenInvalid)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			if errors.Is(err, iauth.ErrTokenExpired) {
				response.Error(c, apperrors.ErrTokenExpired)
			} else {
				response.Error(c, apperrors.ErrTokenInvalid)
			}
			c.Abort()
			return
		}

		user, err := accounts.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserKey, user)

		c.Next()
	}
}
