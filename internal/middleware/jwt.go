package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/urbannest/urbannest/dao/model"
	"github.com/urbannest/urbannest/dao/query"
	"github.com/urbannest/urbannest/internal/resputil"
	"github.com/urbannest/urbannest/internal/util"
)

func AuthProtected() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		t := strings.Split(authHeader, " ")
		if len(t) < 2 || t[0] != "Bearer" {
			resputil.HTTPError(c, http.StatusUnauthorized, "Invalid token", resputil.TokenInvalid)
			c.Abort()
			return
		}

		authToken := t[1]
		token, err := util.GetTokenMgr().CheckToken(authToken)
		if err != nil {
			resputil.HTTPError(c, http.StatusUnauthorized, err.Error(), resputil.TokenExpired)
			c.Abort()
			return
		}

		// Mutating requests re-check the role against the database so a
		// stale token cannot outlive a role change or deactivation.
		if c.Request.Method != http.MethodGet {
			var user model.User
			if err := query.GetDB().WithContext(c).
				First(&user, token.UserID).Error; err != nil {
				resputil.HTTPError(c, http.StatusUnauthorized, "User not found", resputil.TokenInvalid)
				c.Abort()
				return
			}
			if user.Status != model.StatusActive {
				resputil.HTTPError(c, http.StatusUnauthorized, "User not active", resputil.TokenInvalid)
				c.Abort()
				return
			}
			if user.Role != token.Role {
				resputil.HTTPError(c, http.StatusUnauthorized, "Role not match", resputil.TokenInvalid)
				c.Abort()
				return
			}
		}

		util.SetJWTContext(c, token)
		c.Next()
	}
}

// AuthBuilder gates builder-only routes. It runs after AuthProtected.
func AuthBuilder() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.GetToken(c)
		if token.Role != model.RoleBuilder && token.Role != model.RoleAdmin {
			resputil.HTTPError(c, http.StatusForbidden, "Builder account required", resputil.UserNotAllowed)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthAdmin gates admin-only routes. It runs after AuthProtected.
func AuthAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.GetToken(c)
		if token.Role != model.RoleAdmin {
			resputil.HTTPError(c, http.StatusForbidden, "Not Admin", resputil.UserNotAllowed)
			c.Abort()
			return
		}
		c.Next()
	}
}
