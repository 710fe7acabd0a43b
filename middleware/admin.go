package middleware

import (
	"net/http"

	"cashlog/database"
	"cashlog/repository"

	"github.com/gin-gonic/gin"
)

// RequireAdmin 管理员接口校验，需在 JWTAuth 之后使用
// 账号被停用或不是管理员时返回 403
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			unauthorized(c, "login required")
			return
		}

		user, err := repository.NewUserRepository(database.DB).Get(c.Request.Context(), userID)
		if err != nil {
			unauthorized(c, "user not found")
			return
		}

		if !user.IsAdmin || !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
