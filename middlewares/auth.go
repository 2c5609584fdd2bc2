// file: middlewares/auth.go
package middlewares

import (
	"net/http"
	"strings"

	"CYBERCOM/utils"
	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware 验证平台签发的 Bearer Token。
// 登录与会话管理在平台本体，这里只做令牌校验。
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(c, 4001, "请求头中 Authorization 为空")
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			utils.Error(c, 4002, "Authorization 格式有误")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(secret, parts[1])
		if err != nil {
			utils.Error(c, 4003, "无效的 Token")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// AdminOnlyMiddleware 嫌疑情报与审核接口仅管理员可见
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleAny, exists := c.Get("user_role")
		if !exists {
			utils.Error(c, 5001, "无法获取用户角色信息")
			c.Abort()
			return
		}
		if roleAny.(utils.UserRole) != utils.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"code": 4003, "msg": "权限不足"})
			c.Abort()
			return
		}
		c.Next()
	}
}
