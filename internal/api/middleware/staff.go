package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/devisgym/gym_go_server/internal/pkg/response"
	"github.com/devisgym/gym_go_server/internal/repository"
)

// Staff 员工权限中间件，必须挂在 Auth 之后
func Staff(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "请先登录")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			response.AuthError(c, "用户不存在")
			c.Abort()
			return
		}

		if !user.IsStaff {
			response.PermissionError(c, "需要员工权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
