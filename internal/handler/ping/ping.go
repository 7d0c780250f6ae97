package ping

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 健康检查
func Ping() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}
}
