package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware создает middleware для CORS
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Разрешаем запросы с любого источника
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")

		// Методы API виджета
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"GET, POST, PATCH, DELETE, OPTIONS")

		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Origin, Content-Type, Content-Length, Accept, X-Requested-With")

		// Разрешаем кеширование preflight запросов (OPTIONS)
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		// Если это OPTIONS запрос (preflight), сразу отвечаем
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
