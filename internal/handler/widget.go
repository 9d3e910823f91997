package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var widgetPage []byte

// Widget отдаёт страницу виджета
func Widget(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", widgetPage)
}
