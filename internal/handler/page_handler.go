package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var chatPage []byte

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", chatPage)
}
