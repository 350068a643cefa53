package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/resumechat/internal/pkg/response"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

type VersionHandler struct{}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

func (h *VersionHandler) Get(c *gin.Context) {
	response.Success(c, gin.H{
		"version":    Version,
		"build_time": BuildTime,
	})
}

func (h *VersionHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
