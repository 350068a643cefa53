package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/resumechat/internal/pkg/errcode"
	"github.com/xxxsen/resumechat/internal/pkg/response"
	"github.com/xxxsen/resumechat/internal/service"
)

type SimilarityHandler struct {
	similarity *service.SimilarityService
}

func NewSimilarityHandler(similarity *service.SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{similarity: similarity}
}

type similarityRequest struct {
	JobDescription string `json:"job_description"`
}

func (h *SimilarityHandler) Score(c *gin.Context) {
	var req similarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	score, err := h.similarity.Score(c.Request.Context(), req.JobDescription)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"score": score})
}
