package handler

import (
	"errors"
	"io/fs"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/resumechat/internal/ai"
	"github.com/xxxsen/resumechat/internal/pkg/errcode"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
	"github.com/xxxsen/resumechat/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrEmptyQuestion):
		response.Error(c, errcode.ErrEmptyQuestion, "question is required")
	case errors.Is(err, ai.ErrUnavailable):
		response.Error(c, errcode.ErrModelUnavailable, "model is not available yet")
	case errors.Is(err, appErr.ErrNoArtifact):
		response.Error(c, errcode.ErrTrainingFailed, "training produced no artifact")
	case errors.Is(err, appErr.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
