package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/resumechat/internal/pkg/response"
	"github.com/xxxsen/resumechat/internal/service"
)

type RunHandler struct {
	training *service.TrainingService
}

func NewRunHandler(training *service.TrainingService) *RunHandler {
	return &RunHandler{training: training}
}

// Create kicks off a fine tuning run and waits for it to finish. Training
// a resume-sized dataset completes in minutes, so the call stays
// synchronous the way the rest of the pipeline does.
func (h *RunHandler) Create(c *gin.Context) {
	run, err := h.training.StartRun(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, run)
}

func (h *RunHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	runs, err := h.training.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, runs)
}

func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.training.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, run)
}
