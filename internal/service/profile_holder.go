package service

import (
	"sync"

	"github.com/xxxsen/resumechat/internal/dataset"
	"github.com/xxxsen/resumechat/internal/model"
)

// ProfileHolder is the shared view of the currently extracted resume.
// Chat and similarity read through it so a re-extraction over the api
// takes effect without a restart.
type ProfileHolder struct {
	mu        sync.RWMutex
	qaContext string
	plainText string
}

func NewProfileHolder() *ProfileHolder {
	return &ProfileHolder{}
}

func (h *ProfileHolder) Update(profile *model.ResumeProfile) {
	if profile == nil {
		return
	}
	qaContext := dataset.RenderContext(profile)
	h.mu.Lock()
	h.qaContext = qaContext
	h.plainText = profile.Text
	h.mu.Unlock()
}

// QAContext is the rendered profile the model answers against.
func (h *ProfileHolder) QAContext() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.qaContext
}

// PlainText is the preprocessed resume text used for similarity scoring.
func (h *ProfileHolder) PlainText() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.plainText
}
