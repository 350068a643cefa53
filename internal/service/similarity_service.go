package service

import (
	"context"
	"fmt"
	"strings"

	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
	"github.com/xxxsen/resumechat/internal/similarity"
)

// SimilarityService scores how well the resume matches a job description.
// The resume text is read through the shared holder so re-extraction is
// picked up immediately.
type SimilarityService struct {
	profile *ProfileHolder
}

func NewSimilarityService(profile *ProfileHolder) *SimilarityService {
	if profile == nil {
		profile = NewProfileHolder()
	}
	return &SimilarityService{profile: profile}
}

func (s *SimilarityService) Score(ctx context.Context, jobDescription string) (float64, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return 0, fmt.Errorf("%w: job description is required", appErr.ErrInvalid)
	}
	resumeText := s.profile.PlainText()
	if strings.TrimSpace(resumeText) == "" {
		return 0, fmt.Errorf("%w: no resume loaded", appErr.ErrNotFound)
	}
	return similarity.Score(resumeText, jobDescription), nil
}
