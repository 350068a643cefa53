package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/resumechat/internal/extract"
	"github.com/xxxsen/resumechat/internal/filestore"
	"github.com/xxxsen/resumechat/internal/model"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
)

// ExtractService pulls resume documents out of the document store and
// turns them into structured profiles.
type ExtractService struct {
	store filestore.Store
}

func NewExtractService(store filestore.Store) *ExtractService {
	return &ExtractService{store: store}
}

func (s *ExtractService) ListResumes(ctx context.Context) ([]string, error) {
	keys, err := s.store.List(ctx, ".pdf")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *ExtractService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := strings.TrimSpace(path.Base(filename))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: missing file name", appErr.ErrInvalid)
	}
	if !strings.EqualFold(path.Ext(name), ".pdf") {
		return "", fmt.Errorf("%w: only pdf resumes are accepted", appErr.ErrInvalid)
	}
	if err := s.store.Save(ctx, name, r); err != nil {
		return "", err
	}
	logutil.GetLogger(ctx).Info("resume uploaded", zap.String("key", name))
	return name, nil
}

// Extract reads one resume by key and builds its profile.
func (s *ExtractService) Extract(ctx context.Context, key string) (*model.ResumeProfile, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("key", key))
	reader, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	text, err := extract.PDFText(data)
	if err != nil {
		logger.Error("pdf text extraction failed", zap.Error(err))
		return nil, err
	}
	profile, err := extract.BuildProfile(key, text)
	if err != nil {
		logger.Error("profile build failed", zap.Error(err))
		return nil, err
	}
	logger.Info("resume extracted",
		zap.Int("education_entries", len(profile.Education)),
		zap.Int("experience_entries", len(profile.Experience)))
	return profile, nil
}

// ExtractFirst processes the first resume in the store. The pipeline is
// built around a single active resume.
func (s *ExtractService) ExtractFirst(ctx context.Context) (*model.ResumeProfile, error) {
	keys, err := s.ListResumes(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no resume document found", appErr.ErrNotFound)
	}
	return s.Extract(ctx, keys[0])
}
