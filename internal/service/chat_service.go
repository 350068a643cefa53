package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/resumechat/internal/ai"
	"github.com/xxxsen/resumechat/internal/model"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
	"github.com/xxxsen/resumechat/internal/repo"
)

var questionSpaceRe = regexp.MustCompile(`\s+`)

// ChatAnswer is the reply to one question.
type ChatAnswer struct {
	Answer     string `json:"answer"`
	ExactMatch bool   `json:"exact_match"`
	LatencyMs  int64  `json:"latency_ms"`
}

// ChatService answers questions about the resume. Questions matching an
// authored QA pair are answered verbatim without touching the model.
type ChatService struct {
	answerer    ai.IAnswerer
	logs        *repo.ChatLogRepo
	profile     *ProfileHolder
	authored    map[string]string
	cache       *expirable.LRU[string, string]
	maxQuestion int
}

func NewChatService(answerer ai.IAnswerer, logs *repo.ChatLogRepo, profile *ProfileHolder, pairs []model.QAPair, maxQuestionChars int) *ChatService {
	authored := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key := normalizeQuestion(pair.Question)
		if key == "" {
			continue
		}
		authored[key] = pair.Answer
	}
	if maxQuestionChars <= 0 {
		maxQuestionChars = 2000
	}
	if profile == nil {
		profile = NewProfileHolder()
	}
	cache := expirable.NewLRU[string, string](1024, nil, 30*time.Minute)
	return &ChatService{
		answerer:    answerer,
		logs:        logs,
		profile:     profile,
		authored:    authored,
		cache:       cache,
		maxQuestion: maxQuestionChars,
	}
}

func normalizeQuestion(question string) string {
	return strings.TrimSpace(questionSpaceRe.ReplaceAllString(strings.ToLower(question), " "))
}

// Ask answers one question. Lookup order is authored pairs, then the
// answer cache, then the model.
func (s *ChatService) Ask(ctx context.Context, question string) (*ChatAnswer, error) {
	key := normalizeQuestion(question)
	if key == "" {
		return nil, appErr.ErrEmptyQuestion
	}
	if len(key) > s.maxQuestion {
		return nil, fmt.Errorf("%w: question exceeds %d characters", appErr.ErrInvalid, s.maxQuestion)
	}
	resumeText := s.profile.QAContext()
	if strings.TrimSpace(resumeText) == "" && len(s.authored) == 0 {
		return nil, fmt.Errorf("%w: no resume loaded", appErr.ErrNotFound)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("question", key))
	start := time.Now()

	if answer, ok := s.authored[key]; ok {
		reply := s.record(ctx, key, answer, true, start)
		logger.Debug("answered from authored pairs")
		return reply, nil
	}
	if answer, ok := s.cache.Get(key); ok {
		logger.Debug("answered from cache")
		return s.record(ctx, key, answer, false, start), nil
	}

	answer, err := s.answerer.Answer(ctx, question, resumeText)
	if err != nil {
		logger.Error("model answer failed", zap.Error(err))
		return nil, err
	}
	s.cache.Add(key, answer)
	reply := s.record(ctx, key, answer, false, start)
	return reply, nil
}

func (s *ChatService) record(ctx context.Context, question, answer string, exact bool, start time.Time) *ChatAnswer {
	latency := time.Since(start).Milliseconds()
	exactFlag := 0
	if exact {
		exactFlag = 1
	}
	if s.logs != nil {
		log := &model.ChatLog{
			ID:         newID(),
			Question:   question,
			Answer:     answer,
			ExactMatch: exactFlag,
			LatencyMs:  latency,
			Ctime:      time.Now().UnixMilli(),
		}
		if err := s.logs.Create(ctx, log); err != nil {
			logutil.GetLogger(ctx).Error("failed to record chat log", zap.Error(err))
		}
	}
	return &ChatAnswer{Answer: answer, ExactMatch: exact, LatencyMs: latency}
}

func (s *ChatService) History(ctx context.Context, limit int) ([]model.ChatLog, error) {
	if s.logs == nil {
		return []model.ChatLog{}, nil
	}
	return s.logs.ListRecent(ctx, limit)
}
