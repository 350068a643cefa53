package job

import (
	"context"
	"time"

	"github.com/xxxsen/resumechat/internal/repo"
)

type ChatLogCleanupJob struct {
	repo     *repo.ChatLogRepo
	keepDays int
}

func NewChatLogCleanupJob(repo *repo.ChatLogRepo, keepDays int) *ChatLogCleanupJob {
	return &ChatLogCleanupJob{repo: repo, keepDays: keepDays}
}

func (j *ChatLogCleanupJob) Name() string {
	return "chat_log_cleanup"
}

func (j *ChatLogCleanupJob) Run(ctx context.Context) error {
	if j.repo == nil {
		return nil
	}
	keepDays := j.keepDays
	if keepDays <= 0 {
		keepDays = 30
	}
	cutoff := time.Now().Add(-time.Duration(keepDays) * 24 * time.Hour).UnixMilli()
	_, err := j.repo.PurgeBefore(ctx, cutoff)
	return err
}
