package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/resumechat/internal/model"
)

type ChatLogRepo struct {
	db *sqlx.DB
}

func NewChatLogRepo(db *sql.DB) *ChatLogRepo {
	return &ChatLogRepo{db: sqlx.NewDb(db, "sqlite")}
}

func (r *ChatLogRepo) Create(ctx context.Context, log *model.ChatLog) error {
	data := map[string]interface{}{
		"id":          log.ID,
		"question":    log.Question,
		"answer":      log.Answer,
		"exact_match": log.ExactMatch,
		"latency_ms":  log.LatencyMs,
		"ctime":       log.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("chat_logs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ChatLogRepo) ListRecent(ctx context.Context, limit int) ([]model.ChatLog, error) {
	if limit <= 0 {
		limit = 50
	}
	logs := make([]model.ChatLog, 0)
	err := r.db.SelectContext(ctx, &logs,
		"SELECT id, question, answer, exact_match, latency_ms, ctime FROM chat_logs ORDER BY ctime DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *ChatLogRepo) ListByIDs(ctx context.Context, ids []string) ([]model.ChatLog, error) {
	if len(ids) == 0 {
		return []model.ChatLog{}, nil
	}
	query, args, err := sqlx.In(
		"SELECT id, question, answer, exact_match, latency_ms, ctime FROM chat_logs WHERE id IN (?) ORDER BY ctime DESC", ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)
	logs := make([]model.ChatLog, 0)
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, err
	}
	return logs, nil
}

// PurgeBefore deletes chat logs created before the cutoff and reports how
// many rows went away.
func (r *ChatLogRepo) PurgeBefore(ctx context.Context, cutoff int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM chat_logs WHERE ctime < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
