package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/resumechat/internal/model"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
	"github.com/xxxsen/resumechat/internal/repo"
)

type stubAnswerer struct {
	answer string
	err    error
	calls  int
}

func (s *stubAnswerer) Answer(ctx context.Context, question string, resumeText string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func profileHolderForTest(text string) *ProfileHolder {
	holder := NewProfileHolder()
	holder.Update(&model.ResumeProfile{Text: text, Skills: text})
	return holder
}

func newChatLogRepoForTest(t *testing.T) *repo.ChatLogRepo {
	db, err := repo.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })
	return repo.NewChatLogRepo(db)
}

func newChatServiceForTest(stub *stubAnswerer) *ChatService {
	pairs := []model.QAPair{
		{Question: "Who is the candidate?", Answer: "John Smith, a data engineer."},
	}
	return NewChatService(stub, nil, profileHolderForTest("john smith data engineer at acme"), pairs, 100)
}

func TestChatService_ExactMatchSkipsModel(t *testing.T) {
	stub := &stubAnswerer{answer: "model answer"}
	svc := newChatServiceForTest(stub)

	reply, err := svc.Ask(context.Background(), "  WHO is   the candidate? ")
	require.NoError(t, err)
	require.True(t, reply.ExactMatch)
	require.Equal(t, "John Smith, a data engineer.", reply.Answer)
	require.Zero(t, stub.calls)
}

func TestChatService_ModelFallbackAndCache(t *testing.T) {
	stub := &stubAnswerer{answer: "he worked at acme"}
	svc := newChatServiceForTest(stub)

	reply, err := svc.Ask(context.Background(), "Where did he work?")
	require.NoError(t, err)
	require.False(t, reply.ExactMatch)
	require.Equal(t, "he worked at acme", reply.Answer)
	require.Equal(t, 1, stub.calls)

	// same question again comes from the cache
	reply, err = svc.Ask(context.Background(), "where did he WORK?")
	require.NoError(t, err)
	require.Equal(t, "he worked at acme", reply.Answer)
	require.Equal(t, 1, stub.calls)
}

func TestChatService_EmptyQuestion(t *testing.T) {
	svc := newChatServiceForTest(&stubAnswerer{})
	_, err := svc.Ask(context.Background(), "   ")
	require.ErrorIs(t, err, appErr.ErrEmptyQuestion)
}

func TestChatService_QuestionTooLong(t *testing.T) {
	svc := newChatServiceForTest(&stubAnswerer{})
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.Ask(context.Background(), string(long))
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestChatService_ModelError(t *testing.T) {
	boom := errors.New("boom")
	svc := newChatServiceForTest(&stubAnswerer{err: boom})
	_, err := svc.Ask(context.Background(), "Where did he work?")
	require.ErrorIs(t, err, boom)
}

func TestChatService_CacheHitRecorded(t *testing.T) {
	stub := &stubAnswerer{answer: "he worked at acme"}
	logs := newChatLogRepoForTest(t)
	svc := NewChatService(stub, logs, profileHolderForTest("john smith data engineer at acme"), nil, 100)

	_, err := svc.Ask(context.Background(), "Where did he work?")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "where did he WORK?")
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestChatService_SeesReextractedProfile(t *testing.T) {
	holder := NewProfileHolder()
	svc := NewChatService(&stubAnswerer{answer: "an answer"}, nil, holder, nil, 100)

	_, err := svc.Ask(context.Background(), "who is this?")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	holder.Update(&model.ResumeProfile{Text: "john smith", Skills: "john smith"})
	reply, err := svc.Ask(context.Background(), "who is this?")
	require.NoError(t, err)
	require.Equal(t, "an answer", reply.Answer)
}

func TestSimilarityService(t *testing.T) {
	svc := NewSimilarityService(profileHolderForTest("golang developer with sqlite experience"))
	score, err := svc.Score(context.Background(), "golang developer with sqlite experience")
	require.NoError(t, err)
	require.InDelta(t, 100.0, score, 0.01)

	_, err = svc.Score(context.Background(), "  ")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestSimilarityService_SeesReextractedProfile(t *testing.T) {
	holder := NewProfileHolder()
	svc := NewSimilarityService(holder)

	_, err := svc.Score(context.Background(), "golang developer")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	holder.Update(&model.ResumeProfile{Text: "golang developer"})
	score, err := svc.Score(context.Background(), "golang developer")
	require.NoError(t, err)
	require.InDelta(t, 100.0, score, 0.01)
}
