package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/resumechat/internal/config"
	"github.com/xxxsen/resumechat/internal/filestore"
	"github.com/xxxsen/resumechat/internal/model"
	"github.com/xxxsen/resumechat/internal/repo"
	"github.com/xxxsen/resumechat/internal/service"
	"github.com/xxxsen/resumechat/internal/trainer"
)

type fixedAnswerer struct {
	answer string
}

func (f *fixedAnswerer) Answer(ctx context.Context, question string, resumeText string) (string, error) {
	return f.answer, nil
}

type fixedTrainer struct{}

func (fixedTrainer) Name() string { return "fixed" }

func (fixedTrainer) Train(ctx context.Context, req *trainer.Request) (*trainer.Result, error) {
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, err
	}
	return &trainer.Result{ArtifactPath: req.OutputDir}, nil
}

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := repo.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })

	store, err := filestore.New(config.StoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	})
	require.NoError(t, err)

	pipeline := config.PipelineConfig{
		DataDir:     dir,
		ModelsDir:   filepath.Join(dir, "models"),
		QAPath:      filepath.Join(dir, "qa_data.json"),
		ProfileFile: "resume_data.json",
		DatasetFile: "fine_tuning_data.json",
		BaseModel:   "bert-base-uncased",
	}
	datasets := service.NewDatasetService(pipeline)
	extracts := service.NewExtractService(store)
	training := service.NewTrainingService(repo.NewTrainingRunRepo(db), fixedTrainer{}, datasets, pipeline.BaseModel)

	profiles := service.NewProfileHolder()
	profiles.Update(&model.ResumeProfile{
		Text:   "john smith data engineer",
		Skills: "john smith data engineer",
	})
	pairs := []model.QAPair{{Question: "Who is the candidate?", Answer: "John Smith"}}
	chat := service.NewChatService(&fixedAnswerer{answer: "model says hi"}, repo.NewChatLogRepo(db), profiles, pairs, 2000)
	similarity := service.NewSimilarityService(profiles)

	engine := gin.New()
	RegisterRoutes(&engine.RouterGroup, RouterDeps{
		Page:       NewPageHandler(),
		Chat:       NewChatHandler(chat),
		Similarity: NewSimilarityHandler(similarity),
		Resumes:    NewResumeHandler(extracts, datasets, profiles),
		Runs:       NewRunHandler(training),
		Version:    NewVersionHandler(),
	})
	return engine
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestIndexPage(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Resume Chat")
}

func TestChatAsk_ExactMatch(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": "who is the candidate?"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "John Smith")
}

func TestChatAsk_ModelAnswer(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": "anything else?"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "model says hi")
}

func TestChatAsk_EmptyQuestion(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": "  "})
	require.Contains(t, rec.Body.String(), "question is required")
}

func TestSimilarityScore(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/similarity", gin.H{"job_description": "john smith data engineer"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "100")
}

func TestResumeUploadAndList(t *testing.T) {
	router := setupRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "cv.pdf")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/resumes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "cv.pdf")
}

func TestResumeUpload_RejectsNonPDF(t *testing.T) {
	router := setupRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "cv.docx")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a pdf"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Contains(t, rec.Body.String(), "pdf")
}

func TestRunsListEmpty(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRunGet_Missing(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/runs/absent", nil)
	require.Contains(t, rec.Body.String(), "not found")
}
