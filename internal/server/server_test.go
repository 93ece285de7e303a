package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/builder"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/pdftext"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var fakePDF = []byte("%PDF-1.4 fake resume")

type fakeAnalyzer struct {
	last analysis.Request
	err  error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req analysis.Request) (*analysis.Result, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &analysis.Result{
		AnalysisResult: types.AnalysisResult{MatchScore: 81, ModelUsed: "fake/model"},
		Provider:       llm.ViaPrimary,
	}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type testServer struct {
	*Server
	analyzer *fakeAnalyzer
	store    *db.MemoryStore
	handler  http.Handler
}

func newTestServer(t *testing.T, rl *ratelimit.Config) *testServer {
	t.Helper()
	templates, err := rendering.NewRegistry("")
	require.NoError(t, err)
	store := db.NewMemoryStore()
	b := builder.NewService(store, templates)
	b.Profiles = store
	b.Resumes = store
	b.Logger = zerolog.Nop()

	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	an := &fakeAnalyzer{}
	s := New(Config{MaxUploadBytes: 1 << 10, RateLimit: rl}, Deps{Analyzer: an, Metadata: store, Builder: b})
	s.logger = zerolog.Nop()
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, analyzer: an, store: store, handler: s.Handler()}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileType string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="resume"; filename="jane.pdf"`)
		h.Set("Content-Type", fileType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := httptest.NewRecorder()
	ts.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	ts.health = fakePinger{err: errors.New("connection refused")}
	w = httptest.NewRecorder()
	ts.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnalyze_Multipart(t *testing.T) {
	ts := newTestServer(t, nil)
	req := multipartRequest(t, "/analyze", map[string]string{"job_text": "Go and Kubernetes", "user_id": "u1"}, "application/pdf", fakePDF)

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 81, body["matchScore"])
	assert.Equal(t, "primary", body["provider"])

	assert.Equal(t, fakePDF, ts.analyzer.last.Resume)
	assert.Equal(t, "jane.pdf", ts.analyzer.last.FileName)
	assert.Equal(t, "u1", ts.analyzer.last.UserID)
	assert.Equal(t, "Go and Kubernetes", ts.analyzer.last.Job.JobText)
}

func TestAnalyze_JSONBase64(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/analyze", AnalyzeJSONRequest{
		ResumeBase64: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(fakePDF),
		FileName:     "cv.pdf",
		JobURL:       "https://jobs.example.com/42",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, fakePDF, ts.analyzer.last.Resume)
	assert.Equal(t, "https://jobs.example.com/42", ts.analyzer.last.Job.JobURL)
}

func TestAnalyze_CacheIDWithoutFile(t *testing.T) {
	ts := newTestServer(t, nil)
	id := "0b8e2c1a-6d7e-4f3b-9a51-3c2d1e0f9a8b"
	req := multipartRequest(t, "/analyze", map[string]string{"resume_cache_id": id, "job_id": "42"}, "", nil)

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ts.analyzer.last.Resume)
	assert.Equal(t, id, ts.analyzer.last.ResumeCacheID)
}

func TestAnalyze_RejectedUploads(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"non-pdf part", func(t *testing.T) *http.Request {
			return multipartRequest(t, "/analyze", map[string]string{"job_text": "Go"}, "text/plain", fakePDF)
		}},
		{"too large", func(t *testing.T) *http.Request {
			big := append([]byte("%PDF-1.4 "), bytes.Repeat([]byte("x"), 4<<10)...)
			return multipartRequest(t, "/analyze", map[string]string{"job_text": "Go"}, "application/pdf", big)
		}},
		{"unsupported body type", func(t *testing.T) *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("hello"))
			req.Header.Set("Content-Type", "text/plain")
			return req
		}},
		{"bad base64", func(t *testing.T) *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"resume_base64":"***","job_text":"Go"}`))
			req.Header.Set("Content-Type", "application/json")
			return req
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			w := httptest.NewRecorder()
			ts.handler.ServeHTTP(w, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation", decodeBody[ErrorResponse](t, w).Kind)
		})
	}
}

func TestAnalyze_ErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.New(apperr.KindUnextractableContent, "paste the job text instead"), http.StatusBadRequest},
		{apperr.New(apperr.KindNotFound, "job 42 not found"), http.StatusNotFound},
		{apperr.New(apperr.KindUpstreamUnavailable, "try again later"), http.StatusServiceUnavailable},
		{apperr.New(apperr.KindMalformedResponse, "bad model reply"), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(apperr.KindOf(tt.err)), func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.analyzer.err = tt.err

			w := ts.do(t, http.MethodPost, "/analyze", AnalyzeJSONRequest{JobText: "Go", ResumeBase64: base64.StdEncoding.EncodeToString(fakePDF)})

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, apperr.Message(tt.err), decodeBody[ErrorResponse](t, w).Error)
		})
	}
}

type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, []byte) (*pdftext.Result, error) {
	return &pdftext.Result{Text: "Jane Smith\njane@mail.com", Pages: 1}, nil
}

type stubResolver struct{}

func (stubResolver) Resolve(context.Context, jobsource.Request) (*types.JobContent, error) {
	return &types.JobContent{Title: "Engineer", Description: "Go"}, nil
}

type stubScorer struct{}

func (stubScorer) ScoreResume(context.Context, types.JobContent, string) (llm.Tagged[*types.AnalysisResult], error) {
	return llm.Tagged[*types.AnalysisResult]{Via: llm.ViaPrimary, Value: &types.AnalysisResult{MatchScore: 64}}, nil
}

func TestAnalyzeStream(t *testing.T) {
	ts := newTestServer(t, nil)
	svc := analysis.NewService(stubExtractor{}, stubResolver{}, stubScorer{}, nil, time.Second)
	svc.Logger = zerolog.Nop()
	ts.Server.analyzer = svc

	w := ts.do(t, http.MethodPost, "/analyze/stream", AnalyzeJSONRequest{
		JobText:      "Go",
		ResumeBase64: base64.StdEncoding.EncodeToString(fakePDF),
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: progress\ndata: {\"step\":\"scored\"}")
	assert.Contains(t, body, "event: result\n")
	assert.True(t, strings.HasPrefix(body, "id: 1\nevent: progress"), body)
	assert.Contains(t, body, `"matchScore":64`)
}

func TestGetMetadata(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/resume-metadata/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/resume-metadata/0b8e2c1a-6d7e-4f3b-9a51-3c2d1e0f9a8b", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	email := "jane@mail.com"
	id, err := ts.store.UpsertByEmail(context.Background(), db.MetadataUpsert{ParsedText: "Jane", Score: 70, Extracted: personalWithEmail(email)})
	require.NoError(t, err)
	w = ts.do(t, http.MethodGet, "/resume-metadata/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, email, *decodeBody[types.ResumeMetadata](t, w).Email)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, &ratelimit.Config{
		Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute,
		Rules: []ratelimit.Rule{{Pattern: "/assist/bullets", Method: "POST", Limit: 1, Window: time.Hour}},
	})

	w := ts.do(t, http.MethodPost, "/assist/bullets", types.BulletsRequest{Bullets: []string{"x"}})
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = ts.do(t, http.MethodPost, "/assist/bullets", types.BulletsRequest{Bullets: []string{"x"}})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
