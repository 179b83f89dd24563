package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/pkg/session"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
	"github.com/gireesh-ai/portfolio/pkg/utils/json"
)

// fakeService records every call so tests can assert which backends a
// request touched.
type fakeService struct {
	askResult  *model.AskResult
	askErr     error
	chatReply  string
	verifyName string
	verifyErr  error
	sendErr    error
	resumeErr  error

	askCalls    int
	chatCalls   int
	sendCalls   int
	verifyCalls int
	resumeCalls int

	askDeadline    time.Time
	askHasDeadline bool
}

func (f *fakeService) Ask(ctx context.Context, _ string) (*model.AskResult, error) {
	f.askCalls++
	f.askDeadline, f.askHasDeadline = ctx.Deadline()
	return f.askResult, f.askErr
}

func (f *fakeService) Chat(_ context.Context, _ []llm.Message) string {
	f.chatCalls++
	return f.chatReply
}

func (f *fakeService) SendOTP(_ context.Context, _, _ string) error {
	f.sendCalls++
	return f.sendErr
}

func (f *fakeService) VerifyOTP(_ context.Context, _, _ string) (string, error) {
	f.verifyCalls++
	return f.verifyName, f.verifyErr
}

func (f *fakeService) RequestResume(_ context.Context, _, _ string) error {
	f.resumeCalls++
	return f.resumeErr
}

func (f *fakeService) Stats(_ context.Context) (map[string]any, error) {
	return map[string]any{"vector_count": int64(42)}, nil
}

func newTestRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc, session.NewManager(time.Hour, "", false), nil, 0)

	engine := gin.New()
	engine.GET("/healthz", h.Healthz)
	api := engine.Group("/api")
	api.POST("/ask", h.Ask)
	api.POST("/chat", h.Chat)
	api.GET("/me", h.Me)
	api.POST("/send-otp", h.SendOTP)
	api.POST("/verify-otp", h.VerifyOTP)
	api.POST("/resume-request", h.RequestResume)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func verifiedCookie(email string) *http.Cookie {
	return &http.Cookie{Name: session.CookieVerifiedUser, Value: email}
}

func TestAsk(t *testing.T) {
	svc := &fakeService{askResult: &model.AskResult{
		Answer:  "I build backends",
		Sources: []model.RetrievalMatch{{Index: 0, ID: "a", Score: 0.9}},
	}}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/ask", `{"question":"what do you do?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "I build backends", body["answer"])
	assert.Len(t, body["sources"], 1)
}

func TestAskUsesConfiguredTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{askResult: &model.AskResult{Answer: "a", Sources: []model.RetrievalMatch{}}}
	h := New(svc, session.NewManager(time.Hour, "", false), nil, 250*time.Millisecond)
	engine := gin.New()
	engine.POST("/api/ask", h.Ask)

	start := time.Now()
	w := doJSON(t, engine, http.MethodPost, "/api/ask", `{"question":"q"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.True(t, svc.askHasDeadline)
	assert.Greater(t, svc.askDeadline.Sub(start), time.Duration(0))
	assert.LessOrEqual(t, svc.askDeadline.Sub(start), 300*time.Millisecond)
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	for _, body := range []string{`{}`, `{"question":"   "}`, `not json`} {
		w := doJSON(t, engine, http.MethodPost, "/api/ask", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Equal(t, 0, svc.askCalls)
}

func TestAskPipelineError(t *testing.T) {
	svc := &fakeService{askErr: errors.ErrRetrievalFailed}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/ask", `{"question":"q"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to process your question", decodeBody(t, w)["error"])
}

func TestChatRequiresCookie(t *testing.T) {
	svc := &fakeService{chatReply: "should never appear"}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Unauthorized", body["error"])

	// the gate rejects before any backend is touched
	assert.Equal(t, 0, svc.chatCalls)
	assert.Equal(t, 0, svc.askCalls)
}

func TestChatVerified(t *testing.T) {
	svc := &fakeService{chatReply: "hello, I am Gireesh"}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/chat",
		`{"messages":[{"role":"user","content":"hi"}]}`,
		verifiedCookie("user@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "hello, I am Gireesh", body["reply"])
	assert.Equal(t, 1, svc.chatCalls)
}

func TestChatNoUsableMessage(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	bodies := []string{
		`{"messages":[]}`,
		`{}`,
		`{"messages":[{"role":"assistant","content":"hi"}]}`,
		`{"messages":[{"role":"user","content":"   "}]}`,
	}
	for _, body := range bodies {
		w := doJSON(t, engine, http.MethodPost, "/api/chat", body, verifiedCookie("u@e.c"))
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		assert.Equal(t, "No message provided", decodeBody(t, w)["error"])
	}
	assert.Equal(t, 0, svc.chatCalls)
}

func TestSendOTP(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/send-otp", `{"email":"a@b.c","name":"Alice"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])
	assert.Equal(t, 1, svc.sendCalls)
}

func TestSendOTPValidation(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	for _, body := range []string{`{}`, `{"email":"not-an-email"}`, `{"name":"Alice"}`} {
		w := doJSON(t, engine, http.MethodPost, "/api/send-otp", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		assert.Equal(t, false, decodeBody(t, w)["ok"])
	}

	// rejected before the store or a mail provider is called
	assert.Equal(t, 0, svc.sendCalls)
}

func TestSendOTPMailFailure(t *testing.T) {
	svc := &fakeService{sendErr: errors.ErrMailDelivery}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/send-otp", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["ok"])
	assert.Equal(t, "Failed to send email", decodeBody(t, w)["error"])
}

func TestVerifyOTPSetsCookies(t *testing.T) {
	svc := &fakeService{verifyName: "Alice"}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/verify-otp", `{"email":"User@B.C","otp":"123456"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])

	cookies := w.Result().Cookies()
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}

	user := byName[session.CookieVerifiedUser]
	require.NotNil(t, user)
	assert.Equal(t, "user@b.c", user.Value)
	assert.True(t, user.HttpOnly)
	assert.Equal(t, 3600, user.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, user.SameSite)

	name := byName[session.CookieVerifiedName]
	require.NotNil(t, name)
	assert.Equal(t, "Alice", name.Value)
}

func TestVerifyOTPInvalidCode(t *testing.T) {
	svc := &fakeService{verifyErr: errors.ErrInvalidOTP}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/verify-otp", `{"email":"a@b.c","otp":"123456"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Invalid or expired code", body["error"])
	assert.Empty(t, w.Result().Cookies())
}

func TestVerifyOTPMalformedCode(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	for _, body := range []string{
		`{"email":"a@b.c","otp":"12345"}`,
		`{"email":"a@b.c","otp":"1234567"}`,
		`{"email":"a@b.c","otp":"12345a"}`,
		`{"email":"a@b.c"}`,
	} {
		w := doJSON(t, engine, http.MethodPost, "/api/verify-otp", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
	assert.Equal(t, 0, svc.verifyCalls)
}

func TestMe(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodGet, "/api/me", "",
		verifiedCookie("user@example.com"),
		&http.Cookie{Name: session.CookieVerifiedName, Value: "Alice"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "user@example.com", body["email"])
	assert.Equal(t, "Alice", body["name"])
}

func TestMeUnverified(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodGet, "/api/me", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Nil(t, body["email"])
	assert.Nil(t, body["name"])
}

func TestRequestResume(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/resume-request", `{"name":"Alice","email":"a@b.c"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])
	assert.Equal(t, 1, svc.resumeCalls)
}

func TestRequestResumeValidation(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	for _, body := range []string{
		`{"name":"A","email":"a@b.c"}`,
		`{"name":"Alice"}`,
		`{"name":"Alice","email":"nope"}`,
	} {
		w := doJSON(t, engine, http.MethodPost, "/api/resume-request", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
	assert.Equal(t, 0, svc.resumeCalls)
}

func TestHealthz(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
}
