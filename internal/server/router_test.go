package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/drizzlenote/chatbot/internal/chat"
	"github.com/drizzlenote/chatbot/internal/config"
	"github.com/drizzlenote/chatbot/internal/handler"
	"github.com/drizzlenote/chatbot/internal/limiter"
	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeExplainer struct{}

func (fakeExplainer) Explain(ctx context.Context, word string) (string, error) {
	switch word {
	case "broken":
		return "", errors.New("upstream timeout")
	case "hello there":
		return "Hello! Which word would you like to look up?", nil
	}
	return "Definition: the word " + word + ".", nil
}

type fakeTranslator struct{}

func (fakeTranslator) Translate(ctx context.Context, text string) (string, error) {
	return "정의: " + strings.TrimPrefix(text, "Definition: "), nil
}

type testApp struct {
	srv    *httptest.Server
	client *http.Client
	store  store.WordStore
}

type options struct {
	lookupsPerMinute int64
	imageDir         string
}

func newTestApp(t *testing.T, opts options) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	st := store.NewTranslatedStore(db, true)
	require.NoError(t, st.EnsureSchema(context.Background()))

	svc := chat.NewService(config.VariantTranslated, st, fakeExplainer{}, fakeTranslator{}, 100)
	sessions := session.NewMemoryStore(time.Hour)

	var rl *limiter.Limiter
	if opts.lookupsPerMinute > 0 {
		rl = limiter.NewLimiter(limiter.NewMemoryStorage(), opts.lookupsPerMinute)
	}

	r := NewRouter(Deps{
		Chat:       handler.NewChatHandler(svc, sessions, rl, "/img/drizzlenote.png"),
		Export:     handler.NewExportHandler(st),
		Sessions:   sessions,
		SessionTTL: time.Hour,
		ImageDir:   opts.imageDir,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{srv: srv, client: &http.Client{Jar: jar}, store: st}
}

func (a *testApp) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// post submits a form and follows the redirect back to the page.
func (a *testApp) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (a *testApp) submit(t *testing.T, word string) string {
	t.Helper()
	status, body := a.post(t, "/chat", url.Values{"prompt": {word}})
	require.Equal(t, http.StatusOK, status)
	return body
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, options{})

	status, body := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestIndex(t *testing.T) {
	app := newTestApp(t, options{})

	status, body := app.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, handler.PageTitle)
	assert.Contains(t, body, handler.InputPlaceholder)
	assert.Contains(t, body, `src="/img/drizzlenote.png"`)
	assert.NotContains(t, body, "뜻 보기")
}

func TestChat_SavesWordAndShowsHistory(t *testing.T) {
	app := newTestApp(t, options{})

	body := app.submit(t, "apple")
	assert.Contains(t, body, "Definition: the word apple.")
	assert.Contains(t, body, "🌐 한글 번역:")
	assert.Contains(t, body, "정의: the word apple.")
	assert.Contains(t, body, "&#39;apple&#39; 단어가 데이터베이스에 저장되었습니다.")

	n, err := app.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Notices are shown once, history stays.
	_, body = app.get(t, "/")
	assert.NotContains(t, body, "데이터베이스에 저장되었습니다")
	assert.Contains(t, body, "Definition: the word apple.")
}

func TestChat_RejectsNonEnglish(t *testing.T) {
	app := newTestApp(t, options{})

	body := app.submit(t, "사과")
	assert.Contains(t, body, handler.NoticeInvalidWord)
	assert.NotContains(t, body, `class="message user"`)

	n, err := app.store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChat_NotStoredWithoutDefinition(t *testing.T) {
	app := newTestApp(t, options{})

	body := app.submit(t, "hello there")
	assert.Contains(t, body, "Which word would you like to look up?")
	assert.NotContains(t, body, "데이터베이스에 저장되었습니다")

	n, err := app.store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChat_ProviderFaultShownNotStored(t *testing.T) {
	app := newTestApp(t, options{})

	body := app.submit(t, "broken")
	assert.Contains(t, body, chat.ProviderFaultPrefix+"upstream timeout")
	assert.Contains(t, body, chat.TranslationFaultText)

	n, err := app.store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReview_EmptyStore(t *testing.T) {
	app := newTestApp(t, options{})

	status, body := app.post(t, "/review", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, handler.NoticeNothingStored)
	assert.NotContains(t, body, "복습할 단어:")
}

func TestReview_SelectAndReveal(t *testing.T) {
	app := newTestApp(t, options{})
	app.submit(t, "apple")

	_, body := app.post(t, "/review", nil)
	assert.Contains(t, body, "복습할 단어: apple")
	assert.Contains(t, body, "뜻 보기")
	assert.NotContains(t, body, `<div class="meaning">`)

	_, body = app.post(t, "/review/reveal", nil)
	assert.Contains(t, body, "복습할 단어: apple")
	assert.NotContains(t, body, "뜻 보기")
	assert.Contains(t, body, `<div class="meaning">Definition: the word apple.</div>`)
	// The stored translation's label is not repeated under 번역:.
	assert.Contains(t, body, `<div class="meaning">the word apple.</div>`)

	// A new lookup ends the review.
	body = app.submit(t, "book")
	assert.NotContains(t, body, "복습할 단어:")
}

func TestReveal_WithoutCandidate(t *testing.T) {
	app := newTestApp(t, options{})

	_, body := app.post(t, "/review/reveal", nil)
	assert.Contains(t, body, handler.NoticeNoCandidate)
}

func TestReset(t *testing.T) {
	app := newTestApp(t, options{})
	app.submit(t, "apple")
	app.post(t, "/review", nil)

	_, body := app.post(t, "/reset", nil)
	assert.NotContains(t, body, "Definition: the word apple.")
	assert.NotContains(t, body, "복습할 단어:")

	// Stored words survive a reset.
	n, err := app.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSessionsAreIsolated(t *testing.T) {
	app := newTestApp(t, options{})
	app.submit(t, "apple")

	other := &http.Client{}
	resp, err := other.Get(app.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "Definition: the word apple.")
}

func TestChat_RateLimited(t *testing.T) {
	app := newTestApp(t, options{lookupsPerMinute: 2})

	app.submit(t, "apple")
	app.submit(t, "book")
	body := app.submit(t, "cat")
	assert.Contains(t, body, handler.NoticeRateLimited)

	n, err := app.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestExport(t *testing.T) {
	app := newTestApp(t, options{})
	app.submit(t, "apple")
	app.submit(t, "book")

	status, body := app.get(t, "/api/words/export")
	require.Equal(t, http.StatusOK, status)
	var records []store.Record
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "apple", records[0].Word)

	status, body = app.get(t, "/api/words/export?format=csv")
	require.Equal(t, http.StatusOK, status)
	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Word", "Definition", "Translation", "Created", "Updated"}, rows[0])
	assert.Equal(t, "book", rows[2][0])

	status, body = app.get(t, "/api/words/export?format=md")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "## 1. apple")
	assert.Contains(t, body, "**번역:**")

	status, _ = app.get(t, "/api/words/export?format=xml")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExport_Empty(t *testing.T) {
	app := newTestApp(t, options{})

	status, body := app.get(t, "/api/words/export")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)
}

func TestSchedulerStatusDisabled(t *testing.T) {
	app := newTestApp(t, options{})

	status, body := app.get(t, "/scheduler/status")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"enabled":false`)
}

func TestMetrics(t *testing.T) {
	app := newTestApp(t, options{})
	app.get(t, "/health")

	status, body := app.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "http_requests_total")
}

func TestStaticImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drizzlenote.png"), []byte("png"), 0o644))
	app := newTestApp(t, options{imageDir: dir})

	status, body := app.get(t, "/img/drizzlenote.png")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "png", body)
}
