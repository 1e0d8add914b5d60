package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/drizzlenote/chatbot/internal/chat"
	"github.com/drizzlenote/chatbot/internal/limiter"
	"github.com/drizzlenote/chatbot/internal/middleware"
	"github.com/drizzlenote/chatbot/internal/review"
	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/drizzlenote/chatbot/internal/validator"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageTitle        = "🎈단비노트 챗봇서비스🎈"
	InputPlaceholder = "영어 단어를 입력하세요 (예: apple)"
)

// User-facing notices.
const (
	NoticeInvalidWord   = "영어 단어만 입력해주세요."
	NoticeSavedFormat   = "'%s' 단어가 데이터베이스에 저장되었습니다."
	NoticeNothingStored = "저장된 단어가 없습니다."
	NoticeNoCandidate   = "먼저 '랜덤 단어 복습'을 눌러 단어를 선택해주세요."
	NoticeRateLimited   = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
)

// Templates returns the page templates for gin's SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type ChatHandler struct {
	service   *chat.Service
	sessions  session.Store
	limiter   *limiter.Limiter
	bannerURL string
}

// NewChatHandler builds the chat page handler. rl may be nil to disable
// rate limiting, and an empty bannerURL hides the banner.
func NewChatHandler(service *chat.Service, sessions session.Store, rl *limiter.Limiter, bannerURL string) *ChatHandler {
	return &ChatHandler{
		service:   service,
		sessions:  sessions,
		limiter:   rl,
		bannerURL: bannerURL,
	}
}

type pageData struct {
	Title             string
	Placeholder       string
	BannerURL         string
	Messages          []session.Message
	Notices           []session.Notice
	Candidate         *store.Record
	Revealed          bool
	RevealTranslation string
}

// Index renders the chat page. Pending notices are shown once.
func (h *ChatHandler) Index(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	data := pageData{
		Title:       PageTitle,
		Placeholder: InputPlaceholder,
		BannerURL:   h.bannerURL,
		Messages:    sess.Messages,
		Notices:     sess.TakeNotices(),
	}
	if review.StateOf(sess) != review.Idle {
		data.Candidate = sess.Candidate
		data.Revealed = sess.Revealed
		data.RevealTranslation = strings.TrimSpace(strings.ReplaceAll(sess.Candidate.Translation, "정의:", ""))
	}

	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		log.Printf("Warning: failed to save session %s: %v", sess.ID, err)
	}

	c.HTML(http.StatusOK, "index.html", data)
}

// Chat handles one submitted word.
func (h *ChatHandler) Chat(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	prompt := c.PostForm("prompt")

	if !h.allow(c, sess, limiter.ActionLookup) {
		h.redirectHome(c, sess)
		return
	}

	reply, err := h.service.Submit(c.Request.Context(), sess, prompt)
	switch {
	case errors.Is(err, validator.ErrInvalidWord):
		sess.Notify(session.LevelError, NoticeInvalidWord)
	case err != nil:
		log.Printf("Error saving word %q: %v", prompt, err)
		h.save(c, sess)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save word"})
		return
	case reply.Saved:
		sess.Notify(session.LevelSuccess, fmt.Sprintf(NoticeSavedFormat, prompt))
	}

	h.redirectHome(c, sess)
}

// Review picks a random stored word for the flashcard.
func (h *ChatHandler) Review(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if !h.allow(c, sess, limiter.ActionReview) {
		h.redirectHome(c, sess)
		return
	}

	_, err := h.service.Selector().Request(c.Request.Context(), sess)
	switch {
	case errors.Is(err, store.ErrNothingToReview):
		middleware.RecordReviewRequest(false)
		sess.Notify(session.LevelWarning, NoticeNothingStored)
	case err != nil:
		log.Printf("Error picking review word: %v", err)
		h.save(c, sess)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pick review word"})
		return
	default:
		middleware.RecordReviewRequest(true)
	}

	h.redirectHome(c, sess)
}

// Reveal shows the meaning of the current review word.
func (h *ChatHandler) Reveal(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if _, err := h.service.Selector().Reveal(sess); errors.Is(err, review.ErrNoCandidate) {
		sess.Notify(session.LevelInfo, NoticeNoCandidate)
	}

	h.redirectHome(c, sess)
}

// Reset clears the conversation and any review in progress.
func (h *ChatHandler) Reset(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	sess.Reset()
	h.redirectHome(c, sess)
}

// allow reports whether the session may perform action. Limiter faults
// fail open.
func (h *ChatHandler) allow(c *gin.Context, sess *session.Session, action string) bool {
	if h.limiter == nil {
		return true
	}

	result, err := h.limiter.Check(c.Request.Context(), sess.ID, action)
	if err != nil {
		log.Printf("Warning: rate limit check failed: %v", err)
		return true
	}

	if result.Remaining >= 0 {
		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
	}

	if !result.Allowed {
		sess.Notify(session.LevelWarning, NoticeRateLimited)
		return false
	}
	return true
}

func (h *ChatHandler) save(c *gin.Context, sess *session.Session) bool {
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		log.Printf("Error saving session %s: %v", sess.ID, err)
		return false
	}
	return true
}

// redirectHome stores the session and sends the browser back to the page.
func (h *ChatHandler) redirectHome(c *gin.Context, sess *session.Session) {
	if !h.save(c, sess) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
