package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"factlab/internal/db"
	"factlab/internal/models"
	"factlab/internal/router"
	"factlab/internal/utils"
	"factlab/internal/voteschema"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds the full route tree against a throwaway sqlite
// database, plus a test-only login route that writes user_id into the
// session the way the external account service does in production.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "factlab-test.db") + "?_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	db.DB = gdb
	utils.GetCache().Purge()

	r := gin.New()
	r.Use(sessions.Sessions("factlab_session", cookie.NewStore([]byte("test-secret"))))
	r.POST("/test/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("user_id", utils.StringToUint(c.Param("id")))
		if err := session.Save(); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	router.Setup(r)
	return r
}

// loginAs returns the session cookie for the given user.
func loginAs(t *testing.T, r *gin.Engine, userID uint) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/test/login/%d", userID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d", w.Code)
	}
	setCookie := w.Header().Get("Set-Cookie")
	if setCookie == "" {
		t.Fatal("login: no session cookie issued")
	}
	return strings.SplitN(setCookie, ";", 2)[0]
}

func doJSON(r *gin.Engine, method, path, cookie, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func seedTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedTestNews(t *testing.T, title string) *models.Content {
	t.Helper()
	content := models.Content{
		Kind:         models.ContentKindNews,
		Title:        title,
		AnalysisType: models.AnalysisFact,
	}
	if err := db.DB.Create(&content).Error; err != nil {
		t.Fatalf("seed news: %v", err)
	}
	return &content
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	r := newTestServer(t)
	news := seedTestNews(t, "로그인 필요")

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, fmt.Sprintf("/api/contents/%d/votes", news.ID)},
		{http.MethodPost, fmt.Sprintf("/api/contents/%d/comments", news.ID)},
		{http.MethodDelete, "/api/comments/1"},
		{http.MethodGet, "/api/me/votes"},
	}
	for _, p := range paths {
		w := doJSON(r, p.method, p.path, "", `{}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401", p.method, p.path, w.Code)
			continue
		}
		if body := decodeBody(t, w); body["error"] != "unauthenticated" {
			t.Errorf("%s %s: error = %v", p.method, p.path, body["error"])
		}
	}
}

func TestCastVoteOverHTTP(t *testing.T) {
	r := newTestServer(t)
	alice := seedTestUser(t, "alice")
	news := seedTestNews(t, "투표 테스트")
	cookie := loginAs(t, r, alice.ID)

	path := fmt.Sprintf("/api/contents/%d/votes", news.ID)
	payload := fmt.Sprintf(`{"option_key":%q}`, voteschema.OptCompleteFact)

	w := doJSON(r, http.MethodPost, path, cookie, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("cast vote: status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["total"] != float64(1) {
		t.Errorf("total = %v, want 1", body["total"])
	}

	// Same user again, any option: the first ballot stands.
	w = doJSON(r, http.MethodPost, path, cookie, fmt.Sprintf(`{"option_key":%q}`, voteschema.OptCompleteDoubt))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate vote: status %d, want 409", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "duplicate_vote" {
		t.Errorf("duplicate vote error = %v", body["error"])
	}

	w = doJSON(r, http.MethodPost, path, cookie, `{"option_key":"left_bias"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("foreign option: status %d, want 400", w.Code)
	}

	// Results stay public.
	w = doJSON(r, http.MethodGet, path, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("results: status %d", w.Code)
	}
	body = decodeBody(t, w)
	counts, ok := body["counts"].(map[string]interface{})
	if !ok || counts[voteschema.OptCompleteFact] != float64(1) {
		t.Errorf("counts = %v", body["counts"])
	}
}

func TestCommentLifecycleOverHTTP(t *testing.T) {
	r := newTestServer(t)
	alice := seedTestUser(t, "alice")
	bob := seedTestUser(t, "bob")
	news := seedTestNews(t, "댓글 테스트")
	aliceCookie := loginAs(t, r, alice.ID)
	bobCookie := loginAs(t, r, bob.ID)

	commentsPath := fmt.Sprintf("/api/contents/%d/comments", news.ID)

	w := doJSON(r, http.MethodPost, commentsPath, aliceCookie, `{"body":"사실 확인이 필요합니다."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: status %d, body %s", w.Code, w.Body.String())
	}
	commentID := decodeBody(t, w)["id"].(float64)

	w = doJSON(r, http.MethodPost, commentsPath, bobCookie,
		fmt.Sprintf(`{"body":"동의합니다.","parent_comment_id":%d}`, int(commentID)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create reply: status %d, body %s", w.Code, w.Body.String())
	}

	// Bob does not own alice's comment.
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/comments/%d", int(commentID)), bobCookie, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign delete: status %d, want 403", w.Code)
	}

	// Alice's delete soft-deletes: the reply keeps the thread alive.
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/comments/%d", int(commentID)), aliceCookie, "")
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, commentsPath, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("tree: status %d", w.Code)
	}
	tree := decodeBody(t, w)["comments"].([]interface{})
	if len(tree) != 1 {
		t.Fatalf("tree has %d top-level comments, want 1", len(tree))
	}
	top := tree[0].(map[string]interface{})
	if top["deleted"] != true {
		t.Errorf("top-level comment not marked deleted: %v", top)
	}
	if replies := top["replies"].([]interface{}); len(replies) != 1 {
		t.Errorf("reply lost after soft delete: %v", top["replies"])
	}
}

func TestReplyToMissingParentOverHTTP(t *testing.T) {
	r := newTestServer(t)
	alice := seedTestUser(t, "alice")
	news := seedTestNews(t, "부모 없음")
	cookie := loginAs(t, r, alice.ID)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/contents/%d/comments", news.ID), cookie,
		`{"body":"답글","parent_comment_id":999}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("reply to missing parent: status %d, want 404", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "parent_not_found" {
		t.Errorf("error = %v, want parent_not_found", body["error"])
	}
}
