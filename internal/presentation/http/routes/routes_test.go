package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/container"
	schema "github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/storage"
)

type api struct {
	t      *testing.T
	router *gin.Engine
	c      *container.Container
	homeID string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection(context.Background(), database.Options{
		Driver: database.DriverSQLite,
		DSN:    "file:" + filepath.Join(t.TempDir(), "api.db") + "?_foreign_keys=on",
	})
	require.NoError(t, err)

	tc := schema.NewTableCreator()
	require.NoError(t, tc.CreateSchema(db.DB))
	require.NoError(t, tc.SeedInitialContent(db.DB))

	logCfg := logging.DefaultLoggerConfig()
	logCfg.Output = io.Discard
	logger, err := logging.NewChanneledLogger(logCfg)
	require.NoError(t, err)

	c, err := container.NewContainer(db, storage.NewNoopPublisher("sites/test"), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		c.EditorService.CloseAll(context.Background())
		c.Close()
	})

	home, err := c.Pages.FindBySlug(schema.HomeSlug)
	require.NoError(t, err)

	return &api{t: t, router: SetupRoutes(c), c: c, homeID: home.ID}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) page(suffix string) string {
	return "/api/v1/pages/" + a.homeID + suffix
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func insertHeading() map[string]any {
	return map[string]any{"commands": []any{
		map[string]any{"type": "insert", "payload": map[string]any{"kind": "heading", "parentId": "canvas", "index": 0}},
	}}
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "sqlite3", body["driver"])
}

func TestPageManagement(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/v1/pages", map[string]any{"title": "About", "slug": "about"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)

	w = a.do(http.MethodPost, "/api/v1/pages", map[string]any{"title": "Again", "slug": "about"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/pages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/v1/pages/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/pages/"+id, nil).Code)
}

func TestEditorFlow(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, a.page("/state"), nil).Code)

	w := a.do(http.MethodPost, a.page("/session"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode(t, w)["dirty"])

	w = a.do(http.MethodPost, a.page("/intents"), insertHeading())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode(t, w)
	assert.Len(t, state["document"], 1)
	assert.Equal(t, true, state["dirty"])
	assert.Equal(t, true, state["canUndo"])

	w = a.do(http.MethodPost, a.page("/intents"), map[string]any{"commands": []any{map[string]any{"type": "explode"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	nullNode := map[string]any{"type": "insert", "payload": map[string]any{"nodes": []any{nil}}}
	w = a.do(http.MethodPost, a.page("/intents"), map[string]any{"commands": []any{nullNode}})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, a.page("/state"), nil).Code)

	w = a.do(http.MethodPost, a.page("/undo"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["document"])

	w = a.do(http.MethodPost, a.page("/redo"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["document"], 1)

	w = a.do(http.MethodPost, a.page("/save"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["dirty"])

	w = a.do(http.MethodGet, a.page("/render?mode=interactive&breakpoint=mobile"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data-node-id")
	assert.NotEmpty(t, w.Header().Get("X-Revision"))

	w = a.do(http.MethodGet, a.page("/preview?document=true"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")
	assert.NotContains(t, w.Body.String(), "data-node-id")
	assert.Equal(t, "HIT", a.do(http.MethodGet, a.page("/preview?document=true"), nil).Header().Get("X-Cache"))

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, a.page("/session"), nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, a.page("/session"), nil).Code)
}

func TestVersionsAndRevert(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, a.page("/session"), nil).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, a.page("/intents"), insertHeading()).Code)

	w := a.do(http.MethodPost, a.page("/versions"), map[string]any{"name": "first"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	versionID := decode(t, w)["id"].(string)

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, a.page("/intents"), insertHeading()).Code)

	w = a.do(http.MethodGet, a.page("/versions"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = a.do(http.MethodPost, a.page("/versions/"+versionID+"/revert"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["document"], 1)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, a.page("/versions/nope/revert"), nil).Code)
}

func TestGenerateConfirmation(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, a.page("/session"), nil).Code)

	text := map[string]any{"kind": "text", "content": map[string]any{"text": "hello"}}
	w := a.do(http.MethodPost, a.page("/generate"), map[string]any{"descriptors": []any{text}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, a.page("/generate"), map[string]any{"descriptors": []any{text}, "replace": true})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, a.page("/generate"), map[string]any{"descriptors": []any{map[string]any{"kind": "marquee"}}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPublishWithoutBucket(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodPost, a.page("/publish"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w)["error"], "storage not configured")
}

func TestLiveSocketAppliesIntents(t *testing.T) {
	a := newAPI(t)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + a.page("/live")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err, "no session is open yet")
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, a.page("/session"), nil).Code)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() messaging.LiveEvent {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev messaging.LiveEvent
		require.NoError(t, conn.ReadJSON(&ev))
		return ev
	}

	first := read()
	assert.Equal(t, messaging.EventState, first.Type)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "intent",
		"command": map[string]any{"type": "insert", "payload": map[string]any{"kind": "text"}},
	}))
	ev := read()
	assert.Equal(t, messaging.EventState, ev.Type)
	assert.Greater(t, ev.Revision, first.Revision)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "bogus"}))
	assert.Equal(t, messaging.EventError, read().Type)
}

func TestPerformanceRecordsPreviews(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, a.page("/preview"), nil).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, a.page("/preview"), nil).Code)

	w := a.do(http.MethodGet, "/api/v1/health/performance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ops := decode(t, w)["operations"].([]any)
	require.Len(t, ops, 1)
	op := ops[0].(map[string]any)
	assert.Equal(t, "render:preview", op["operation"])
	assert.EqualValues(t, 2, op["count"])
	assert.EqualValues(t, 1, op["cacheHits"])
}
