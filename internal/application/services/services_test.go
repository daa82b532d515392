package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/editor"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/factory"
	schema "github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	persistence "github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/storage"
)

type recorder struct {
	mu     sync.Mutex
	events []messaging.LiveEvent
}

func (r *recorder) Publish(pageID string, event messaging.LiveEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.PageID = pageID
	r.events = append(r.events, event)
}

func (r *recorder) ClientCount(string) int { return 0 }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	pages    *PageService
	editor   *EditorService
	render   *RenderService
	repo     *persistence.PageRepository
	live     *recorder
	logger   *logging.ChanneledLogger
	homeID   string
	versions *persistence.VersionRepository
}

func newFixture(t *testing.T, cfg EditorConfig) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "pages.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tc := schema.NewTableCreator()
	require.NoError(t, tc.CreateSchema(db))
	require.NoError(t, tc.SeedInitialContent(db))

	logCfg := logging.DefaultLoggerConfig()
	logCfg.Output = io.Discard
	logger, err := logging.NewChanneledLogger(logCfg)
	require.NoError(t, err)

	repo := persistence.NewPageRepository(db, logger)
	versions, err := persistence.NewVersionRepository(db, logger, 2)
	require.NoError(t, err)
	t.Cleanup(versions.Close)

	cache := stores.NewFragmentsStore(time.Hour, 16)
	live := &recorder{}
	ed := NewEditorService(repo, versions, cache, live, logger, cfg)
	t.Cleanup(func() { ed.CloseAll(context.Background()) })

	home, err := repo.FindBySlug(schema.HomeSlug)
	require.NoError(t, err)
	require.NotNil(t, home)

	return &fixture{
		pages:    NewPageService(repo),
		editor:   ed,
		render:   NewRenderService(ed, repo, cache, logger),
		repo:     repo,
		live:     live,
		logger:   logger,
		homeID:   home.ID,
		versions: versions,
	}
}

// manualSave keeps autosave out of the way.
var manualSave = EditorConfig{HistoryLimit: 50, AutosaveDebounce: time.Hour, CarouselInterval: time.Hour}

func heading(text string) editor.Insert {
	n := factory.CreateNode(page.KindHeading)[0]
	n.Content = text
	return editor.Insert{Nodes: []*page.Node{n}, ParentID: page.CanvasKey}
}

func TestOpenSharesOneSessionPerPage(t *testing.T) {
	f := newFixture(t, EditorConfig{MaxSessions: 1, AutosaveDebounce: time.Hour})
	ctx := context.Background()

	a, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)
	b, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, f.editor.OpenCount())

	other, err := f.pages.Create("About", "about", page.Document{})
	require.NoError(t, err)
	_, err = f.editor.Open(ctx, other.ID)
	assert.ErrorIs(t, err, ErrTooManySessions)

	_, err = f.editor.State("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestOpenMissingPage(t *testing.T) {
	f := newFixture(t, manualSave)
	_, err := f.editor.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestDispatchPublishesStateAndUndoes(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()
	_, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)

	st, err := f.editor.Dispatch(ctx, f.homeID, heading("Hello"))
	require.NoError(t, err)
	require.Len(t, st.Document, 1)
	assert.True(t, st.Dirty)
	assert.True(t, st.History.CanUndo())
	assert.Contains(t, f.live.types(), messaging.EventState)

	st, err = f.editor.DispatchCommand(ctx, f.homeID, editor.Command{Type: "undo"})
	require.NoError(t, err)
	assert.Empty(t, st.Document)
	assert.True(t, st.History.CanRedo())

	_, err = f.editor.DispatchCommand(ctx, f.homeID, editor.Command{Type: "explode"})
	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestSessionSurvivesFailingCommand(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()
	sess, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)

	_, err = sess.do(ctx, func(editor.State) (editor.State, error) { panic("boom") })
	assert.ErrorIs(t, err, ErrCommandPanicked)

	_, err = f.editor.DispatchCommand(ctx, f.homeID, editor.Command{Type: "insert", Payload: json.RawMessage(`{"nodes":[null]}`)})
	assert.ErrorIs(t, err, ErrNullNode)

	st, err := sess.Dispatch(ctx, heading("Still here"))
	require.NoError(t, err)
	assert.Len(t, st.Document, 1)
}

func TestAutosaveFlushesAndMarksClean(t *testing.T) {
	f := newFixture(t, EditorConfig{AutosaveDebounce: 20 * time.Millisecond, CarouselInterval: time.Hour})
	ctx := context.Background()
	sess, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)

	_, err = sess.Dispatch(ctx, heading("Saved by autosave"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return !sess.State().Dirty }, 2*time.Second, 10*time.Millisecond)

	rec, err := f.repo.FindByID(f.homeID)
	require.NoError(t, err)
	require.Len(t, rec.Document.Content, 1)
	assert.Equal(t, "Saved by autosave", rec.Document.Content[0].Content)
	assert.Contains(t, f.live.types(), messaging.EventSaved)
}

func TestSaveKeepsLaterEditsDirty(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()
	_, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)

	_, err = f.editor.Dispatch(ctx, f.homeID, heading("One"))
	require.NoError(t, err)
	st, err := f.editor.Save(ctx, f.homeID)
	require.NoError(t, err)
	assert.False(t, st.Dirty)

	st, err = f.editor.Dispatch(ctx, f.homeID, heading("Two"))
	require.NoError(t, err)
	assert.True(t, st.Dirty)
}

func TestGenerateRequiresConfirmationToReplace(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()
	_, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)

	text := factory.Descriptor{Kind: page.KindText, Content: json.RawMessage(`{"text":"generated"}`)}
	st, err := f.editor.Generate(ctx, f.homeID, GenerateRequest{Descriptors: []factory.Descriptor{text}})
	require.NoError(t, err)
	require.Len(t, st.Document, 1)

	replace := GenerateRequest{
		Descriptors: []factory.Descriptor{{Kind: page.KindHeading, Content: json.RawMessage(`{"text":"New"}`)}},
		Replace:     true,
	}
	_, err = f.editor.Generate(ctx, f.homeID, replace)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	replace.Confirm = true
	st, err = f.editor.Generate(ctx, f.homeID, replace)
	require.NoError(t, err)
	require.Len(t, st.Document, 1)
	assert.Equal(t, page.KindHeading, st.Document[0].Kind)

	bad := GenerateRequest{Descriptors: []factory.Descriptor{text, {Kind: "marquee"}}}
	_, err = f.editor.Generate(ctx, f.homeID, bad)
	assert.ErrorIs(t, err, ErrInvalidDescriptors)

	current, err := f.editor.State(f.homeID)
	require.NoError(t, err)
	assert.Len(t, current.Document, 1, "invalid batch must not touch the canvas")
}

func TestVersionsRevert(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()
	_, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)

	_, err = f.editor.Dispatch(ctx, f.homeID, heading("Launch"))
	require.NoError(t, err)
	v, err := f.editor.SaveVersion(ctx, f.homeID, "launch")
	require.NoError(t, err)

	_, err = f.editor.Dispatch(ctx, f.homeID, heading("Later"))
	require.NoError(t, err)

	list, err := f.editor.ListVersions(f.homeID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "launch", list[0].Name)

	st, err := f.editor.RevertToVersion(ctx, f.homeID, v.ID)
	require.NoError(t, err)
	require.Len(t, st.Document, 1)
	assert.Equal(t, "Launch", st.Document[0].Content)
	assert.True(t, st.History.CanUndo())

	_, err = f.editor.RevertToVersion(ctx, f.homeID, "missing")
	assert.ErrorIs(t, err, ErrVersionNotFound)
}

func TestCloseFlushesPendingDraft(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()
	sess, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)

	_, err = sess.Dispatch(ctx, heading("Unsaved"))
	require.NoError(t, err)
	require.NoError(t, f.editor.Close(ctx, f.homeID))

	rec, err := f.repo.FindByID(f.homeID)
	require.NoError(t, err)
	assert.Len(t, rec.Document.Content, 1)

	_, err = sess.Dispatch(ctx, heading("Too late"))
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, f.editor.Close(ctx, f.homeID), ErrSessionNotFound)
}

func TestCloseIdle(t *testing.T) {
	f := newFixture(t, manualSave)
	_, err := f.editor.Open(context.Background(), f.homeID)
	require.NoError(t, err)

	assert.Equal(t, 0, f.editor.CloseIdle(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, f.editor.CloseIdle(time.Millisecond))
	assert.Equal(t, 0, f.editor.OpenCount())
}

func TestRenderSessionModes(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()
	_, err := f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)
	_, err = f.editor.Dispatch(ctx, f.homeID, heading("Canvas"))
	require.NoError(t, err)

	edit, err := f.render.RenderSession(f.homeID, rendering.ModeInteractive, page.Desktop)
	require.NoError(t, err)
	assert.Contains(t, edit.HTML, "data-node-id")
	assert.Contains(t, edit.HTML, `data-selected="true"`)

	view, err := f.render.RenderSession(f.homeID, rendering.ModeInert, page.Mobile)
	require.NoError(t, err)
	assert.Contains(t, view.HTML, "Canvas")
	assert.NotContains(t, view.HTML, "data-node-id")
	assert.Equal(t, page.Mobile, view.Breakpoint)
}

func TestPreviewIsCachedByDigest(t *testing.T) {
	f := newFixture(t, manualSave)
	ctx := context.Background()

	first, err := f.render.Preview(f.homeID, page.Desktop, rendering.ModeInert, false)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	again, err := f.render.Preview(f.homeID, page.Desktop, rendering.ModeInert, false)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, first.HTML, again.HTML)

	_, err = f.editor.Open(ctx, f.homeID)
	require.NoError(t, err)
	_, err = f.editor.Dispatch(ctx, f.homeID, heading("Fresh"))
	require.NoError(t, err)
	_, err = f.editor.Save(ctx, f.homeID)
	require.NoError(t, err)

	fresh, err := f.render.Preview(f.homeID, page.Desktop, rendering.ModeInert, true)
	require.NoError(t, err)
	assert.False(t, fresh.Cached)
	assert.NotEqual(t, first.Digest, fresh.Digest)
	assert.Contains(t, fresh.HTML, "<!DOCTYPE html>")
	assert.Contains(t, fresh.HTML, "Fresh")

	_, err = f.render.Preview("missing", page.Desktop, rendering.ModeInert, false)
	assert.ErrorIs(t, err, ErrPageNotFound)
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (m *memoryStore) CheckConnection(context.Context) error { return nil }

func (m *memoryStore) Put(_ context.Context, key string, body []byte, contentType string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	m.types[key] = contentType
	return &storage.Object{Key: key, ContentType: contentType, Size: len(body)}, nil
}

func (m *memoryStore) PageKey(slug, name string) string {
	return "site/pages/" + slug + "/" + name
}

func TestPublishUploadsEveryBreakpoint(t *testing.T) {
	f := newFixture(t, manualSave)
	store := &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewPublishService(f.repo, store, time.Second, f.logger)

	res, err := svc.Publish(context.Background(), f.homeID)
	require.NoError(t, err)
	assert.Len(t, res.Objects, len(page.Breakpoints)+1)

	for _, bp := range page.Breakpoints {
		key := "site/pages/home/" + string(bp) + ".html"
		require.Contains(t, store.objects, key)
		assert.Equal(t, "text/html; charset=utf-8", store.types[key])
		assert.Contains(t, string(store.objects[key]), `data-breakpoint="`+string(bp)+`"`)
		assert.NotContains(t, string(store.objects[key]), "data-node-id")
	}

	var manifest map[string]any
	require.NoError(t, json.Unmarshal(store.objects["site/pages/home/manifest.json"], &manifest))
	assert.Equal(t, f.homeID, manifest["pageId"])

	_, err = NewPublishService(f.repo, storage.NewNoopPublisher("x"), 0, f.logger).Publish(context.Background(), f.homeID)
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}
