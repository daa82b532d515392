package content

import (
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/history"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	schema "github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "pages.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tc := schema.NewTableCreator()
	require.NoError(t, tc.CreateSchema(db))
	require.NoError(t, tc.SeedInitialContent(db))
	return db
}

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.Output = io.Discard
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func sampleDocument() page.Document {
	h := &page.Node{ID: "h1", Kind: page.KindHeading, Content: "Hello", Styles: page.NewStyles()}
	h.Styles[page.Desktop][page.StateDefault]["color"] = "red"
	return page.Document{
		Content:    []*page.Node{h},
		PageStyles: page.PageStyles{FontFamily: "Inter"},
	}
}

func TestSeedCreatesHomePageOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, schema.NewTableCreator().SeedInitialContent(db))

	repo := NewPageRepository(db, testLogger(t))
	pages, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, schema.HomeSlug, pages[0].Slug)

	home, err := repo.FindBySlug(schema.HomeSlug)
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Empty(t, home.Document.Content)
}

func TestPageStoreAndSaveDraft(t *testing.T) {
	repo := NewPageRepository(openTestDB(t), testLogger(t))

	p := &content.PageNode{Title: "About", Slug: "about"}
	require.NoError(t, repo.Store(p))
	assert.NotEmpty(t, p.ID)

	doc := sampleDocument()
	saved, err := repo.SaveDraft(p.ID, doc)
	require.NoError(t, err)
	require.NotNil(t, saved.Changed)
	assert.Equal(t, history.DocumentDigest(doc).String(), saved.Digest)
	assert.NotEqual(t, p.Digest, saved.Digest)

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	require.Len(t, got.Document.Content, 1)
	assert.Equal(t, "red", got.Document.Content[0].Styles[page.Desktop][page.StateDefault]["color"])
	assert.Equal(t, "Inter", got.Document.PageStyles.FontFamily)
}

func TestPageMissing(t *testing.T) {
	repo := NewPageRepository(openTestDB(t), testLogger(t))

	got, err := repo.FindByID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.SaveDraft("nope", sampleDocument())
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestVersionRoundTripIsCompressed(t *testing.T) {
	db := openTestDB(t)
	pages := NewPageRepository(db, testLogger(t))
	p := &content.PageNode{Title: "About", Slug: "about"}
	require.NoError(t, pages.Store(p))

	versions, err := NewVersionRepository(db, testLogger(t), 2)
	require.NoError(t, err)
	defer versions.Close()

	doc := sampleDocument()
	v1, err := versions.Create(p.ID, "  first  ", doc)
	require.NoError(t, err)
	assert.Equal(t, "first", v1.Name)
	assert.Equal(t, len(page.MarshalDocument(doc)), v1.Size)

	doc.Content = append(doc.Content, &page.Node{ID: "t1", Kind: page.KindText, Content: "Body", Styles: page.NewStyles()})
	v2, err := versions.Create(p.ID, "", doc)
	require.NoError(t, err)
	assert.NotEmpty(t, v2.Name)

	list, err := versions.FindByPageID(p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, v2.ID, list[0].ID, "newest first")

	got, err := versions.FindByID(p.ID, v1.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Document.Content, 1)
	assert.Equal(t, "Hello", got.Document.Content[0].Content)
	assert.Equal(t, v1.Digest, history.DocumentDigest(got.Document).String())

	var stored []byte
	require.NoError(t, db.QueryRow(`SELECT snapshot FROM page_versions WHERE id = ?`, v1.ID).Scan(&stored))
	require.GreaterOrEqual(t, len(stored), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, stored[:4], "zstd frame magic")

	missing, err := versions.FindByID("other-page", v1.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeletePageRemovesVersions(t *testing.T) {
	db := openTestDB(t)
	pages := NewPageRepository(db, testLogger(t))
	p := &content.PageNode{Title: "About", Slug: "about"}
	require.NoError(t, pages.Store(p))

	versions, err := NewVersionRepository(db, testLogger(t), 1)
	require.NoError(t, err)
	defer versions.Close()
	_, err = versions.Create(p.ID, "v", sampleDocument())
	require.NoError(t, err)

	require.NoError(t, pages.Delete(p.ID))
	list, err := versions.FindByPageID(p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
