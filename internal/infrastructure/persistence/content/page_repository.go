// Package content provides the page and version repositories
package content

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/history"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/database"
)

// ErrPageNotFound is returned by writes addressed at a page that does not exist.
var ErrPageNotFound = errors.New("page not found")

type PageRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewPageRepository(db *sql.DB, logger *logging.ChanneledLogger) *PageRepository {
	return &PageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PageRepository) FindByID(id string) (*content.PageNode, error) {
	start := time.Now()
	defer r.observe("SELECT pages BY id", start, id)

	row := r.db.QueryRow(`SELECT id, title, slug, content, digest, created, changed FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

func (r *PageRepository) FindBySlug(slug string) (*content.PageNode, error) {
	start := time.Now()
	defer r.observe("SELECT pages BY slug", start, slug)

	row := r.db.QueryRow(`SELECT id, title, slug, content, digest, created, changed FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

func (r *PageRepository) FindAll() ([]*content.PageSummary, error) {
	start := time.Now()
	defer r.observe("SELECT pages", start, "")

	rows, err := r.db.Query(`SELECT id, title, slug, digest, created, changed FROM pages ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []*content.PageSummary
	for rows.Next() {
		var s content.PageSummary
		var created string
		var changed sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &s.Digest, &created, &changed); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		s.Created = parseTime(created)
		s.Changed = parseNullTime(changed)
		pages = append(pages, &s)
	}
	return pages, rows.Err()
}

// Store inserts a new page. An empty ID gets a fresh ULID; the digest and created
// timestamp are always computed here.
func (r *PageRepository) Store(p *content.PageNode) error {
	if p.ID == "" {
		p.ID = strings.ToLower(ulid.Make().String())
	}
	if p.Document.Content == nil {
		p.Document.Content = []*page.Node{}
	}
	p.NodeType = content.NodeTypePage
	p.Digest = history.DocumentDigest(p.Document).String()
	p.Created = time.Now().UTC()

	start := time.Now()
	defer r.observe("INSERT pages", start, p.ID)

	_, err := r.db.Exec(`INSERT INTO pages (id, title, slug, content, digest, created) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, string(page.MarshalDocument(p.Document)), p.Digest, formatTime(p.Created))
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// SaveDraft overwrites the stored document of an existing page.
func (r *PageRepository) SaveDraft(id string, doc page.Document) (*content.PageNode, error) {
	digest := history.DocumentDigest(doc).String()
	now := time.Now().UTC()

	start := time.Now()
	res, err := r.db.Exec(`UPDATE pages SET content = ?, digest = ?, changed = ? WHERE id = ?`,
		string(page.MarshalDocument(doc)), digest, formatTime(now), id)
	r.observe("UPDATE pages content", start, id)
	if err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("save draft %s: %w", id, ErrPageNotFound)
	}
	return r.FindByID(id)
}

func (r *PageRepository) Delete(id string) error {
	start := time.Now()
	defer r.observe("DELETE pages", start, id)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM page_versions WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete page versions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM pages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return tx.Commit()
}

func (r *PageRepository) observe(query string, start time.Time, pageID string) {
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), pageID)
}

func scanPage(row *sql.Row) (*content.PageNode, error) {
	var p content.PageNode
	var body, created string
	var changed sql.NullString
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &body, &p.Digest, &created, &changed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}

	doc, err := page.ParseDocument([]byte(body))
	if err != nil {
		// A corrupt draft opens as an empty canvas rather than failing the page.
		doc = page.Document{Content: []*page.Node{}}
	}
	p.Document = doc
	p.NodeType = content.NodeTypePage
	p.Created = parseTime(created)
	p.Changed = parseNullTime(changed)
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}
