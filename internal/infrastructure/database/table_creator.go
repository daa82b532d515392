// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/history"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// HomeSlug is the slug of the page seeded into a fresh database.
const HomeSlug = "home"

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent idempotently adds an empty "home" page so a fresh install has
// something to open in the editor.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM pages WHERE slug = ?)", HomeSlug).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for home page existence: %w", err)
	}
	if exists {
		return nil
	}

	doc := page.Document{Content: []*page.Node{}}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = db.Exec(`INSERT INTO pages (id, title, slug, content, digest, created) VALUES (?, ?, ?, ?, ?, ?)`,
		strings.ToLower(ulid.Make().String()), "Home", HomeSlug, string(page.MarshalDocument(doc)),
		history.DocumentDigest(doc).String(), now)
	if err != nil {
		return fmt.Errorf("failed to insert home page: %w", err)
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS pages (id TEXT PRIMARY KEY, title TEXT NOT NULL, slug TEXT NOT NULL UNIQUE, content TEXT NOT NULL, digest TEXT NOT NULL, created TEXT NOT NULL, changed TEXT)`,
	`CREATE TABLE IF NOT EXISTS page_versions (id TEXT PRIMARY KEY, page_id TEXT NOT NULL REFERENCES pages(id) ON DELETE CASCADE, name TEXT NOT NULL, snapshot BLOB NOT NULL, digest TEXT NOT NULL, size INTEGER NOT NULL, created TEXT NOT NULL)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_pages_slug ON pages(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_page_versions_page_id ON page_versions(page_id)`,
	`CREATE INDEX IF NOT EXISTS idx_page_versions_created ON page_versions(page_id, created)`,
}
