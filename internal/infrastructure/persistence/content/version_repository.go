package content

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/oklog/ulid/v2"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/history"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/database"
)

// VersionRepository stores named snapshots of a page document as zstd frames.
type VersionRepository struct {
	db      *sql.DB
	logger  *logging.ChanneledLogger
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewVersionRepository creates a repository compressing snapshots at the given
// zstd level (1 fastest to 4 best).
func NewVersionRepository(db *sql.DB, logger *logging.ChanneledLogger, level int) (*VersionRepository, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevel(clampLevel(level))))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &VersionRepository{
		db:      db,
		logger:  logger,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func clampLevel(level int) int {
	if level < int(zstd.SpeedFastest) {
		return int(zstd.SpeedFastest)
	}
	if level > int(zstd.SpeedBestCompression) {
		return int(zstd.SpeedBestCompression)
	}
	return level
}

// Create stores doc as a new version of pageID.
func (r *VersionRepository) Create(pageID, name string, doc page.Document) (*content.VersionNode, error) {
	raw := page.MarshalDocument(doc)
	v := &content.VersionNode{
		ID:       strings.ToLower(ulid.Make().String()),
		PageID:   pageID,
		NodeType: content.NodeTypeVersion,
		Name:     strings.TrimSpace(name),
		Digest:   history.DocumentDigest(doc).String(),
		Size:     len(raw),
		Created:  time.Now().UTC(),
	}
	if v.Name == "" {
		v.Name = v.Created.Format("2006-01-02 15:04:05")
	}

	// EncodeAll is safe for concurrent use.
	snapshot := r.encoder.EncodeAll(raw, nil)

	start := time.Now()
	defer r.observe("BULK_INSERT page_versions", start, pageID)

	_, err := r.db.Exec(`INSERT INTO page_versions (id, page_id, name, snapshot, digest, size, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.PageID, v.Name, snapshot, v.Digest, v.Size, formatTime(v.Created))
	if err != nil {
		return nil, fmt.Errorf("failed to insert version: %w", err)
	}
	return v, nil
}

func (r *VersionRepository) FindByID(pageID, versionID string) (*content.Version, error) {
	start := time.Now()
	defer r.observe("BULK_SELECT page_versions BY id", start, pageID)

	var v content.Version
	var snapshot []byte
	var created string
	err := r.db.QueryRow(`SELECT id, page_id, name, snapshot, digest, size, created FROM page_versions WHERE id = ? AND page_id = ?`,
		versionID, pageID).Scan(&v.ID, &v.PageID, &v.Name, &snapshot, &v.Digest, &v.Size, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query version: %w", err)
	}

	raw, err := r.decoder.DecodeAll(snapshot, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress version %s: %w", versionID, err)
	}
	doc, err := page.ParseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version %s: %w", versionID, err)
	}

	v.NodeType = content.NodeTypeVersion
	v.Created = parseTime(created)
	v.Document = doc
	return &v, nil
}

// FindByPageID lists versions newest first without loading their snapshots.
func (r *VersionRepository) FindByPageID(pageID string) ([]*content.VersionNode, error) {
	start := time.Now()
	defer r.observe("SELECT page_versions", start, pageID)

	rows, err := r.db.Query(`SELECT id, page_id, name, digest, size, created FROM page_versions WHERE page_id = ? ORDER BY created DESC, id DESC`, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	var versions []*content.VersionNode
	for rows.Next() {
		var v content.VersionNode
		var created string
		if err := rows.Scan(&v.ID, &v.PageID, &v.Name, &v.Digest, &v.Size, &created); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		v.NodeType = content.NodeTypeVersion
		v.Created = parseTime(created)
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

func (r *VersionRepository) Delete(pageID, versionID string) error {
	start := time.Now()
	defer r.observe("DELETE page_versions", start, pageID)

	if _, err := r.db.Exec(`DELETE FROM page_versions WHERE id = ? AND page_id = ?`, versionID, pageID); err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	return nil
}

// Close releases the codec resources.
func (r *VersionRepository) Close() {
	r.encoder.Close()
	r.decoder.Close()
}

func (r *VersionRepository) observe(query string, start time.Time, pageID string) {
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), pageID)
}
