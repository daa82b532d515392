package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/repositories"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/editor"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/factory"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/pkg/config"
)

// EditorConfig tunes editor sessions.
type EditorConfig struct {
	HistoryLimit     int
	AutosaveDebounce time.Duration
	MaxSessions      int
	QueueSize        int
	CarouselInterval time.Duration
}

// EditorConfigFromEnv reads the editor settings from the config package.
func EditorConfigFromEnv() EditorConfig {
	return EditorConfig{
		HistoryLimit:     config.HistoryLimit,
		AutosaveDebounce: config.AutosaveDebounce,
		MaxSessions:      config.MaxSessions,
		QueueSize:        config.CommandQueueSize,
		CarouselInterval: config.CarouselInterval,
	}
}

// GenerateRequest asks for an AI-produced layout to be hydrated onto the canvas.
type GenerateRequest struct {
	Descriptors []factory.Descriptor `json:"descriptors"`
	// Replace swaps the whole canvas; otherwise the nodes are inserted.
	Replace bool `json:"replace"`
	// Confirm must be set to replace a canvas that already has content.
	Confirm  bool   `json:"confirm"`
	ParentID string `json:"parentId,omitempty"`
	Index    *int   `json:"index,omitempty"`
}

// EditorService keeps one editor session per open page.
type EditorService struct {
	pages    repositories.PageRepository
	versions repositories.VersionRepository
	cache    interfaces.FragmentCache
	live     messaging.Publisher
	logger   *logging.ChanneledLogger
	cfg      EditorConfig

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewEditorService creates a new editor application service
func NewEditorService(
	pages repositories.PageRepository,
	versions repositories.VersionRepository,
	cache interfaces.FragmentCache,
	live messaging.Publisher,
	logger *logging.ChanneledLogger,
	cfg EditorConfig,
) *EditorService {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.AutosaveDebounce <= 0 {
		cfg.AutosaveDebounce = 2 * time.Second
	}
	if cfg.CarouselInterval <= 0 {
		cfg.CarouselInterval = 5 * time.Second
	}
	return &EditorService{
		pages:    pages,
		versions: versions,
		cache:    cache,
		live:     live,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Open returns the page's session, loading the saved draft into a new one when
// none is open. A loaded draft is seeded without history and then snapshotted
// once, so the first undo returns to it.
func (s *EditorService) Open(ctx context.Context, pageID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[pageID]; ok {
		sess.touch()
		return sess, nil
	}
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	rec, err := s.pages.FindByID(pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", pageID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("page %s: %w", pageID, ErrPageNotFound)
	}

	st := editor.NewState(s.cfg.HistoryLimit)
	st = editor.Reduce(st, editor.SetInitialState{Nodes: rec.Document.Content, PageStyles: rec.Document.PageStyles})
	st = editor.Reduce(st, editor.Snapshot{})

	sess := newSession(s, pageID, st)
	s.sessions[pageID] = sess
	s.logger.Editor().Info("Editor session opened", "pageId", pageID, "nodes", page.CountNodes(st.Document))
	return sess, nil
}

// Session returns the open session of a page.
func (s *EditorService) Session(pageID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[pageID]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", pageID, ErrSessionNotFound)
	}
	return sess, nil
}

// State returns the current state of an open page.
func (s *EditorService) State(pageID string) (editor.State, error) {
	sess, err := s.Session(pageID)
	if err != nil {
		return editor.State{}, err
	}
	sess.touch()
	return sess.State(), nil
}

// Dispatch applies an intent to an open page.
func (s *EditorService) Dispatch(ctx context.Context, pageID string, in editor.Intent) (editor.State, error) {
	sess, err := s.Session(pageID)
	if err != nil {
		return editor.State{}, err
	}
	return sess.Dispatch(ctx, in)
}

// DispatchCommand decodes a wire command and applies it.
func (s *EditorService) DispatchCommand(ctx context.Context, pageID string, cmd editor.Command) (editor.State, error) {
	in, err := editor.DecodeIntent(cmd)
	if err != nil {
		return editor.State{}, err
	}
	return s.Dispatch(ctx, pageID, in)
}

// Save persists the draft of an open page now.
func (s *EditorService) Save(ctx context.Context, pageID string) (editor.State, error) {
	sess, err := s.Session(pageID)
	if err != nil {
		return editor.State{}, err
	}
	if err := sess.Flush(ctx); err != nil {
		return sess.State(), fmt.Errorf("failed to save draft: %w", err)
	}
	return sess.State(), nil
}

// SaveVersion stores the open page's current document as a named version.
func (s *EditorService) SaveVersion(ctx context.Context, pageID, name string) (*content.VersionNode, error) {
	sess, err := s.Session(pageID)
	if err != nil {
		return nil, err
	}
	st := sess.State()
	v, err := s.versions.Create(pageID, name, page.Document{Content: st.Document, PageStyles: st.PageStyles})
	if err != nil {
		s.logger.LogError(logging.ChannelHistory, "saveVersion", err, pageID, nil)
		return nil, fmt.Errorf("failed to save version: %w", err)
	}
	s.logger.History().Info("Version saved", "pageId", pageID, "versionId", v.ID, "name", v.Name, "size", v.Size)
	return v, nil
}

// ListVersions lists a page's versions, newest first.
func (s *EditorService) ListVersions(pageID string) ([]*content.VersionNode, error) {
	versions, err := s.versions.FindByPageID(pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	if versions == nil {
		versions = []*content.VersionNode{}
	}
	return versions, nil
}

// RevertToVersion loads a saved version into the open page as a new history entry.
func (s *EditorService) RevertToVersion(ctx context.Context, pageID, versionID string) (editor.State, error) {
	sess, err := s.Session(pageID)
	if err != nil {
		return editor.State{}, err
	}
	v, err := s.versions.FindByID(pageID, versionID)
	if err != nil {
		return editor.State{}, fmt.Errorf("failed to load version: %w", err)
	}
	if v == nil {
		return editor.State{}, fmt.Errorf("version %s: %w", versionID, ErrVersionNotFound)
	}
	s.logger.History().Info("Reverting to version", "pageId", pageID, "versionId", versionID)
	return sess.Dispatch(ctx, editor.RevertTo{Nodes: v.Document.Content, PageStyles: v.Document.PageStyles})
}

// Generate validates and hydrates layout descriptors, then inserts the result or
// replaces the canvas with it.
func (s *EditorService) Generate(ctx context.Context, pageID string, req GenerateRequest) (editor.State, error) {
	sess, err := s.Session(pageID)
	if err != nil {
		return editor.State{}, err
	}
	if len(req.Descriptors) == 0 {
		return editor.State{}, fmt.Errorf("%w: no descriptors", ErrInvalidDescriptors)
	}

	var problems []error
	for i, d := range req.Descriptors {
		if err := factory.Validate(d); err != nil {
			problems = append(problems, fmt.Errorf("descriptor %d: %w", i, err))
		}
	}
	if len(problems) > 0 {
		return editor.State{}, fmt.Errorf("%w: %w", ErrInvalidDescriptors, errors.Join(problems...))
	}
	nodes := factory.HydrateAll(req.Descriptors)

	start := time.Now()
	st, err := sess.do(ctx, func(st editor.State) (editor.State, error) {
		if req.Replace {
			if len(st.Document) > 0 && !req.Confirm {
				return st, ErrConfirmationRequired
			}
			return editor.Reduce(st, editor.SetDocument{Nodes: nodes}), nil
		}
		index := len(st.Document)
		if req.Index != nil {
			index = *req.Index
		}
		parent := req.ParentID
		if parent == "" {
			parent = page.CanvasKey
		}
		return editor.Reduce(st, editor.Insert{Nodes: nodes, ParentID: parent, Index: index}), nil
	})
	if err != nil {
		return st, err
	}
	s.logger.Editor().Info("Layout generated", "pageId", pageID, "descriptors", len(req.Descriptors),
		"nodes", page.CountNodes(nodes), "replace", req.Replace, "duration", time.Since(start))
	return st, nil
}

// SetHover pauses or resumes a carousel while the pointer is over it.
func (s *EditorService) SetHover(pageID, nodeID string, hovering bool) error {
	sess, err := s.Session(pageID)
	if err != nil {
		return err
	}
	sess.Carousels.SetHover(nodeID, hovering)
	return nil
}

// Close flushes and closes a page's session.
func (s *EditorService) Close(ctx context.Context, pageID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[pageID]
	delete(s.sessions, pageID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("page %s: %w", pageID, ErrSessionNotFound)
	}

	err := sess.close(ctx)
	s.logger.Editor().Info("Editor session closed", "pageId", pageID)
	return err
}

// CloseIdle closes sessions idle for longer than maxIdle.
func (s *EditorService) CloseIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var idle []string
	for id, sess := range s.sessions {
		if sess.LastActive().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	s.mu.Unlock()

	closed := 0
	for _, id := range idle {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s.Close(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			s.logger.LogError(logging.ChannelEditor, "closeIdle", err, id, nil)
		}
		cancel()
		closed++
	}
	return closed
}

// CloseAll flushes and closes every session.
func (s *EditorService) CloseAll(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.Close(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			s.logger.LogError(logging.ChannelShutdown, "closeSession", err, id, nil)
		}
	}
}

// OpenCount returns the number of open sessions.
func (s *EditorService) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
