package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/history"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/editor"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/presentation/carousel"
)

// StateView is the wire form of an editor session's state.
type StateView struct {
	PageID        string          `json:"pageId"`
	Document      []*page.Node    `json:"document"`
	PageStyles    page.PageStyles `json:"pageStyles"`
	SelectedID    string          `json:"selectedId,omitempty"`
	Dirty         bool            `json:"dirty"`
	Revision      uint64          `json:"revision"`
	CanUndo       bool            `json:"canUndo"`
	CanRedo       bool            `json:"canRedo"`
	HistoryLength int             `json:"historyLength"`
	HistoryIndex  int             `json:"historyIndex"`
}

// NewStateView builds the wire form of st.
func NewStateView(pageID string, st editor.State) StateView {
	doc := st.Document
	if doc == nil {
		doc = []*page.Node{}
	}
	return StateView{
		PageID:        pageID,
		Document:      doc,
		PageStyles:    st.PageStyles,
		SelectedID:    st.SelectedID,
		Dirty:         st.Dirty,
		Revision:      st.Revision,
		CanUndo:       st.History.CanUndo(),
		CanRedo:       st.History.CanRedo(),
		HistoryLength: st.History.Len(),
		HistoryIndex:  st.History.CurrentIndex,
	}
}

type commandResult struct {
	state editor.State
	err   error
}

type command struct {
	apply func(editor.State) (editor.State, error)
	reply chan commandResult
}

// Session owns the editor state of one open page. Its state is only ever
// changed by the session's own goroutine, which applies commands in arrival
// order; readers get immutable snapshots.
type Session struct {
	PageID    string
	Carousels *carousel.Registry

	svc      *EditorService
	commands chan command
	done     chan struct{}
	stopped  chan struct{}
	closing  sync.Once
	flushMu  sync.Mutex
	autosave func(f func())
	cancel   context.CancelFunc

	current    atomic.Pointer[editor.State]
	lastActive atomic.Int64
}

func newSession(svc *EditorService, pageID string, initial editor.State) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		PageID:    pageID,
		Carousels: carousel.NewRegistry(true, svc.cfg.CarouselInterval),
		svc:       svc,
		commands:  make(chan command, svc.cfg.QueueSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		autosave:  debounce.New(svc.cfg.AutosaveDebounce),
		cancel:    cancel,
	}
	s.current.Store(&initial)
	s.touch()

	s.Carousels.Sync(initial.Document, initial.SelectedID)
	s.Carousels.Start(ctx, func(nodeID string, index int) {
		svc.live.Publish(pageID, messaging.LiveEvent{
			Type:    messaging.EventSlide,
			Payload: map[string]any{"nodeId": nodeID, "index": index},
		})
	})

	go s.run(initial)
	return s
}

func (s *Session) run(state editor.State) {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.commands:
			next, err := s.apply(cmd, state)
			if err == nil && (next.Revision != state.Revision || next.Dirty != state.Dirty) {
				prev := state
				state = next
				snapshot := state
				s.current.Store(&snapshot)
				s.afterChange(prev, state)
			}
			cmd.reply <- commandResult{state: state, err: err}
		}
	}
}

// apply runs one command, turning a panic into an error so a bad command cannot
// take the session goroutine down with it.
func (s *Session) apply(cmd command, state editor.State) (next editor.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = state, fmt.Errorf("%w: %v", ErrCommandPanicked, r)
			s.svc.logger.LogError(logging.ChannelEditor, "apply", err, s.PageID, nil)
		}
	}()
	return cmd.apply(state)
}

// afterChange runs on the session goroutine after every state change.
func (s *Session) afterChange(prev, next editor.State) {
	if next.Revision != prev.Revision {
		s.Carousels.Sync(next.Document, next.SelectedID)
		s.svc.live.Publish(s.PageID, messaging.LiveEvent{
			Type:     messaging.EventState,
			Revision: next.Revision,
			Payload:  NewStateView(s.PageID, next),
		})
	}
	if next.Dirty && next.Revision != prev.Revision {
		s.autosave(s.autosaveNow)
	}
}

// State returns the latest state snapshot.
func (s *Session) State() editor.State {
	return *s.current.Load()
}

// LastActive returns the time of the last command or read.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// do queues apply on the session goroutine and waits for the resulting state.
func (s *Session) do(ctx context.Context, apply func(editor.State) (editor.State, error)) (editor.State, error) {
	s.touch()
	reply := make(chan commandResult, 1)
	select {
	case s.commands <- command{apply: apply, reply: reply}:
	case <-s.done:
		return editor.State{}, ErrSessionClosed
	case <-ctx.Done():
		return editor.State{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.state, r.err
	case <-s.stopped:
		return editor.State{}, ErrSessionClosed
	case <-ctx.Done():
		return editor.State{}, ctx.Err()
	}
}

// Dispatch applies one intent.
func (s *Session) Dispatch(ctx context.Context, in editor.Intent) (editor.State, error) {
	start := time.Now()
	st, err := s.do(ctx, func(st editor.State) (editor.State, error) {
		return editor.Reduce(st, in), nil
	})
	if err == nil {
		s.svc.logger.LogIntent(s.PageID, in.Name(), st.Revision, st.History.Len(), time.Since(start))
	}
	return st, err
}

func (s *Session) autosaveNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.svc.logger.LogError(logging.ChannelEditor, "autosave", err, s.PageID, nil)
	}
}

// Flush persists the current draft if it has unsaved changes, then marks the
// saved revision clean. A failed save leaves the session dirty.
func (s *Session) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	st := s.State()
	if !st.Dirty {
		return nil
	}

	doc := page.Document{Content: st.Document, PageStyles: st.PageStyles}
	if _, err := s.svc.pages.SaveDraft(s.PageID, doc); err != nil {
		s.svc.live.Publish(s.PageID, messaging.LiveEvent{
			Type:     messaging.EventError,
			Revision: st.Revision,
			Payload:  map[string]string{"error": "draft could not be saved"},
		})
		return err
	}
	s.svc.cache.InvalidatePage(s.PageID)

	s.svc.live.Publish(s.PageID, messaging.LiveEvent{
		Type:     messaging.EventSaved,
		Revision: st.Revision,
		Payload:  map[string]string{"digest": history.DocumentDigest(doc).String()},
	})
	s.svc.logger.Editor().Debug("Draft saved", "pageId", s.PageID, "revision", st.Revision)

	_, err := s.do(ctx, func(cur editor.State) (editor.State, error) {
		return editor.Reduce(cur, editor.MarkSaved{Revision: st.Revision}), nil
	})
	if err == ErrSessionClosed {
		return nil
	}
	return err
}

// close flushes pending changes and stops the session goroutine and carousels.
func (s *Session) close(ctx context.Context) error {
	s.autosave(func() {})
	err := s.Flush(ctx)
	s.closing.Do(func() {
		close(s.done)
		<-s.stopped
		s.cancel()
	})
	return err
}
