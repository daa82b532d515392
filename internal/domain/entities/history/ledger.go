// Package history holds the linear undo/redo ledger of canvas snapshots.
package history

import (
	"encoding/hex"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"golang.org/x/crypto/blake2b"
)

// Digest is the BLAKE2b-256 sum of a node list's canonical JSON.
type Digest [blake2b.Size256]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DigestOf returns the digest two snapshots are compared by.
func DigestOf(nodes []*page.Node) Digest {
	return blake2b.Sum256(page.MarshalNodes(nodes))
}

// Entry is one snapshot of the top-level node list.
type Entry struct {
	Content   []*page.Node `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Digest    Digest       `json:"-"`
}

// Ledger is a value type. Every mutating method returns a new ledger and leaves
// the receiver's entries untouched, so copies held by older states stay valid.
// CurrentIndex is meaningful only when Entries is non-empty.
type Ledger struct {
	Entries      []Entry `json:"entries"`
	CurrentIndex int     `json:"currentIndex"`
	// Limit caps the number of retained entries, dropping the oldest. Zero means unbounded.
	Limit int `json:"limit,omitempty"`
}

// New returns an empty ledger retaining at most limit entries.
func New(limit int) Ledger {
	return Ledger{Limit: limit}
}

func (l Ledger) Len() int { return len(l.Entries) }

func (l Ledger) CanUndo() bool { return len(l.Entries) > 0 && l.CurrentIndex > 0 }

func (l Ledger) CanRedo() bool { return len(l.Entries) > 0 && l.CurrentIndex < len(l.Entries)-1 }

// Current returns the entry at the pointer.
func (l Ledger) Current() (Entry, bool) {
	if len(l.Entries) == 0 {
		return Entry{}, false
	}
	return l.Entries[l.CurrentIndex], true
}

// Append records a snapshot of nodes unless it serializes identically to the
// current entry. Entries after the pointer are discarded. The second result
// reports whether an entry was added.
func (l Ledger) Append(nodes []*page.Node, at time.Time) (Ledger, bool) {
	digest := DigestOf(nodes)
	if cur, ok := l.Current(); ok && cur.Digest == digest {
		return l, false
	}

	keep := 0
	if len(l.Entries) > 0 {
		keep = l.CurrentIndex + 1
	}
	start := 0
	if l.Limit > 0 && keep+1 > l.Limit {
		start = keep + 1 - l.Limit
	}

	entries := make([]Entry, 0, keep-start+1)
	entries = append(entries, l.Entries[start:keep]...)
	entries = append(entries, Entry{
		Content:   page.CloneNodes(nodes),
		Timestamp: at,
		Digest:    digest,
	})

	return Ledger{Entries: entries, CurrentIndex: len(entries) - 1, Limit: l.Limit}, true
}

// Undo moves the pointer back one entry and returns a deep copy of that entry's
// content. At the oldest entry it is a no-op and ok is false.
func (l Ledger) Undo() (Ledger, []*page.Node, bool) {
	if !l.CanUndo() {
		return l, nil, false
	}
	l.CurrentIndex--
	return l, page.CloneNodes(l.Entries[l.CurrentIndex].Content), true
}

// Redo moves the pointer forward one entry. At the newest entry it is a no-op.
func (l Ledger) Redo() (Ledger, []*page.Node, bool) {
	if !l.CanRedo() {
		return l, nil, false
	}
	l.CurrentIndex++
	return l, page.CloneNodes(l.Entries[l.CurrentIndex].Content), true
}

// DocumentDigest covers both the node list and the page styles of a document.
func DocumentDigest(doc page.Document) Digest {
	return blake2b.Sum256(page.MarshalDocument(doc))
}
