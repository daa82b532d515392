package history

import (
	"testing"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(ids ...string) []*page.Node {
	out := make([]*page.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, &page.Node{ID: id, Kind: page.KindText, Styles: page.NewStyles(), Content: "<p>" + id + "</p>"})
	}
	return out
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAppendSkipsIdenticalSnapshot(t *testing.T) {
	l, added := New(0).Append(nodes("a"), t0)
	require.True(t, added)

	l, added = l.Append(nodes("a"), t0.Add(time.Second))
	assert.False(t, added)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.CurrentIndex)
}

func TestAppendTruncatesRedoBranch(t *testing.T) {
	l := New(0)
	for _, id := range []string{"a", "b", "c"} {
		l, _ = l.Append(nodes(id), t0)
	}
	l, _, ok := l.Undo()
	require.True(t, ok)
	l, _, ok = l.Undo()
	require.True(t, ok)
	assert.Equal(t, 0, l.CurrentIndex)

	l, added := l.Append(nodes("d"), t0)
	require.True(t, added)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, l.Len()-1, l.CurrentIndex)

	_, _, ok = l.Redo()
	assert.False(t, ok)
}

func TestUndoRedoExhaustionIsNoop(t *testing.T) {
	var empty Ledger
	_, got, ok := empty.Undo()
	assert.False(t, ok)
	assert.Nil(t, got)
	_, _, ok = empty.Redo()
	assert.False(t, ok)

	l, _ := New(0).Append(nodes("a"), t0)
	same, _, ok := l.Undo()
	assert.False(t, ok)
	assert.Equal(t, l.CurrentIndex, same.CurrentIndex)
}

func TestUndoReturnsDeepCopy(t *testing.T) {
	l, _ := New(0).Append(nodes("a"), t0)
	l, _ = l.Append(nodes("b"), t0)

	l, got, ok := l.Undo()
	require.True(t, ok)
	got[0].Content = "mutated"

	cur, _ := l.Current()
	assert.Equal(t, "<p>a</p>", cur.Content[0].Content)
}

func TestAppendDoesNotAliasCaller(t *testing.T) {
	src := nodes("a")
	l, _ := New(0).Append(src, t0)
	src[0].Content = "changed"

	cur, _ := l.Current()
	assert.Equal(t, "<p>a</p>", cur.Content[0].Content)
}

func TestOlderLedgerSurvivesAppend(t *testing.T) {
	l1, _ := New(0).Append(nodes("a"), t0)
	l1, _ = l1.Append(nodes("b"), t0)
	l1, _, _ = l1.Undo()

	l2, _ := l1.Append(nodes("c"), t0)

	assert.Equal(t, 2, l1.Len())
	assert.Equal(t, "b", l1.Entries[1].Content[0].ID)
	assert.Equal(t, "c", l2.Entries[1].Content[0].ID)
}

func TestLimitDropsOldest(t *testing.T) {
	l := New(2)
	for _, id := range []string{"a", "b", "c"} {
		l, _ = l.Append(nodes(id), t0)
	}
	require.Equal(t, 2, l.Len())
	assert.Equal(t, "b", l.Entries[0].Content[0].ID)
	assert.Equal(t, 1, l.CurrentIndex)
}

func TestDigestIgnoresPointerIdentity(t *testing.T) {
	assert.Equal(t, DigestOf(nodes("x")), DigestOf(nodes("x")))
	assert.NotEqual(t, DigestOf(nodes("x")), DigestOf(nodes("y")))
	assert.Equal(t, DigestOf(nil), DigestOf([]*page.Node{}))
	assert.Len(t, DigestOf(nil).String(), 64)
}
