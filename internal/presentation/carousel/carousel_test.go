package carousel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

func TestTickWrapsAround(t *testing.T) {
	c := New(3, false)
	var seen []int
	for i := 0; i < 4; i++ {
		require.True(t, c.Tick())
		seen = append(seen, c.Index())
	}
	assert.Equal(t, []int{1, 2, 0, 1}, seen)
}

func TestTickIgnoredWithOneSlide(t *testing.T) {
	c := New(1, true)
	assert.False(t, c.Tick())
	assert.Equal(t, 0, c.Index())

	c = New(0, true)
	assert.False(t, c.Tick())
}

func TestHoverPausesInEveryMode(t *testing.T) {
	for _, interactive := range []bool{true, false} {
		c := New(3, interactive)
		c.SetHover(true)
		assert.True(t, c.Paused())
		assert.False(t, c.Tick())
		c.SetHover(false)
		assert.True(t, c.Tick())
		assert.Equal(t, 1, c.Index())
	}
}

func TestSelectionPausesOnlyInteractive(t *testing.T) {
	editor := New(2, true)
	editor.SetSelectionInside(true)
	assert.True(t, editor.Paused())
	assert.False(t, editor.Tick())

	preview := New(2, false)
	preview.SetSelectionInside(true)
	assert.False(t, preview.Paused())
	assert.True(t, preview.Tick())
}

func TestSetCountResetsOutOfRangeIndex(t *testing.T) {
	c := New(4, false)
	c.Tick()
	c.Tick()
	c.Tick()
	require.Equal(t, 3, c.Index())

	c.SetCount(2)
	assert.Equal(t, 0, c.Index())
	c.SetCount(5)
	assert.Equal(t, 0, c.Index())
}

func TestRunAdvancesUntilCancelled(t *testing.T) {
	c := New(3, false)
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 2*time.Millisecond, func(i int) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 4
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	mu.Lock()
	assert.Equal(t, []int{1, 2, 0, 1}, got[:4])
	mu.Unlock()
}

func TestRunStopsWhenCountDrops(t *testing.T) {
	c := New(1, false)
	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), time.Millisecond, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run kept going with a single slide")
	}

	c = New(3, false)
	done = make(chan struct{})
	go func() {
		c.Run(context.Background(), time.Millisecond, nil)
		close(done)
	}()
	c.SetCount(1)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after the count dropped")
	}
}

func timedDoc() []*page.Node {
	text := func(id string) *page.Node { return &page.Node{ID: id, Kind: page.KindText, Styles: page.NewStyles()} }
	slider := &page.Node{
		ID: "auto1", Kind: page.KindAutoScroll, Content: `{"intervalMs":2}`, Styles: page.NewStyles(),
		Children: []*page.Node{text("a"), text("b"), text("c")},
	}
	car := &page.Node{
		ID: "car1", Kind: page.KindImageCarousel, Styles: page.NewStyles(),
		Content: `{"slides":[{"id":"s1","image":"/1.jpg"},{"id":"s2","image":"/2.jpg"}]}`,
	}
	cols := &page.Node{
		ID: "cols1", Kind: page.KindColumns, Styles: page.NewStyles(),
		Content: page.EncodeContent(&page.ColumnsContent{Columns: []page.Column{{ID: "colA", Children: []*page.Node{car}}}}),
	}
	return []*page.Node{slider, cols, text("plain")}
}

func TestRegistrySyncTracksTimedNodes(t *testing.T) {
	r := NewRegistry(true, time.Second)
	doc := timedDoc()
	r.Sync(doc, "b")

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 0, r.Index("auto1", 3))
	assert.Equal(t, 0, r.Index("missing", 3))

	r.mu.Lock()
	auto := r.items["auto1"].carousel
	car := r.items["car1"].carousel
	r.mu.Unlock()
	assert.Equal(t, 3, auto.Count())
	assert.Equal(t, 2, car.Count())
	assert.True(t, auto.Paused(), "selection inside the slider pauses it")
	assert.False(t, car.Paused())

	r.Sync(doc[2:], "")
	assert.Equal(t, 0, r.Len())
}

func TestRegistryStartNotifiesTicks(t *testing.T) {
	r := NewRegistry(false, 2*time.Millisecond)
	r.Sync(timedDoc(), "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	ticks := map[string]int{}
	r.Start(ctx, func(id string, index int) {
		mu.Lock()
		ticks[id]++
		mu.Unlock()
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks["auto1"] > 1 && ticks["car1"] > 1
	}, time.Second, time.Millisecond)

	r.SetHover("auto1", true)
	r.mu.Lock()
	paused := r.items["auto1"].carousel.Paused()
	r.mu.Unlock()
	assert.True(t, paused)
}

func TestRegistryRelaunchesWhenCountRecoversDuringExit(t *testing.T) {
	r := NewRegistry(false, 2*time.Millisecond)
	r.Sync(timedDoc(), "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	ticks := 0
	r.Start(ctx, func(id string, index int) {
		if id != "auto1" {
			return
		}
		mu.Lock()
		ticks++
		mu.Unlock()
	})
	read := func() int {
		mu.Lock()
		defer mu.Unlock()
		return ticks
	}
	require.Eventually(t, func() bool { return read() > 0 }, time.Second, time.Millisecond)

	// The runner sees one slide and stops, then waits for the lock while the
	// count goes back up, as two quick syncs would leave it.
	r.mu.Lock()
	e := r.items["auto1"]
	e.carousel.SetCount(1)
	time.Sleep(30 * time.Millisecond)
	e.carousel.SetCount(3)
	r.mu.Unlock()

	before := read()
	require.Eventually(t, func() bool { return read() > before+1 }, time.Second, time.Millisecond)

	r.mu.Lock()
	running := e.running
	r.mu.Unlock()
	assert.True(t, running)
}

func TestRegistryIgnoresZeroInterval(t *testing.T) {
	r := NewRegistry(false, 0)
	doc := timedDoc()
	doc[0].Content = ""
	r.Sync(doc[:1], "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx, nil)

	r.mu.Lock()
	running := r.items["auto1"].running
	r.mu.Unlock()
	assert.False(t, running)
}
