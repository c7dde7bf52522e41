package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmal071/booksearch/internal/db"
	"github.com/billmal071/booksearch/internal/gbooks"
	"github.com/billmal071/booksearch/internal/search"
)

type fakeSearch struct {
	mu      sync.Mutex
	inputs  []string
	results map[string]search.Result
}

func (f *fakeSearch) Search(_ context.Context, input string) search.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if r, ok := f.results[input]; ok {
		return r
	}
	return search.Result{Query: input, Books: []gbooks.Book{}}
}

func (f *fakeSearch) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inputs...)
}

// collect runs cmd, expanding batches, and returns the produced messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findDone(t *testing.T, msgs []tea.Msg) searchDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(searchDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no searchDoneMsg produced")
	return searchDoneMsg{}
}

func typeQuery(m Screen, q string) Screen {
	m.input.SetValue(q)
	return m
}

func enter(m Screen) (Screen, tea.Cmd) {
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(Screen), cmd
}

func deliver(m Screen, msg tea.Msg) (Screen, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(Screen), cmd
}

func TestScreen_EmptyInputShowsToast(t *testing.T) {
	fs := &fakeSearch{}
	m := NewScreen(ScreenOptions{Search: fs.Search, ToastAfter: time.Millisecond})

	m = typeQuery(m, "   ")
	m, cmd := enter(m)

	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, EmptyInputMessage, m.Toast())
	assert.Contains(t, m.View(), EmptyInputMessage)

	// the only command is the toast timer
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.Empty(t, fs.calls())

	m, _ = deliver(m, msgs[0])
	assert.Empty(t, m.Toast())
}

func TestScreen_StaleToastTimerKeepsNewerToast(t *testing.T) {
	m := NewScreen(ScreenOptions{Search: (&fakeSearch{}).Search})

	m, _ = enter(m)
	first := m.toastID
	m, _ = enter(m)

	m, _ = deliver(m, toastExpiredMsg{id: first})
	assert.Equal(t, EmptyInputMessage, m.Toast())
}

func TestScreen_SearchDisplaysResults(t *testing.T) {
	dune := gbooks.NewBook("Frank Herbert", "Dune")
	fs := &fakeSearch{results: map[string]search.Result{
		"dune": {Query: "dune", Books: []gbooks.Book{dune}},
	}}
	m := NewScreen(ScreenOptions{Search: fs.Search})

	m = typeQuery(m, "dune")
	m, cmd := enter(m)
	assert.Equal(t, StateSearching, m.State())
	assert.Contains(t, m.View(), "Searching")

	done := findDone(t, collect(cmd))
	m, _ = deliver(m, done)

	assert.Equal(t, StateDisplaying, m.State())
	assert.Equal(t, []gbooks.Book{dune}, m.Books())
	assert.Equal(t, []string{"dune"}, fs.calls())

	view := m.View()
	assert.Contains(t, view, "Dune")
	assert.Contains(t, view, "Frank Herbert")
	assert.NotContains(t, view, EmptyMessage)
}

func TestScreen_EmptyResultsShowMessage(t *testing.T) {
	fs := &fakeSearch{}
	m := NewScreen(ScreenOptions{Search: fs.Search})

	m = typeQuery(m, "zzzzqqq")
	m, cmd := enter(m)
	m, _ = deliver(m, findDone(t, collect(cmd)))

	assert.Equal(t, StateDisplaying, m.State())
	assert.Empty(t, m.Books())
	assert.Contains(t, m.View(), EmptyMessage)
	assert.NotContains(t, m.View(), "could not be reached")
}

func TestScreen_NetworkFailureHint(t *testing.T) {
	fail := search.Result{
		Query: "dune",
		Books: []gbooks.Book{},
		Err:   &gbooks.NetworkError{URL: "u", Err: context.DeadlineExceeded},
	}
	fs := &fakeSearch{results: map[string]search.Result{"dune": fail}}
	m := NewScreen(ScreenOptions{Search: fs.Search})

	m = typeQuery(m, "dune")
	m, cmd := enter(m)
	m, _ = deliver(m, findDone(t, collect(cmd)))

	view := m.View()
	assert.Contains(t, view, EmptyMessage)
	assert.Contains(t, view, "could not be reached")
}

func TestScreen_NewSearchClearsPriorResults(t *testing.T) {
	fs := &fakeSearch{results: map[string]search.Result{
		"dune": {Books: []gbooks.Book{gbooks.NewBook("Frank Herbert", "Dune")}},
	}}
	m := NewScreen(ScreenOptions{Search: fs.Search})

	m = typeQuery(m, "dune")
	m, cmd := enter(m)
	m, _ = deliver(m, findDone(t, collect(cmd)))
	require.Len(t, m.Books(), 1)

	m = typeQuery(m, "emma")
	m, _ = enter(m)
	assert.Equal(t, StateSearching, m.State())
	assert.Empty(t, m.Books())
}

func TestScreen_DiscardsStaleResults(t *testing.T) {
	dune := gbooks.NewBook("Frank Herbert", "Dune")
	emma := gbooks.NewBook("Jane Austen", "Emma")
	fs := &fakeSearch{results: map[string]search.Result{
		"dune": {Books: []gbooks.Book{dune}},
		"emma": {Books: []gbooks.Book{emma}},
	}}
	m := NewScreen(ScreenOptions{Search: fs.Search})

	m = typeQuery(m, "dune")
	m, first := enter(m)
	m = typeQuery(m, "emma")
	m, second := enter(m)

	staleDone := findDone(t, collect(first))
	currentDone := findDone(t, collect(second))

	// the older search finishes last in the worst case; check both orders
	m1, _ := deliver(m, currentDone)
	m1, _ = deliver(m1, staleDone)
	assert.Equal(t, []gbooks.Book{emma}, m1.Books())

	m2, _ := deliver(m, staleDone)
	assert.Equal(t, StateSearching, m2.State())
	m2, _ = deliver(m2, currentDone)
	assert.Equal(t, []gbooks.Book{emma}, m2.Books())
}

func TestScreen_OnResultHook(t *testing.T) {
	var got []search.Result
	fs := &fakeSearch{results: map[string]search.Result{
		"dune": {Query: "dune", Books: []gbooks.Book{gbooks.NewBook("Frank Herbert", "Dune")}},
	}}
	m := NewScreen(ScreenOptions{
		Search:   fs.Search,
		OnResult: func(r search.Result) { got = append(got, r) },
	})

	m = typeQuery(m, "dune")
	m, cmd := enter(m)
	_, cmd = deliver(m, findDone(t, collect(cmd)))
	collect(cmd)

	require.Len(t, got, 1)
	assert.Equal(t, "dune", got[0].Query)
}

func TestScreen_InitialQueryStartsSearch(t *testing.T) {
	fs := &fakeSearch{}
	m := NewScreen(ScreenOptions{Search: fs.Search, Query: "the hobbit"})

	var sawEnter bool
	for _, msg := range collect(m.Init()) {
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
			sawEnter = true
		}
	}
	assert.True(t, sawEnter)
	assert.Equal(t, "the hobbit", m.input.Value())
}

func TestScreen_QuitCancelsInFlight(t *testing.T) {
	var seen context.Context
	m := NewScreen(ScreenOptions{Search: func(ctx context.Context, input string) search.Result {
		seen = ctx
		return search.Result{Books: []gbooks.Book{}}
	}})

	m = typeQuery(m, "dune")
	m, cmd := enter(m)
	findDone(t, collect(cmd))

	model, quit := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, quit)
	assert.Equal(t, "", model.View())
	require.NotNil(t, seen)
	assert.Error(t, seen.Err())
}

func TestResultsView_RenderKeepsOrder(t *testing.T) {
	v := NewResultsView(70, 20)
	books := []gbooks.Book{
		gbooks.NewBook("A", "One"),
		gbooks.NewBook("B", "Two"),
		gbooks.NewBook("C", "Three"),
	}
	v.Render(books)
	assert.Equal(t, books, v.Books())
	assert.Equal(t, 3, v.Len())

	v.Clear()
	assert.Equal(t, 0, v.Len())
}

func TestHistoryItem_Description(t *testing.T) {
	item := HistoryItem{History: &db.SearchHistory{
		Query:       "dune",
		ResultCount: 0,
		Outcome:     "network_error",
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 0, 0, time.Local),
	}}
	desc := item.Description()
	assert.True(t, strings.HasPrefix(desc, "0 results | network error"))
	assert.Contains(t, desc, "2026-01-02 03:04")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
