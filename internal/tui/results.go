package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/billmal071/booksearch/internal/gbooks"
)

// BookItem wraps a Book for the list component
type BookItem struct {
	Book gbooks.Book
}

func (b BookItem) Title() string       { return b.Book.Title() }
func (b BookItem) Description() string { return b.Book.Author() }
func (b BookItem) FilterValue() string { return b.Book.Title() }

// BookDelegate renders one row per book: title, then author
type BookDelegate struct{}

func (d BookDelegate) Height() int                             { return 2 }
func (d BookDelegate) Spacing() int                            { return 1 }
func (d BookDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d BookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	book, ok := item.(BookItem)
	if !ok {
		return
	}

	title := truncate(book.Title(), m.Width()-8)

	var str string
	if index == m.Index() {
		str = SelectedStyle.Render(fmt.Sprintf("  ➤ %d. %s", index+1, title))
	} else {
		str = NormalStyle.Render(fmt.Sprintf("    %d. %s", index+1, title))
	}
	str += "\n" + AuthorStyle.Render(fmt.Sprintf("      %s", book.Description()))

	fmt.Fprint(w, str)
}

// ResultsView binds a sequence of books to a scrollable list.
// Rows are drawn from the list's viewport, so only visible rows are rendered.
type ResultsView struct {
	list list.Model
}

// NewResultsView creates an empty results list
func NewResultsView(width, height int) ResultsView {
	l := list.New(nil, BookDelegate{}, width, height)
	l.Title = "Results"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle

	return ResultsView{list: l}
}

// Render replaces the displayed rows with books, keeping their order
func (v *ResultsView) Render(books []gbooks.Book) tea.Cmd {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = BookItem{Book: b}
	}
	v.list.ResetSelected()
	return v.list.SetItems(items)
}

// Clear removes all rows
func (v *ResultsView) Clear() tea.Cmd {
	return v.Render(nil)
}

// Len returns the number of rows
func (v ResultsView) Len() int {
	return len(v.list.Items())
}

// Books returns the displayed books in order
func (v ResultsView) Books() []gbooks.Book {
	items := v.list.Items()
	books := make([]gbooks.Book, 0, len(items))
	for _, it := range items {
		if b, ok := it.(BookItem); ok {
			books = append(books, b.Book)
		}
	}
	return books
}

// SetSize resizes the list
func (v *ResultsView) SetSize(width, height int) {
	v.list.SetSize(width, height)
}

// Update forwards navigation messages to the list
func (v *ResultsView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v ResultsView) View() string {
	return v.list.View()
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 60
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
