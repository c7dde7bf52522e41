package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/billmal071/booksearch/internal/gbooks"
	"github.com/billmal071/booksearch/internal/search"
)

const (
	// EmptyMessage is shown in place of rows when a search yields nothing
	EmptyMessage = "No results available. Try another search."
	// EmptyInputMessage is the notice for a search with no input
	EmptyInputMessage = "You did not enter anything"

	defaultToastDuration = 2 * time.Second
)

// State is the screen's position in the search cycle
type State int

const (
	StateIdle State = iota
	StateSearching
	StateDisplaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateDisplaying:
		return "displaying"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// SearchFunc runs one search. It is called off the UI loop.
type SearchFunc func(ctx context.Context, input string) search.Result

// ResultHook is told about every search that completes and is displayed
type ResultHook func(search.Result)

// searchDoneMsg carries a finished search back to the UI loop
type searchDoneMsg struct {
	gen    uint64
	result search.Result
}

// toastExpiredMsg clears the toast with the matching id
type toastExpiredMsg struct {
	id int
}

// ScreenOptions configures a Screen
type ScreenOptions struct {
	Search     SearchFunc
	OnResult   ResultHook
	Query      string // pre-filled and started on Init when non-empty
	ToastAfter time.Duration
}

// Screen is the Bubble Tea model for the search screen.
// All fields change only inside Update, on the UI loop.
type Screen struct {
	search   SearchFunc
	onResult ResultHook

	input   textinput.Model
	results ResultsView
	spinner spinner.Model

	state    State
	gen      uint64
	cancel   context.CancelFunc
	last     search.Result
	autoRun  bool
	quitting bool

	toast         string
	toastID       int
	toastDuration time.Duration
}

// NewScreen creates the search screen
func NewScreen(opts ScreenOptions) Screen {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "title, author or keyword"
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(WarningStyle))

	s := Screen{
		search:        opts.Search,
		onResult:      opts.OnResult,
		input:         ti,
		results:       NewResultsView(70, 20),
		spinner:       sp,
		state:         StateIdle,
		toastDuration: opts.ToastAfter,
	}
	if s.toastDuration <= 0 {
		s.toastDuration = defaultToastDuration
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		s.input.SetValue(q)
		s.autoRun = true
	}
	return s
}

func (m Screen) Init() tea.Cmd {
	if m.autoRun {
		return tea.Batch(textinput.Blink, func() tea.Msg {
			return tea.KeyMsg{Type: tea.KeyEnter}
		})
	}
	return textinput.Blink
}

func (m Screen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "up", "down", "pgup", "pgdown", "home", "end":
			cmd := m.results.Update(msg)
			return m, cmd
		}

	case searchDoneMsg:
		if msg.gen != m.gen {
			// a newer search has started since this one was dispatched
			return m, nil
		}
		return m.display(msg.result)

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateSearching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 10)
		m.results.SetSize(msg.Width, max(msg.Height-8, 6))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit is the search action
func (m Screen) submit() (tea.Model, tea.Cmd) {
	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		return m.showToast(EmptyInputMessage)
	}

	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.gen++
	m.state = StateSearching
	m.last = search.Result{}

	clearCmd := m.results.Clear()
	return m, tea.Batch(
		clearCmd,
		m.spinner.Tick,
		runSearch(ctx, m.search, m.gen, input),
	)
}

// display renders a completed search
func (m Screen) display(res search.Result) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.state = StateDisplaying
	m.last = res

	cmds := []tea.Cmd{m.results.Render(res.Books)}
	if m.onResult != nil {
		hook := m.onResult
		cmds = append(cmds, func() tea.Msg {
			hook(res)
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

func (m Screen) showToast(text string) (tea.Model, tea.Cmd) {
	m.toastID++
	m.toast = text
	id := m.toastID
	return m, tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func runSearch(ctx context.Context, fn SearchFunc, gen uint64, input string) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{gen: gen, result: fn(ctx, input)}
	}
}

func (m Screen) View() string {
	if m.quitting {
		return ""
	}

	var view strings.Builder
	view.WriteString("\n")
	view.WriteString(TitleStyle.Render("  Book Search"))
	view.WriteString("\n")
	view.WriteString("  " + m.input.View())
	view.WriteString("\n\n")

	if m.toast != "" {
		view.WriteString("  " + ToastStyle.Render(m.toast))
		view.WriteString("\n\n")
	}

	switch m.state {
	case StateSearching:
		view.WriteString(fmt.Sprintf("  %s Searching for %q...\n", m.spinner.View(), strings.TrimSpace(m.input.Value())))
	case StateDisplaying:
		if m.results.Len() == 0 {
			view.WriteString(statusView(m.last))
		} else {
			view.WriteString(m.results.View())
			view.WriteString("\n")
		}
	}

	help := []string{"enter: search", "↑/↓: scroll", "esc: quit"}
	view.WriteString(HelpStyle.Render("  " + strings.Join(help, " • ")))
	return view.String()
}

// statusView renders the empty-state region for a finished search
func statusView(res search.Result) string {
	out := "  " + WarningStyle.Render(EmptyMessage) + "\n"
	if hint := failureHint(res.Err); hint != "" {
		out += "  " + ErrorStyle.Render(hint) + "\n"
	}
	return out
}

func failureHint(err error) string {
	var netErr *gbooks.NetworkError
	var decErr *gbooks.DecodeError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &netErr):
		return "(the catalog could not be reached)"
	case errors.Is(err, gbooks.ErrNoData), errors.As(err, &decErr):
		return "(the catalog response could not be read)"
	}
	return ""
}

// State returns the current screen state
func (m Screen) State() State { return m.state }

// Books returns the books currently displayed
func (m Screen) Books() []gbooks.Book { return m.results.Books() }

// Toast returns the visible notice, if any
func (m Screen) Toast() string { return m.toast }

// RunScreen displays the search screen until the user quits
func RunScreen(ctx context.Context, opts ScreenOptions) error {
	p := tea.NewProgram(NewScreen(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
