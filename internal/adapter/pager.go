package adapter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/filterline/internal/model"
)

// PagerEditor shows each buffer in a full-screen Bubble Tea pager. Quitting
// the pager disposes the buffer.
type PagerEditor struct {
	mu      sync.Mutex
	output  io.Writer
	options []tea.ProgramOption
	count   int
}

// NewPagerEditor creates a pager rendering to output. Extra options are
// passed to every tea.Program.
func NewPagerEditor(output io.Writer, options ...tea.ProgramOption) *PagerEditor {
	return &PagerEditor{output: output, options: options}
}

// CreateBuffer starts a pager and returns its buffer. Only one pager runs at
// a time; the next CreateBuffer waits until the previous one is closed.
func (p *PagerEditor) CreateBuffer(ctx context.Context) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.count++

	title := fmt.Sprintf("Untitled-%d", p.count)

	opts := append([]tea.ProgramOption{tea.WithOutput(p.output), tea.WithAltScreen()}, p.options...)
	program := tea.NewProgram(newPagerModel(title), opts...)

	buf := &pagerBuffer{editor: p, program: program, done: make(chan struct{})}

	go func() {
		_, err := program.Run()
		buf.runErr = err
		close(buf.done)
	}()

	return buf, nil
}

// OpenFile is not supported by the pager; the path is shown on output.
func (p *PagerEditor) OpenFile(_ context.Context, path m.Path) error {
	_, err := fmt.Fprintln(p.output, path)

	return err
}

type pagerBuffer struct {
	editor  *PagerEditor
	program *tea.Program
	done    chan struct{}
	runErr  error
	once    sync.Once
}

func (b *pagerBuffer) Append(ctx context.Context, text string) error {
	if !b.Live() {
		return ErrBufferDisposed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	b.program.Send(appendMsg(text))

	return nil
}

func (b *pagerBuffer) Live() bool {
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Close marks the stream complete and waits for the user to leave the pager.
func (b *pagerBuffer) Close() error {
	var err error

	b.once.Do(func() {
		if b.Live() {
			b.program.Send(endOfStreamMsg{})
		}

		<-b.done
		err = b.runErr
		b.editor.mu.Unlock()
	})

	return err
}

type appendMsg string

type endOfStreamMsg struct{}

var (
	pagerTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Padding(0, 1)
	pagerInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// pagerModel is a read-only document view that grows as chunks arrive.
type pagerModel struct {
	title     string
	content   strings.Builder
	viewport  viewport.Model
	ready     bool
	streaming bool
	lines     int
}

func newPagerModel(title string) *pagerModel {
	return &pagerModel{title: title, streaming: true}
}

func (pm *pagerModel) Init() tea.Cmd {
	return nil
}

func (pm *pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		}

	case tea.WindowSizeMsg:
		height := msg.Height - lipgloss.Height(pm.headerView()) - lipgloss.Height(pm.footerView())
		if height < 1 {
			height = 1
		}

		if !pm.ready {
			pm.viewport = viewport.New(msg.Width, height)
			pm.viewport.SetContent(pm.content.String())
			pm.ready = true
		} else {
			pm.viewport.Width = msg.Width
			pm.viewport.Height = height
		}

	case appendMsg:
		pm.content.WriteString(string(msg))
		pm.lines += strings.Count(string(msg), "\n")

		if pm.ready {
			pm.viewport.SetContent(pm.content.String())
		}

		return pm, nil

	case endOfStreamMsg:
		pm.streaming = false

		return pm, nil
	}

	if !pm.ready {
		return pm, nil
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm *pagerModel) View() string {
	if !pm.ready {
		return "Loading…\n"
	}

	return fmt.Sprintf("%s\n%s\n%s", pm.headerView(), pm.viewport.View(), pm.footerView())
}

func (pm *pagerModel) headerView() string {
	return pagerTitleStyle.Render(pm.title)
}

func (pm *pagerModel) footerView() string {
	state := "end"
	if pm.streaming {
		state = "streaming…"
	}

	percent := 100.0
	if pm.ready {
		percent = pm.viewport.ScrollPercent() * 100
	}

	return pagerInfoStyle.Render(fmt.Sprintf("%d lines · %s · %3.f%% · q to close", pm.lines, state, percent))
}
