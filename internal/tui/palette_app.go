package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"nathanbeddoewebdev/swatch/internal/dispatch"
	"nathanbeddoewebdev/swatch/internal/domain"
	"nathanbeddoewebdev/swatch/internal/logging"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/service"
	"nathanbeddoewebdev/swatch/internal/tui/components"
	"nathanbeddoewebdev/swatch/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"golang.org/x/image/colornames"
)

// --- Messages ---

type paletteResultMsg dispatch.Result

type copyAckMsg struct {
	ack palette.Ack
}

// --- Focus ---

type focusArea int

const (
	focusName focusArea = iota
	focusHex
	focusRGB
	focusGrid
)

var inputModes = [...]dispatch.Mode{dispatch.ModeName, dispatch.ModeHex, dispatch.ModeRGB}

// --- Palette app model ---

// AppOptions configures the interactive palette app.
type AppOptions struct {
	Fetcher   dispatch.Fetcher
	Clipboard palette.Clipboard
	Logger    *slog.Logger

	// Service is shown in the header, usually the service URL.
	Service string

	// Initial, when set, is requested as soon as the app starts.
	Initial *dispatch.Request
}

type paletteAppModel struct {
	ctx        context.Context
	dispatcher *dispatch.Dispatcher
	clipboard  palette.Clipboard
	logger     *slog.Logger
	service    string

	inputs [3]textinput.Model
	focus  focusArea

	swatches []palette.Swatch
	selected int
	shown    dispatch.Request

	loading bool
	pending dispatch.Request
	spinner spinner.Model

	// ack is the copy acknowledgment awaiting dismissal. While set, all
	// other input is ignored.
	ack *palette.Ack

	zones *zone.Manager

	width  int
	height int

	status  string
	isError bool
}

// RunPaletteApp starts the interactive palette TUI.
func RunPaletteApp(ctx context.Context, opts AppOptions) error {
	m := newPaletteAppModel(ctx, opts)
	defer m.zones.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run palette app: %w", err)
	}
	return nil
}

func newPaletteAppModel(ctx context.Context, opts AppOptions) paletteAppModel {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	name := textinput.New()
	name.Placeholder = "color name, e.g. ocean"
	name.CharLimit = service.MaxNameLength
	name.Width = 30
	name.ShowSuggestions = true
	name.SetSuggestions(colornames.Names)

	hex := textinput.New()
	hex.Placeholder = "#rrggbb"
	hex.CharLimit = 7
	hex.Width = 30

	rgb := textinput.New()
	rgb.Placeholder = "r, g, b"
	rgb.CharLimit = 15
	rgb.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentText

	m := paletteAppModel{
		ctx:        ctx,
		dispatcher: dispatch.New(opts.Fetcher, logger),
		clipboard:  opts.Clipboard,
		logger:     logger,
		service:    opts.Service,
		inputs:     [3]textinput.Model{name, hex, rgb},
		spinner:    sp,
		zones:      zone.New(),
	}

	if opts.Initial != nil {
		m.pending = *opts.Initial
		switch opts.Initial.Mode {
		case dispatch.ModeHex:
			m.focus = focusHex
		case dispatch.ModeRGB:
			m.focus = focusRGB
		}
		m.inputs[m.focus].SetValue(opts.Initial.Value)
	}
	m.inputs[m.focus].Focus()

	return m
}

func (m paletteAppModel) Init() tea.Cmd {
	if m.pending.Mode != "" {
		return tea.Batch(textinput.Blink, func() tea.Msg { return submitMsg{} })
	}
	return textinput.Blink
}

type submitMsg struct{}

func (m paletteAppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.ack != nil {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.ack = nil
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.ack != nil {
			return m, nil
		}
		return m.handleMouse(msg)

	case submitMsg:
		return m.submit()

	case paletteResultMsg:
		return m.handleResult(dispatch.Result(msg))

	case copyAckMsg:
		ack := msg.ack
		m.ack = &ack
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus != focusGrid {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m paletteAppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.dispatcher.Cancel()
		return m, tea.Quit
	case "esc":
		if m.loading {
			m.dispatcher.Cancel()
			m.loading = false
			m.setStatus("Request cancelled", false)
			return m, nil
		}
		return m, tea.Quit
	case "tab":
		if m.focus == focusName && m.hasSuggestion() {
			var cmd tea.Cmd
			m.inputs[focusName], cmd = m.inputs[focusName].Update(msg)
			return m, cmd
		}
		return m.setFocus(m.nextFocus(1)), textinput.Blink
	case "shift+tab":
		return m.setFocus(m.nextFocus(-1)), textinput.Blink
	}

	if m.focus == focusGrid {
		return m.handleGridKey(msg)
	}

	if msg.String() == "enter" {
		m.pending = dispatch.Request{Mode: inputModes[m.focus], Value: m.inputs[m.focus].Value()}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m paletteAppModel) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.dispatcher.Cancel()
		return m, tea.Quit
	case "left", "h":
		m.selected = moveSelection(m.swatches, m.selected, -1, 0)
	case "right", "l":
		m.selected = moveSelection(m.swatches, m.selected, 1, 0)
	case "up", "k":
		m.selected = moveSelection(m.swatches, m.selected, 0, -1)
	case "down", "j":
		m.selected = moveSelection(m.swatches, m.selected, 0, 1)
	case "enter", "c", " ":
		if m.selected < len(m.swatches) {
			return m, m.copySwatch(m.swatches[m.selected])
		}
	}
	return m, nil
}

func (m paletteAppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i := range m.swatches {
		if z := m.zones.Get(components.SwatchZoneID(i)); z != nil && z.InBounds(msg) {
			m.selected = i
			m = m.setFocus(focusGrid)
			return m, m.copySwatch(m.swatches[i])
		}
	}
	return m, nil
}

// submit validates the pending request and dispatches it, superseding any
// request still in flight.
func (m paletteAppModel) submit() (tea.Model, tea.Cmd) {
	req, err := dispatch.Normalize(m.pending.Mode, m.pending.Value)
	if err != nil {
		m.setStatus(errorMessage(err, m.service), true)
		return m, nil
	}

	ticket := m.dispatcher.Begin(m.ctx)
	d := m.dispatcher
	m.loading = true
	m.pending = req
	m.setStatus("", false)

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return paletteResultMsg(d.Run(ticket, req))
	})
}

func (m paletteAppModel) handleResult(res dispatch.Result) (tea.Model, tea.Cmd) {
	if !m.dispatcher.Accept(res) {
		return m, nil
	}
	m.loading = false

	if res.Err != nil {
		m.setStatus(errorMessage(res.Err, m.service), true)
		return m, nil
	}

	presenter := palette.NewPresenter(m.clipboard, nil)
	presenter.Present(res.Response, palette.DisplayFunc(func(s []palette.Swatch) {
		m.swatches = s
	}))
	m.selected = 0
	m.shown = res.Request
	m.setStatus(fmt.Sprintf("%d colors for %s", len(m.swatches), res.Request), false)
	return m, nil
}

// copySwatch copies s off the UI goroutine and reports the acknowledgment.
func (m paletteAppModel) copySwatch(s palette.Swatch) tea.Cmd {
	cb := m.clipboard
	logger := m.logger
	return func() tea.Msg {
		var ack palette.Ack
		presenter := palette.NewPresenter(cb, palette.NotifierFunc(func(a palette.Ack) { ack = a }))
		if err := presenter.Copy(s); err != nil {
			logger.Warn("clipboard write failed", "text", ack.Text, "err", err)
		}
		return copyAckMsg{ack: ack}
	}
}

// hasSuggestion reports whether tab would complete the name input rather
// than move focus.
func (m paletteAppModel) hasSuggestion() bool {
	in := m.inputs[focusName]
	s := in.CurrentSuggestion()
	return s != "" && !strings.EqualFold(s, in.Value())
}

func (m *paletteAppModel) setStatus(msg string, isError bool) {
	m.status = msg
	m.isError = isError
}

func (m paletteAppModel) nextFocus(step int) focusArea {
	n := 3
	if len(m.swatches) > 0 {
		n = 4
	}
	return focusArea((int(m.focus) + step + n) % n)
}

func (m paletteAppModel) setFocus(f focusArea) paletteAppModel {
	for i := range m.inputs {
		if focusArea(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	m.focus = f
	return m
}

// moveSelection moves sel by dx within its kind row, or by dy rows keeping
// the column where possible.
func moveSelection(swatches []palette.Swatch, sel, dx, dy int) int {
	if len(swatches) == 0 {
		return 0
	}

	type span struct{ start, end int }
	var rows []span
	row := 0
	for i := 0; i < len(swatches); {
		j := i
		for j < len(swatches) && swatches[j].Kind == swatches[i].Kind {
			j++
		}
		if sel >= i && sel < j {
			row = len(rows)
		}
		rows = append(rows, span{i, j})
		i = j
	}

	cur := rows[row]
	if dx != 0 {
		return min(max(sel+dx, cur.start), cur.end-1)
	}

	target := min(max(row+dy, 0), len(rows)-1)
	col := sel - cur.start
	next := rows[target]
	return min(next.start+col, next.end-1)
}

// errorMessage turns a request error into a status line.
func errorMessage(err error, svc string) string {
	switch {
	case errors.Is(err, domain.ErrNetwork):
		return "Could not reach the palette service at " + svc
	case errors.Is(err, context.DeadlineExceeded):
		return "The palette service timed out"
	}
	return "Error: " + err.Error()
}

// --- View ---

func (m paletteAppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "palette", m.service)
	footer := components.Footer(m.width, m.footerBindings())

	statusBar := ""
	if m.loading {
		statusBar = components.StatusBar(m.width, m.spinner.View()+" Generating palette for "+m.pending.String()+"...", false)
	} else if m.status != "" {
		statusBar = components.StatusBar(m.width, m.status, m.isError)
	}

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := 0
	if statusBar != "" {
		statusH = lipgloss.Height(statusBar)
	}
	contentH := max(m.height-headerH-footerH-statusH, 1)

	var content string
	if m.ack != nil {
		content = m.renderAck(contentH)
	} else {
		content = m.renderContent(contentH)
	}

	sections := []string{header, content}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m paletteAppModel) footerBindings() []components.KeyBinding {
	switch {
	case m.ack != nil:
		return []components.KeyBinding{{Key: "any key", Desc: "dismiss"}}
	case m.focus == focusGrid:
		return []components.KeyBinding{
			{Key: "←↑↓→", Desc: "select"},
			{Key: "enter/click", Desc: "copy"},
			{Key: "tab", Desc: "inputs"},
			{Key: "q", Desc: "quit"},
		}
	case m.loading:
		return []components.KeyBinding{
			{Key: "enter", Desc: "generate"},
			{Key: "esc", Desc: "cancel request"},
		}
	}
	if m.focus == focusName && m.hasSuggestion() {
		return []components.KeyBinding{
			{Key: "enter", Desc: "generate"},
			{Key: "tab", Desc: "complete"},
			{Key: "esc", Desc: "quit"},
		}
	}
	return []components.KeyBinding{
		{Key: "enter", Desc: "generate"},
		{Key: "tab", Desc: "next field"},
		{Key: "esc", Desc: "quit"},
	}
}

func (m paletteAppModel) renderAck(height int) string {
	title := "Copied"
	if !m.ack.OK() {
		title = "Copy failed"
	}
	return components.Modal(m.width, height, title, m.ack.Message(), !m.ack.OK())
}

func (m paletteAppModel) renderContent(height int) string {
	labels := [...]string{"Name", "Hex", "RGB"}

	fields := make([]string, 0, len(m.inputs))
	for i, in := range m.inputs {
		box := styles.InputBlurred
		label := styles.MutedText.Width(6).Render(labels[i])
		if focusArea(i) == m.focus {
			box = styles.InputFocused
			label = styles.Label.Width(6).Render(labels[i])
		}

		row := lipgloss.JoinHorizontal(lipgloss.Center, label, box.Render(in.View()))
		if i == int(focusName) {
			full := utf8.RuneCountInString(in.Value()) >= service.MaxNameLength
			row = lipgloss.JoinHorizontal(lipgloss.Center, row, " ", components.CharCounter(palette.CountLabel(in.Value()), full))
		}
		fields = append(fields, row)
	}
	form := lipgloss.JoinVertical(lipgloss.Left, fields...)

	sections := []string{form}

	if len(m.swatches) > 0 {
		sel := -1
		if m.focus == focusGrid {
			sel = m.selected
		}
		grid := components.SwatchGrid(m.swatches, sel, m.zones.Mark)
		detail := components.SwatchDetail(m.swatches[m.selected])
		sections = append(sections, "", grid, "", detail)
	} else if !m.loading {
		sections = append(sections, "", styles.MutedText.Render("Enter a name, hex code or RGB value and press enter."))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Top, lipgloss.NewStyle().Padding(1, 2).Render(body))
}
