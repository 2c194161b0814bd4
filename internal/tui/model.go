package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/datepick/internal/calendar"
	"github.com/lululau/datepick/internal/log"
	"github.com/lululau/datepick/internal/render"
	"github.com/lululau/datepick/internal/selection"
	"github.com/lululau/datepick/internal/store"
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	modeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A5B4FC"))
)

type inputMode int

const (
	inputNone inputMode = iota
	inputYear
	inputMonth
	inputRule
)

// Options carries everything the picker needs besides the service.
type Options struct {
	Selection         *selection.Engine
	Request           calendar.Request
	HolidayCacheValid bool
	// StatePath is where "s" saves the selection; empty disables saving.
	StatePath string
	Now       func() time.Time
}

// Run starts the interactive picker and returns the final selection.
func Run(svc *calendar.Service, opts Options) (*selection.Engine, error) {
	m, err := newModel(svc, opts)
	if err != nil {
		return nil, err
	}
	prog := tea.NewProgram(m, tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}
	return final.(model).sel, nil
}

type model struct {
	svc               *calendar.Service
	sel               *selection.Engine
	request           calendar.Request
	cursor            calendar.Date
	now               func() time.Time
	width             int
	inputMode         inputMode
	input             textinput.Model
	statusMsg         string
	holidayCacheValid bool
	statePath         string
}

func newModel(svc *calendar.Service, opts Options) (model, error) {
	if svc == nil {
		svc = calendar.NewService()
	}
	sel := opts.Selection
	if sel == nil {
		var err error
		if sel, err = selection.New(selection.Single); err != nil {
			return model{}, err
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	req := opts.Request.Normalize()
	req.Mode = calendar.ModeMonth
	cursor := calendar.NewDate(req.Year, req.Month, 1)
	if today := calendar.DateOf(now()); today.Year == req.Year && today.Month == req.Month {
		cursor = today
	}

	ti := textinput.New()
	ti.Placeholder = "数字"
	ti.CharLimit = 64
	ti.Prompt = "> "
	return model{
		svc:               svc,
		sel:               sel,
		request:           req,
		cursor:            cursor,
		now:               now,
		input:             ti,
		holidayCacheValid: opts.HolidayCacheValid,
		statePath:         opts.StatePath,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.handleInputKey(msg)
		}
		m.statusMsg = ""
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h", "left":
			m.moveCursor(calendar.UnitDay, -1)
		case "l", "right":
			m.moveCursor(calendar.UnitDay, 1)
		case "k", "up":
			m.moveCursor(calendar.UnitWeek, -1)
		case "j", "down":
			m.moveCursor(calendar.UnitWeek, 1)
		case "[":
			m.moveCursor(calendar.UnitMonth, -1)
		case "]":
			m.moveCursor(calendar.UnitMonth, 1)
		case "{":
			m.moveCursor(calendar.UnitYear, -1)
		case "}":
			m.moveCursor(calendar.UnitYear, 1)
		case ".":
			m.setCursor(calendar.DateOf(m.now()))
		case " ", "enter":
			m.sel.Toggle(m.cursor)
		case "v":
			m.report(m.sel.Select(m.cursor))
		case "x":
			m.report(m.sel.Deselect(m.cursor))
		case "c":
			m.report(m.sel.Deselect())
		case "tab":
			m.report(m.sel.SetMode(m.sel.Mode().Next()))
		case "w":
			cal := m.svc.Calendar()
			cal.SetFirstWeekDay(cal.FirstWeekDay() + 1)
		case "e":
			m.svc.SetExtraWeek(!m.svc.ExtraWeek())
		case "s":
			m.save()
		case "y":
			m.activateInput(inputYear, "")
		case "m":
			m.activateInput(inputMonth, "")
		case "r":
			m.activateInput(inputRule, "FREQ=WEEKLY;BYDAY=MO 或 0 9 * * 1-5")
		}
	}
	return m, nil
}

// moveCursor steps the focused day and lets the viewport follow it.
func (m *model) moveCursor(unit calendar.Unit, amount int) {
	t, err := calendar.Timedelta(m.cursor.In(time.UTC), unit, amount)
	if err != nil {
		m.report(err)
		return
	}
	m.setCursor(calendar.DateOf(t))
}

func (m *model) setCursor(d calendar.Date) {
	m.cursor = d
	m.request.Year = d.Year
	m.request.Month = d.Month
}

func (m *model) report(err error) {
	if err == nil {
		return
	}
	log.Debug("tui: operation rejected", "mode", m.sel.Mode(), "cursor", m.cursor, "err", err)
	m.statusMsg = err.Error()
}

func (m *model) save() {
	if m.statePath == "" {
		m.statusMsg = "未配置保存路径"
		return
	}
	if err := store.Save(m.statePath, m.sel); err != nil {
		log.Error("tui: save selection", err, "path", m.statePath)
		m.statusMsg = err.Error()
		return
	}
	log.Info("tui: selection saved", "path", m.statePath, "days", m.sel.Len())
	m.statusMsg = "已保存到 " + m.statePath
}

func (m model) View() string {
	if m.inputMode != inputNone {
		return m.inputView()
	}

	body, err := m.renderCalendar()
	status := m.statusMsg
	if err != nil {
		status = err.Error()
	}

	sb := strings.Builder{}
	sb.WriteString(body)
	sb.WriteString("\n\n")
	summary := render.SelectionSummary(m.sel)
	if noColorMode {
		sb.WriteString(summary)
	} else {
		sb.WriteString(modeStyle.Render(summary))
	}
	sb.WriteString("\n")
	sb.WriteString(render.HelpLine())
	if status != "" {
		sb.WriteString("\n")
		if noColorMode {
			sb.WriteString(status)
		} else {
			sb.WriteString(statusStyle.Render(status))
		}
	}
	if !m.holidayCacheValid {
		sb.WriteString("\n\n")
		sb.WriteString(render.StaleHolidaysHint())
	}
	return sb.String()
}

func (m model) renderCalendar() (string, error) {
	views, err := render.FetchViews(m.svc, m.request)
	if err != nil {
		return "", err
	}
	blocks := render.BuildBlocks(views, render.Options{Selection: m.sel, Cursor: m.cursor})
	width := m.width
	if width <= 0 {
		width = 100
	}
	return render.Layout(blocks, width), nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = inputNone
		m.statusMsg = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) activateInput(mode inputMode, placeholder string) {
	m.inputMode = mode
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	m.statusMsg = ""
}

func (m *model) applyInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.statusMsg = "请输入内容"
		return
	}
	switch m.inputMode {
	case inputYear:
		fields := strings.Fields(value)
		if len(fields) == 0 || len(fields) > 2 {
			m.statusMsg = "格式应为: 年 或 年 月"
			return
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			m.statusMsg = "无效的年份"
			return
		}
		month := m.cursor.Month
		if len(fields) == 2 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 || n > 12 {
				m.statusMsg = "月份需在 1-12 之间"
				return
			}
			month = time.Month(n)
		}
		m.setCursor(calendar.NewDate(year, month, 1))
	case inputMonth:
		num, err := strconv.Atoi(value)
		if err != nil {
			m.statusMsg = "无效的月份"
			return
		}
		if num < 1 || num > 12 {
			m.statusMsg = "月份需在 1-12 之间"
			return
		}
		m.setCursor(calendar.NewDate(m.cursor.Year, time.Month(num), 1))
	case inputRule:
		first := calendar.NewDate(m.request.Year, m.request.Month, 1)
		last := calendar.NewDate(m.request.Year, m.request.Month+1, 0)
		n, err := m.sel.SelectRecurring(value, first, last)
		if err != nil {
			m.report(err)
			return
		}
		log.Info("tui: recurring selection", "rule", value, "days", n)
	}
	m.inputMode = inputNone
	m.input.Blur()
}

func (m model) inputView() string {
	var label string
	switch m.inputMode {
	case inputYear:
		label = "输入年份 (回车确认 / Esc 取消)"
	case inputMonth:
		label = "输入月份 1-12 (回车确认 / Esc 取消)"
	case inputRule:
		label = "输入 RRULE 或 cron 规则，选中本月匹配日期 (需 multiple 模式)"
	default:
		return ""
	}
	status := m.statusMsg
	if !noColorMode {
		label = lipgloss.NewStyle().Bold(true).Render(label)
		status = statusStyle.Render(status)
	}
	view := label + "\n\n" + m.input.View()
	if m.statusMsg != "" {
		view += "\n\n" + status
	}
	return view
}
