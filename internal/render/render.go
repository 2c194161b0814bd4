package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/datepick/internal/calendar"
	"github.com/lululau/datepick/internal/textwidth"
)

const (
	cellWidth = 6
	blockGap  = 4
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEC260"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A5B4FC"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	holidayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	workdayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#334155"))
	cursorStyle   = lipgloss.NewStyle().Underline(true).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	borderStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#475569")).
			Padding(0, 1)
)

var weekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}

// Selection reports whether a day is part of the current selection.
// *selection.Engine satisfies it.
type Selection interface {
	Contains(calendar.Date) bool
}

// Options controls per-cell decoration.
type Options struct {
	Selection Selection
	// Cursor marks the focused day; the zero Date disables it.
	Cursor calendar.Date
}

// MonthBlock packages rendered lines with their visual width/height.
type MonthBlock struct {
	Lines  []string
	Width  int
	Height int
}

// BuildBlocks converts month views into renderable blocks.
func BuildBlocks(views []calendar.MonthView, opts Options) []MonthBlock {
	blocks := make([]MonthBlock, len(views))
	for i, view := range views {
		blocks[i] = buildMonthBlock(view, opts)
	}
	return blocks
}

// Layout places blocks side by side, as many per row as width allows.
func Layout(blocks []MonthBlock, width int) string {
	if len(blocks) == 0 {
		return ""
	}
	perRow := max(1, (width+blockGap)/(blocks[0].Width+blockGap))

	var rows []string
	for start := 0; start < len(blocks); start += perRow {
		end := min(start+perRow, len(blocks))
		rows = append(rows, joinHorizontal(blocks[start:end]))
	}
	return strings.Join(rows, "\n\n")
}

func joinHorizontal(blocks []MonthBlock) string {
	height := 0
	for _, b := range blocks {
		height = max(height, b.Height)
	}
	lines := make([]string, height)
	for i := range lines {
		parts := make([]string, len(blocks))
		for j, b := range blocks {
			line := ""
			if i < len(b.Lines) {
				line = b.Lines[i]
			}
			if j < len(blocks)-1 {
				line = textwidth.PadRight(line, b.Width+blockGap)
			}
			parts[j] = line
		}
		lines[i] = strings.TrimRight(strings.Join(parts, ""), " ")
	}
	return strings.Join(lines, "\n")
}

func buildMonthBlock(view calendar.MonthView, opts Options) MonthBlock {
	body := make([]string, 0, len(view.Weeks)*2+1)
	body = append(body, headerLine(view.Weekdays))
	for _, week := range view.Weeks {
		var numbers, labels strings.Builder
		for _, day := range week {
			numbers.WriteString(numberCell(day, opts))
			labels.WriteString(labelCell(day))
		}
		body = append(body, numbers.String(), labels.String())
	}

	table := strings.Join(body, "\n")
	if !noColorMode {
		table = borderStyle.Render(table)
	}

	title := view.Title
	if !noColorMode {
		title = titleStyle.Render(title)
	}
	lines := append([]string{title, ""}, strings.Split(table, "\n")...)

	width := 0
	for _, line := range lines {
		width = max(width, textwidth.StringWidth(line))
	}
	return MonthBlock{Lines: lines, Width: width, Height: len(lines)}
}

func headerLine(weekdays []time.Weekday) string {
	var sb strings.Builder
	for _, wd := range weekdays {
		sb.WriteString(textwidth.Center(weekdayNames[wd], cellWidth))
	}
	if noColorMode {
		return sb.String()
	}
	return headerStyle.Render(sb.String())
}

func numberCell(day calendar.Day, opts Options) string {
	date := day.Date()
	selected := opts.Selection != nil && opts.Selection.Contains(date)
	cursor := !opts.Cursor.IsZero() && opts.Cursor == date

	text := fmt.Sprintf("%2d", date.Day)
	if noColorMode {
		switch {
		case selected && cursor:
			text = "<" + text + ">"
		case selected:
			text = "[" + text + "]"
		case cursor:
			text = ">" + text
		}
		return textwidth.Center(text, cellWidth)
	}

	style := dayStyle(day)
	if cursor {
		style = style.Inherit(cursorStyle)
	}
	if selected {
		style = style.Inherit(selectedStyle)
	}
	return textwidth.Center(style.Render(text), cellWidth)
}

func labelCell(day calendar.Day) string {
	label := day.SecondaryLabel()
	if label == "" {
		return strings.Repeat(" ", cellWidth)
	}
	if noColorMode {
		return textwidth.Center(label, cellWidth)
	}
	return textwidth.Center(dayStyle(day).Render(label), cellWidth)
}

// dayStyle picks the foreground colour. Holidays and adjusted workdays beat
// today, and days outside the viewport month are dimmed.
func dayStyle(day calendar.Day) lipgloss.Style {
	switch {
	case !day.IsCurrentMonth:
		return dimStyle
	case day.HolidayInfo != nil && day.HolidayInfo.IsHoliday:
		return holidayStyle
	case day.HolidayInfo != nil:
		return workdayStyle
	case day.IsToday:
		return todayStyle
	default:
		return lipgloss.NewStyle()
	}
}

// HelpLine describes the interactive key bindings.
func HelpLine() string {
	helpText := "h/l 前后一天  j/k 前后一周  [/] 上下月  {/} 上下年  空格 选择  v 区间  x 取消  c 清空  tab 模式  w 周首日  e 六周  r 规则  s 保存  . 今天  q 退出"
	if noColorMode {
		return helpText
	}
	return helpStyle.Render(helpText)
}

// ColorLegend returns a legend explaining the color coding for holidays.
func ColorLegend() string {
	legend := "蓝色=节假日  橙色=调休日"
	if noColorMode {
		return legend
	}
	return dimStyle.Render(legend)
}
