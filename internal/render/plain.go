package render

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/lululau/datepick/internal/calendar"
	"github.com/lululau/datepick/internal/selection"
)

// PlainOptions controls how the non-interactive renderer behaves.
type PlainOptions struct {
	Writer            io.Writer
	Service           *calendar.Service
	Request           calendar.Request
	Selection         *selection.Engine
	Width             int
	HolidayCacheValid bool
}

// RunPlain renders the requested view exactly once, followed by the
// selected dates when a selection is given.
func RunPlain(opts PlainOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Service == nil {
		opts.Service = calendar.NewService()
	}

	req := opts.Request.Normalize()
	views, err := FetchViews(opts.Service, req)
	if err != nil {
		return err
	}
	var ro Options
	if opts.Selection != nil {
		ro.Selection = opts.Selection
	}
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}
	output := Layout(BuildBlocks(views, ro), width)
	if output == "" {
		return nil
	}
	if _, err := fmt.Fprintln(opts.Writer, output); err != nil {
		return err
	}

	if opts.Selection != nil && opts.Selection.Len() > 0 {
		if _, err := fmt.Fprintln(opts.Writer, "\n"+SelectionSummary(opts.Selection)); err != nil {
			return err
		}
	}
	if opts.Service.HasHolidayData() {
		if _, err := fmt.Fprintln(opts.Writer, "\n"+ColorLegend()); err != nil {
			return err
		}
	}
	if !opts.HolidayCacheValid {
		_, err = fmt.Fprintln(opts.Writer, "\n"+staleHolidaysHint)
	}
	return err
}

const staleHolidaysHint = "尚未下载节假日数据或节假日数据超过 6 个月未更新，运行  datepick -u 获取最新数据"

// StaleHolidaysHint is shown when the holiday cache is missing or old.
func StaleHolidaysHint() string {
	if noColorMode {
		return staleHolidaysHint
	}
	return dimStyle.Render(staleHolidaysHint)
}

// SelectionSummary describes the selection in one line, e.g.
// "range: 2017-06-05 … 2017-06-10 (6 天)".
func SelectionSummary(e *selection.Engine) string {
	if start, end, ok := e.Range(); ok {
		return fmt.Sprintf("%s: %s … %s (%d 天)", e.Mode(), start, end, e.Len())
	}
	if anchor, ok := e.Pending(); ok {
		return fmt.Sprintf("%s: %s … (等待结束日期)", e.Mode(), anchor)
	}
	dates := e.Dates()
	if len(dates) == 0 {
		return fmt.Sprintf("%s: (未选择)", e.Mode())
	}
	const shown = 6
	line := fmt.Sprintf("%s:", e.Mode())
	for i, d := range dates {
		if i == shown {
			line += fmt.Sprintf(" … 共 %d 天", len(dates))
			break
		}
		line += " " + d.String()
	}
	return line
}

// DetectWidth tries to determine the terminal width, falling back to 100 cols.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil {
			return w
		}
	}
	return 100
}

// FetchViews returns one month, or twelve in year mode.
func FetchViews(svc *calendar.Service, req calendar.Request) ([]calendar.MonthView, error) {
	if req.Mode == calendar.ModeYear {
		return svc.Year(req.Year)
	}
	view, err := svc.Month(req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	return []calendar.MonthView{view}, nil
}
