package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lululau/datepick/internal/calendar"
	"github.com/lululau/datepick/internal/config"
	"github.com/lululau/datepick/internal/export"
	"github.com/lululau/datepick/internal/holidays"
	"github.com/lululau/datepick/internal/log"
	"github.com/lululau/datepick/internal/render"
	"github.com/lululau/datepick/internal/selection"
	"github.com/lululau/datepick/internal/store"
	"github.com/lululau/datepick/internal/tui"
)

var (
	yearFlag           = flag.Bool("y", false, "显示全年日历")
	plain              = flag.Bool("n", false, "直接渲染并退出（非交互模式）")
	updateHolidays     = flag.Bool("u", false, "下载最新的节假日数据")
	updateHolidaysLong = flag.Bool("update-holidays", false, "下载最新的节假日数据")
	holidaysFile       = flag.String("h", "", "指定节假日数据文件路径（用于调试）")
	holidaysFileLong   = flag.String("holidays-file", "", "指定节假日数据文件路径（用于调试）")
	noColor            = flag.Bool("N", false, "禁用所有颜色输出")
	noColorLong        = flag.Bool("no-color", false, "禁用所有颜色输出")
	modeFlag           = flag.String("mode", "", "选择模式: single / multiple / range（切换模式会清空已选日期）")
	selectFlag         = flag.String("select", "", "选择日期，逗号分隔的 YYYY-MM-DD；range 模式下取首尾")
	ruleFlag           = flag.String("rule", "", "按 RRULE 或 cron 规则选中当前视图内的日期（multiple 模式）")
	icsFlag            = flag.String("ics", "", "将选中的日期导出为 iCalendar 文件")
	weekStart          = flag.String("week-start", "", "每周第一天: sunday..saturday 或 0-6")
	extraWeek          = flag.Bool("extra-week", false, "每月固定显示六周")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "用法: %s [选项] [year] [month]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), `
  无参数      展示当前月份
  -y          展示当前年份
  9           展示当年9月份
  1983        展示1983年
  2012 12     展示2012年12月
  -y 9        展示公元9年的全年

  -n -mode range -select 2017-06-05,2017-06-10
              选中区间并打印
  -n -mode multiple -rule 'FREQ=WEEKLY;BYDAY=MO'
              选中本月所有周一

选项:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	if *noColor || *noColorLong || cfg.NoColor {
		render.SetNoColor(true)
		tui.SetNoColor(true)
	}

	if *updateHolidays || *updateHolidaysLong {
		return downloadHolidays(cfg.HolidaysURL)
	}

	req, err := parseRequest(*yearFlag, flag.Args())
	if err != nil {
		return err
	}

	table, cacheValid := loadHolidays(firstNonEmpty(*holidaysFile, *holidaysFileLong, cfg.HolidaysFile))

	firstDay := cfg.FirstWeekDay
	if *weekStart != "" {
		firstDay = config.ParseWeekday(*weekStart)
	}
	service := calendar.NewService(
		calendar.WithHolidays(table),
		calendar.WithCalendar(calendar.NewCalendar(calendar.WithFirstWeekDay(firstDay))),
		calendar.WithExtraWeek(cfg.ExtraWeek || *extraWeek),
	)

	sel, err := store.Load(cfg.StateFile, cfg.Mode)
	if err != nil {
		log.Error("load selection state", err, "path", cfg.StateFile)
		if sel, err = selection.New(cfg.Mode); err != nil {
			return err
		}
	}
	changed, err := applySelectionFlags(sel, req)
	if err != nil {
		return err
	}
	if changed {
		if err := store.Save(cfg.StateFile, sel); err != nil {
			return err
		}
	}

	nonInteractive := *plain || req.Mode == calendar.ModeYear || *icsFlag != ""
	if nonInteractive {
		if *icsFlag != "" {
			if err := writeICS(*icsFlag, sel); err != nil {
				return err
			}
		}
		return render.RunPlain(render.PlainOptions{
			Service:           service,
			Request:           req,
			Selection:         sel,
			HolidayCacheValid: cacheValid,
		})
	}

	closeLog := logToFile(cfg.LogFile)
	defer closeLog()
	_, err = tui.Run(service, tui.Options{
		Selection:         sel,
		Request:           req,
		HolidayCacheValid: cacheValid,
		StatePath:         cfg.StateFile,
	})
	return err
}

func downloadHolidays(url string) error {
	dest, err := holidays.CachePath()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := holidays.Download(ctx, url, dest); err != nil {
		return err
	}
	fmt.Println("节假日数据已保存到", dest)
	return nil
}

// loadHolidays reads an explicit file when given, otherwise the download
// cache. The bool reports whether the data is present and fresh.
func loadHolidays(path string) (holidays.Table, bool) {
	if path != "" {
		table, err := holidays.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "警告: 无法加载节假日文件 %s: %v\n", path, err)
			return nil, false
		}
		return table, true
	}

	cachePath, err := holidays.CachePath()
	if err != nil {
		return nil, false
	}
	valid, err := holidays.CacheValid(cachePath, time.Now())
	if err != nil || !valid {
		return nil, false
	}
	table, err := holidays.LoadFile(cachePath)
	if err != nil {
		log.Error("load holiday cache", err, "path", cachePath)
		return nil, false
	}
	return table, true
}

// applySelectionFlags applies -mode, -select and -rule in that order and
// reports whether the selection changed.
func applySelectionFlags(sel *selection.Engine, req calendar.Request) (bool, error) {
	changed := false
	if *modeFlag != "" {
		mode, err := selection.ParseMode(*modeFlag)
		if err != nil {
			return false, err
		}
		if err := sel.SetMode(mode); err != nil {
			return false, err
		}
		changed = true
	}
	if *selectFlag != "" {
		var days []calendar.Date
		for _, part := range strings.Split(*selectFlag, ",") {
			d, err := calendar.ParseDate(strings.TrimSpace(part))
			if err != nil {
				return false, err
			}
			days = append(days, d)
		}
		if err := sel.Select(days...); err != nil {
			return false, err
		}
		changed = true
	}
	if *ruleFlag != "" {
		from, to := viewportBounds(req)
		n, err := sel.SelectRecurring(*ruleFlag, from, to)
		if err != nil {
			return false, err
		}
		log.Info("recurring selection", "rule", *ruleFlag, "from", from, "to", to, "days", n)
		changed = true
	}
	return changed, nil
}

func viewportBounds(req calendar.Request) (from, to calendar.Date) {
	if req.Mode == calendar.ModeYear {
		return calendar.NewDate(req.Year, time.January, 1), calendar.NewDate(req.Year, time.December, 31)
	}
	return calendar.NewDate(req.Year, req.Month, 1), calendar.NewDate(req.Year, req.Month+1, 0)
}

func writeICS(path string, sel *selection.Engine) error {
	if sel.Len() == 0 {
		return errors.New("没有选中的日期可以导出")
	}
	data := export.ICS(sel, "datepick", time.Now())
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("写入 %s: %w", path, err)
	}
	log.Info("ics exported", "path", path, "days", sel.Len())
	return nil
}

// logToFile keeps log lines off the alternate screen while the TUI runs.
func logToFile(path string) func() {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseRequest(showYear bool, args []string) (calendar.Request, error) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	switch len(args) {
	case 0:
		// defaults
	case 1:
		if showYear {
			val, err := parseNumber(args[0], "year")
			if err != nil {
				return calendar.Request{}, err
			}
			year = val
		} else {
			val, err := parseNumber(args[0], "month/year")
			if err != nil {
				return calendar.Request{}, err
			}
			if val >= 1 && val <= 12 {
				month = time.Month(val)
			} else {
				year = val
				showYear = true
			}
		}
	case 2:
		if showYear {
			return calendar.Request{}, errors.New("使用 -y 时最多只需要指定一个年份参数")
		}
		y, err := parseNumber(args[0], "year")
		if err != nil {
			return calendar.Request{}, err
		}
		m, err := parseNumber(args[1], "month")
		if err != nil {
			return calendar.Request{}, err
		}
		if m < 1 || m > 12 {
			return calendar.Request{}, fmt.Errorf("月份需要在 1-12 之间 (收到 %d)", m)
		}
		year = y
		month = time.Month(m)
	default:
		return calendar.Request{}, errors.New("参数过多，请参考 --help")
	}

	req := calendar.Request{
		Year:  year,
		Month: month,
		Mode:  calendar.ModeMonth,
	}
	if showYear {
		req.Mode = calendar.ModeYear
	}
	return req.Normalize(), nil
}

func parseNumber(value string, field string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("无法将 %q 解析为 %s", value, field)
	}
	return n, nil
}
