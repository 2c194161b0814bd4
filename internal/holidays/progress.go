package holidays

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type progressMsg Progress

type doneMsg struct {
	result Result
	err    error
}

type downloadModel struct {
	url      string
	dest     string
	progress Progress
	done     bool
	result   Result
	err      error
	cancel   context.CancelFunc
}

func (m downloadModel) Init() tea.Cmd {
	return nil
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.cancel()
			return m, tea.Quit
		}
	case progressMsg:
		m.progress = Progress(msg)
	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
	}
	return m, nil
}

func (m downloadModel) View() string {
	if m.done {
		if m.err != nil {
			var sb strings.Builder
			fmt.Fprintf(&sb, "❌ 下载失败\n\n错误详情: %v\n\n", m.err)
			sb.WriteString("您可以手动下载节假日数据文件：\n")
			fmt.Fprintf(&sb, "1. 访问: %s\n", m.url)
			fmt.Fprintf(&sb, "2. 下载文件并保存到: %s\n\n", m.dest)
			sb.WriteString("按任意键退出...\n")
			return sb.String()
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "✅ 下载成功!\n\n文件大小: %s\n更新时间: %s\n保存位置: %s\n",
			formatBytes(m.result.Size), m.result.ModTime.Format("2006-01-02 15:04:05"), m.result.Path)
		if m.result.HasYears {
			fmt.Fprintf(&sb, "\n数据年份范围: %d 年 - %d 年\n", m.result.Years.MinYear, m.result.Years.MaxYear)
			fmt.Fprintf(&sb, "总共包含 %d 年的数据\n", m.result.Years.Count)
		}
		sb.WriteString("\n按任意键退出...\n")
		return sb.String()
	}
	return fmt.Sprintf("正在下载节假日数据...\n\n[%s]\n%s\n\n按 Ctrl+C 取消\n", progressBar(m.progress, 50), progressInfo(m.progress))
}

func progressBar(p Progress, width int) string {
	if p.Total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(float64(p.Downloaded) / float64(p.Total) * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func progressInfo(p Progress) string {
	if p.Total > 0 {
		percent := min(float64(p.Downloaded)/float64(p.Total), 1.0)
		return fmt.Sprintf("%s / %s  %s/s  %.1f%%", formatBytes(p.Downloaded), formatBytes(p.Total), formatBytes(int64(p.Speed)), percent*100)
	}
	if p.Speed > 0 {
		return fmt.Sprintf("%s  %s/s", formatBytes(p.Downloaded), formatBytes(int64(p.Speed)))
	}
	return formatBytes(p.Downloaded)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Download fetches url into dest while showing a progress screen.
func Download(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(downloadModel{url: url, dest: dest, cancel: cancel}, tea.WithAltScreen())
	go func() {
		res, err := Fetch(ctx, nil, url, dest, func(pr Progress) {
			p.Send(progressMsg(pr))
		})
		p.Send(doneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(downloadModel)
	if !m.done {
		return context.Canceled
	}
	return m.err
}
