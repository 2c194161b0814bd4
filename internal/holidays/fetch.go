package holidays

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lululau/datepick/internal/log"
)

// DefaultURL is the published holiday feed.
const DefaultURL = "https://raw.githubusercontent.com/lululau/lucal/main/holidays.json"

// Progress is reported while a download runs.
type Progress struct {
	Downloaded int64
	Total      int64 // -1 when the server sent no Content-Length
	Speed      float64
}

// Result describes a finished download.
type Result struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Years    YearInfo
	HasYears bool
}

// Fetch downloads url into dest. The body is validated as a holiday feed
// before it replaces dest, so a broken download never clobbers a good cache.
func Fetch(ctx context.Context, client *http.Client, url, dest string, onProgress func(Progress)) (Result, error) {
	if client == nil {
		client = http.DefaultClient
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create cache directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	log.Info("holidays: download started", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("start download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("HTTP %s", resp.Status)
	}

	tmp, err := os.CreateTemp(dir, ".holidays-*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	pw := &progressWriter{total: resp.ContentLength, start: time.Now(), report: onProgress}
	if _, err := io.Copy(tmp, io.TeeReader(resp.Body, pw)); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, err
	}

	table, err := LoadFile(tmpName)
	if err != nil {
		return Result{}, err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return Result{}, fmt.Errorf("replace cache: %w", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return Result{}, fmt.Errorf("stat file: %w", err)
	}

	years, ok := table.Years()
	log.Info("holidays: download finished", "path", dest, "bytes", info.Size(), "years", years.Count)
	return Result{
		Path:     dest,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Years:    years,
		HasYears: ok,
	}, nil
}

type progressWriter struct {
	total      int64
	downloaded int64
	start      time.Time
	last       time.Time
	report     func(Progress)
}

// Write reports at most every 100ms.
func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.downloaded += int64(len(p))
	if pw.report == nil {
		return len(p), nil
	}
	now := time.Now()
	if now.Sub(pw.last) < 100*time.Millisecond && pw.downloaded != pw.total {
		return len(p), nil
	}
	pw.last = now
	speed := 0.0
	if elapsed := now.Sub(pw.start).Seconds(); elapsed > 0 {
		speed = float64(pw.downloaded) / elapsed
	}
	pw.report(Progress{Downloaded: pw.downloaded, Total: pw.total, Speed: speed})
	return len(p), nil
}
