package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Entry is a single day in the holiday feed.
type Entry struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Wage    int    `json:"wage"`
	Date    string `json:"date"`
	// Optional fields
	After  *bool  `json:"after,omitempty"`
	Target string `json:"target,omitempty"`
	Rest   *int   `json:"rest,omitempty"`
}

// UnmarshalJSON accepts "holiday" as a boolean or, for older feeds, as a
// string where any non-empty value means a holiday.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type alias Entry
	aux := &struct {
		Holiday any `json:"holiday"`
		*alias
	}{
		alias: (*alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch v := aux.Holiday.(type) {
	case bool:
		e.Holiday = v
	case string:
		e.Holiday = v != ""
	default:
		e.Holiday = false
	}
	return nil
}

// feed is the on-disk layout: one object per year.
type feed []struct {
	Year    string            `json:"year"`
	Holiday map[string]*Entry `json:"holiday"`
}

// Info describes a holiday or an adjusted working day (调休).
type Info struct {
	IsHoliday bool
	Name      string
}

// Table maps a year ("2025") to entries keyed by "MM-DD".
type Table map[string]map[string]*Entry

// YearInfo summarises which years a table covers.
type YearInfo struct {
	MinYear int
	MaxYear int
	Count   int
}

// Parse decodes a holiday feed.
func Parse(data []byte) (Table, error) {
	var f feed
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse holidays JSON: %w", err)
	}
	t := make(Table, len(f))
	for _, y := range f {
		t[y.Year] = y.Holiday
	}
	return t, nil
}

// LoadFile reads and decodes a holiday feed from path.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays file: %w", err)
	}
	return Parse(data)
}

// Lookup returns the holiday info for a date, or nil.
func (t Table) Lookup(year int, month time.Month, day int) *Info {
	if t == nil {
		return nil
	}
	days, ok := t[strconv.Itoa(year)]
	if !ok {
		return nil
	}
	entry, ok := days[fmt.Sprintf("%02d-%02d", int(month), day)]
	if !ok || entry == nil {
		return nil
	}
	return &Info{IsHoliday: entry.Holiday, Name: entry.Name}
}

// Years reports the covered year span. ok is false when no key parses as a
// year.
func (t Table) Years() (info YearInfo, ok bool) {
	for key := range t {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if info.Count == 0 || year < info.MinYear {
			info.MinYear = year
		}
		if info.Count == 0 || year > info.MaxYear {
			info.MaxYear = year
		}
		info.Count++
	}
	return info, info.Count > 0
}

// CachePath returns the holiday cache file in the user cache directory.
func CachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "datepick", "holidays.json"), nil
}

// CacheValid reports whether the cache file exists and was written within
// the last six months.
func CacheValid(path string, now time.Time) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.ModTime().After(now.AddDate(0, -6, 0)), nil
}
