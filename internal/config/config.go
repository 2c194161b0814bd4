package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lululau/datepick/internal/holidays"
	"github.com/lululau/datepick/internal/log"
	"github.com/lululau/datepick/internal/selection"
)

// Runtime is the resolved configuration.
type Runtime struct {
	ConfigFile string

	FirstWeekDay time.Weekday
	ExtraWeek    bool
	Mode         selection.Mode

	HolidaysFile string
	HolidaysURL  string
	StateFile    string
	LogFile      string
	LogLevel     log.Level
	NoColor      bool
}

// Load resolves configuration from defaults, the optional YAML config file
// and DATEPICK_* environment variables, in increasing precedence.
func Load() (Runtime, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Runtime{}, fmt.Errorf("resolve home dir: %w", err)
	}

	xdgConfig := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgState := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if xdgState == "" {
		xdgState = filepath.Join(home, ".local", "state")
	}

	configFile := strings.TrimSpace(os.Getenv("DATEPICK_CONFIG_FILE"))
	if configFile == "" {
		configFile = filepath.Join(xdgConfig, "datepick", "config.yaml")
	}

	v := viper.New()
	v.SetEnvPrefix("DATEPICK")
	v.AutomaticEnv()

	defaultState := filepath.Join(xdgState, "datepick")
	v.SetDefault("first_week_day", "sunday")
	v.SetDefault("extra_week", false)
	v.SetDefault("mode", "single")
	v.SetDefault("holidays_file", "")
	v.SetDefault("holidays_url", holidays.DefaultURL)
	v.SetDefault("state_file", filepath.Join(defaultState, "selection.yaml"))
	v.SetDefault("log_file", filepath.Join(defaultState, "datepick.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("no_color", false)

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return Runtime{}, fmt.Errorf("read config %s: %w", configFile, err)
	}

	mode, err := selection.ParseMode(v.GetString("mode"))
	if err != nil {
		return Runtime{}, err
	}

	stateFile := strings.TrimSpace(v.GetString("state_file"))
	if stateFile == "" {
		stateFile = filepath.Join(defaultState, "selection.yaml")
	}
	holidaysURL := strings.TrimSpace(v.GetString("holidays_url"))
	if holidaysURL == "" {
		holidaysURL = holidays.DefaultURL
	}

	return Runtime{
		ConfigFile:   configFile,
		FirstWeekDay: ParseWeekday(v.GetString("first_week_day")),
		ExtraWeek:    v.GetBool("extra_week"),
		Mode:         mode,
		HolidaysFile: strings.TrimSpace(v.GetString("holidays_file")),
		HolidaysURL:  holidaysURL,
		StateFile:    stateFile,
		LogFile:      strings.TrimSpace(v.GetString("log_file")),
		LogLevel:     log.ParseLevel(v.GetString("log_level")),
		NoColor:      v.GetBool("no_color"),
	}, nil
}

// ParseWeekday accepts English weekday names, three letter abbreviations or
// 0..6 (0 = Sunday). Anything else falls back to Sunday.
func ParseWeekday(s string) time.Weekday {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n <= 6 {
			return time.Weekday(n)
		}
		return time.Sunday
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return wd
		}
	}
	return time.Sunday
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
