package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FontConfig selects the typeface and the point sizes of each text role.
type FontConfig struct {
	Path      string  `yaml:"path"`       // TrueType file; needed for CJK glyphs. Empty uses the built-in font
	Size      float64 `yaml:"size"`       // Axis tick labels in points
	LabelSize float64 `yaml:"label_size"` // Duration labels on bars
	BadgeSize float64 `yaml:"badge_size"` // Total period badge and today marker
	TitleSize float64 `yaml:"title_size"` // Chart title
}

// ColorConfig holds hex color codes. Stage colors are keyed by category name
// (submit, editor, review1, revise, review2, review3, review4).
type ColorConfig struct {
	Background  string            `yaml:"background"`
	Stages      map[string]string `yaml:"stages"`
	Neutral     string            `yaml:"neutral"` // Stages whose type matches no category
	Bands       []string          `yaml:"bands"`   // Row backgrounds, cycled by paper index
	Arrow       string            `yaml:"arrow"`
	Badge       string            `yaml:"badge"`
	BadgeBorder string            `yaml:"badge_border"`
	BadgeText   string            `yaml:"badge_text"`
	LabelText   string            `yaml:"label_text"`
	LabelBorder string            `yaml:"label_border"`
	Today       string            `yaml:"today"`
	TodayText   string            `yaml:"today_text"`
	TodayFill   string            `yaml:"today_fill"`
	Title       string            `yaml:"title"`
	Text        string            `yaml:"text"`
	Spine       string            `yaml:"spine"`
	Grid        string            `yaml:"grid"`
}

// LayoutConfig controls the canvas. Sizes follow a figure measured in inches
// and rasterized at DPI.
type LayoutConfig struct {
	WidthInches      float64 `yaml:"width_inches"`
	BaseHeightInches float64 `yaml:"base_height_inches"`
	RowHeightInches  float64 `yaml:"row_height_inches"` // Added per paper
	DPI              float64 `yaml:"dpi"`
	Padding          int     `yaml:"padding"` // Outer whitespace in pixels
}

// BarConfig controls the stage bars and row backgrounds.
type BarConfig struct {
	Height    float64 `yaml:"height"`     // In row units; a paper row is 3 units tall
	Alpha     float64 `yaml:"alpha"`      // Bar opacity
	BandAlpha float64 `yaml:"band_alpha"` // Row background opacity
}

// LabelConfig holds the fixed texts drawn on the chart.
type LabelConfig struct {
	Title          string `yaml:"title"`
	Today          string `yaml:"today"`
	Duration       string `yaml:"duration"`     // fmt verb receives the day count
	TotalPeriod    string `yaml:"total_period"` // fmt verb receives the day count
	MonthFormat    string `yaml:"month_format"` // Go time layout for month ticks
	TickDateFormat string `yaml:"tick_date_format"`
}

// Config is the render style. It maps directly to a YAML file; fields that
// the file omits keep their defaults.
type Config struct {
	Font   FontConfig   `yaml:"font"`
	Colors ColorConfig  `yaml:"colors"`
	Layout LayoutConfig `yaml:"layout"`
	Bars   BarConfig    `yaml:"bars"`
	Labels LabelConfig  `yaml:"labels"`
}

// getDefaultConfig returns the stock chart style: a 16 inch wide figure at
// 200 DPI with two inches per paper.
func getDefaultConfig() Config {
	return Config{
		Font: FontConfig{
			Path:      os.Getenv("PAPER_TIMELINE_FONT"),
			Size:      10,
			LabelSize: 8,
			BadgeSize: 9,
			TitleSize: 18,
		},
		Colors: ColorConfig{
			Background: "#ffffff",
			Stages: map[string]string{
				"submit":  "#3498DB",
				"editor":  "#E74C3C",
				"review1": "#2ECC71",
				"revise":  "#F39C12",
				"review2": "#9B59B6",
				"review3": "#1ABC9C",
				"review4": "#E67E22",
			},
			Neutral:     "#95A5A6",
			Bands:       []string{"#FADBD8", "#D6EAF8", "#D5F4E6", "#FCF3CF", "#EBDEF0"},
			Arrow:       "#34495E",
			Badge:       "#34495E",
			BadgeBorder: "#2C3E50",
			BadgeText:   "#ffffff",
			LabelText:   "#1C2833",
			LabelBorder: "#808080",
			Today:       "#E74C3C",
			TodayText:   "#C0392B",
			TodayFill:   "#FADBD8",
			Title:       "#2C3E50",
			Text:        "#333333",
			Spine:       "#34495E",
			Grid:        "#808080",
		},
		Layout: LayoutConfig{
			WidthInches:      16,
			BaseHeightInches: 2,
			RowHeightInches:  2,
			DPI:              200,
			Padding:          40,
		},
		Bars: BarConfig{
			Height:    0.7,
			Alpha:     0.9,
			BandAlpha: 0.2,
		},
		Labels: LabelConfig{
			Title:          "学术论文审稿流程甘特图",
			Today:          "今日",
			Duration:       "%d天",
			TotalPeriod:    "总周期: %d天",
			MonthFormat:    "2006年01月",
			TickDateFormat: "2006.01.02",
		},
	}
}

// loadConfig loads the render style from a YAML file, or returns the
// defaults if no file is specified. Values in the file override defaults
// field by field.
func loadConfig(configPath string) (Config, error) {
	config := getDefaultConfig()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("error reading style file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error parsing style file: %w", err)
	}

	return config, nil
}

// stageColor returns the configured color for a category.
func (c Config) stageColor(cat Category) string {
	if hex, ok := c.Colors.Stages[cat.String()]; ok && cat != CategoryNeutral {
		return hex
	}
	return c.Colors.Neutral
}

// bandColor cycles the row background palette.
func (c Config) bandColor(idx int) string {
	if len(c.Colors.Bands) == 0 {
		return c.Colors.Background
	}
	return c.Colors.Bands[idx%len(c.Colors.Bands)]
}

// AppConfig holds process settings read from the environment.
type AppConfig struct {
	StorePath string
	StylePath string
	Server    ServerConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// LoadAppConfig reads configuration from environment variables.
func LoadAppConfig() AppConfig {
	return AppConfig{
		StorePath: getEnv("PAPER_TIMELINE_STORE", DefaultStorePath),
		StylePath: getEnv("PAPER_TIMELINE_STYLE", ""),
		Server: ServerConfig{
			Addr:            ":" + getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: strings.EqualFold(getEnv("ENV", ""), "development") || getBoolEnv("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
