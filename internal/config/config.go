//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-tourcast.
// Configuration is loaded from a YAML config file, an optional .env file and
// TOURCAST_* environment variables for connection strings. CLI flags take
// precedence over both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DateLayout is the layout used for dates in config and output tables.
const DateLayout = "2006-01-02"

// envPrefix is the prefix for bound environment variables.
const envPrefix = "TOURCAST"

// Config holds all configuration for pgedge-tourcast.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFile, when set, receives a JSON copy of every log line.
	LogFile string `mapstructure:"log_file"`

	// Paths holds the data directory layout.
	Paths PathsConfig `mapstructure:"paths"`

	// Horizon holds the calendar, history and forecast year ranges.
	Horizon HorizonConfig `mapstructure:"horizon"`

	// Simulation holds booking simulation settings.
	Simulation SimulationConfig `mapstructure:"simulation"`

	// BankHolidays configures the GOV.UK bank holiday pull.
	BankHolidays BankHolidayConfig `mapstructure:"bank_holidays"`

	// Weather configures the Open-Meteo forecast pull.
	Weather WeatherConfig `mapstructure:"weather"`

	// Warehouse configures the PostgreSQL warehouse loader.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// ML configures model training and scoring.
	ML MLConfig `mapstructure:"ml"`
}

// PathsConfig holds the directory layout. Empty sub-directories are derived
// from DataDir.
type PathsConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	RawDir       string `mapstructure:"raw_dir"`
	InterimDir   string `mapstructure:"interim_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
	ModelsDir    string `mapstructure:"models_dir"`
	ExportDir    string `mapstructure:"export_dir"`
}

// HorizonConfig holds the date ranges the pipeline works over.
type HorizonConfig struct {
	// CalendarStart and CalendarEnd bound the date dimension (YYYY-MM-DD).
	CalendarStart string `mapstructure:"calendar_start"`
	CalendarEnd   string `mapstructure:"calendar_end"`

	// HistoryStartYear and HistoryEndYear bound the simulated bookings.
	HistoryStartYear int `mapstructure:"history_start_year"`
	HistoryEndYear   int `mapstructure:"history_end_year"`

	// ForecastYear is the year scored by the forecast variants.
	ForecastYear int `mapstructure:"forecast_year"`

	// TrainYear and TestYear drive the time-based split.
	TrainYear int `mapstructure:"train_year"`
	TestYear  int `mapstructure:"test_year"`
}

// SimulationConfig holds booking simulation settings.
type SimulationConfig struct {
	// Seed feeds the single random stream used for a run.
	Seed uint64 `mapstructure:"seed"`

	// VATRate is applied to ex-VAT sales.
	VATRate float64 `mapstructure:"vat_rate"`
}

// BankHolidayConfig configures the bank holiday pull.
type BankHolidayConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// WeatherConfig configures the weather forecast pull.
type WeatherConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Model          string `mapstructure:"model"`
	Timezone       string `mapstructure:"timezone"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// WarehouseConfig configures the warehouse loader.
type WarehouseConfig struct {
	// Connection is the PostgreSQL connection string. An empty connection
	// skips the warehouse stage of a pipeline run.
	Connection string `mapstructure:"connection"`

	// Schema is the target schema for warehouse tables.
	Schema string `mapstructure:"schema"`
}

// MLConfig configures model training and scoring.
type MLConfig struct {
	// Variants lists the forecast variants trained by a pipeline run.
	Variants []string `mapstructure:"variants"`

	// RecordRuns stores a row per trained variant in forecast_runs.
	RecordRuns bool `mapstructure:"record_runs"`

	// RunsConnection is the database for run history; falls back to the
	// warehouse connection when empty.
	RunsConnection string `mapstructure:"runs_connection"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Paths: PathsConfig{
			DataDir: "data",
		},
		Horizon: HorizonConfig{
			CalendarStart:    "2024-01-01",
			CalendarEnd:      "2026-12-31",
			HistoryStartYear: 2024,
			HistoryEndYear:   2025,
			ForecastYear:     2026,
			TrainYear:        2024,
			TestYear:         2025,
		},
		Simulation: SimulationConfig{
			Seed:    42,
			VATRate: 0.20,
		},
		BankHolidays: BankHolidayConfig{
			URL:            "https://www.gov.uk/bank-holidays.json",
			TimeoutSeconds: 30,
		},
		Weather: WeatherConfig{
			Endpoint:       "https://api.open-meteo.com/v1/forecast",
			Model:          "ukmo_seamless",
			Timezone:       "Europe/London",
			TimeoutSeconds: 30,
		},
		Warehouse: WarehouseConfig{
			Schema: "public",
		},
		ML: MLConfig{
			Variants: []string{"baseline", "timesplit", "weekly"},
		},
	}
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-tourcast.yaml
// 3. ~/.config/pgedge-tourcast/config.yaml
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("pgedge-tourcast")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-tourcast"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{
		"log_level",
		"paths.data_dir",
		"warehouse.connection",
		"ml.runs_connection",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Raw returns the directory for raw pulls and seed files.
func (p PathsConfig) Raw() string {
	return p.sub(p.RawDir, "raw")
}

// Interim returns the directory for intermediate tables.
func (p PathsConfig) Interim() string {
	return p.sub(p.InterimDir, "interim")
}

// Processed returns the directory for warehouse-ready tables.
func (p PathsConfig) Processed() string {
	return p.sub(p.ProcessedDir, "processed")
}

// Models returns the directory for model bundles.
func (p PathsConfig) Models() string {
	return p.sub(p.ModelsDir, "models")
}

// Export returns the directory for spreadsheet exports.
func (p PathsConfig) Export() string {
	return p.sub(p.ExportDir, "pbi")
}

func (p PathsConfig) sub(explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(p.DataDir, name)
}

// CalendarRange parses the calendar bounds.
func (h HorizonConfig) CalendarRange() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, h.CalendarStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar_start %q: %w", h.CalendarStart, err)
	}
	end, err := time.Parse(DateLayout, h.CalendarEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar_end %q: %w", h.CalendarEnd, err)
	}
	return start, end, nil
}

// Validate checks the configuration shared by every command.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	start, end, err := c.Horizon.CalendarRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("calendar_end must not be before calendar_start")
	}

	h := c.Horizon
	if h.HistoryEndYear < h.HistoryStartYear {
		return fmt.Errorf("history_end_year must be >= history_start_year")
	}
	if h.HistoryStartYear < start.Year() || h.HistoryEndYear > end.Year() {
		return fmt.Errorf("history years %d-%d fall outside the calendar %d-%d",
			h.HistoryStartYear, h.HistoryEndYear, start.Year(), end.Year())
	}
	if h.ForecastYear < start.Year() || h.ForecastYear > end.Year() {
		return fmt.Errorf("forecast_year %d falls outside the calendar", h.ForecastYear)
	}

	if c.Simulation.VATRate < 0 || c.Simulation.VATRate >= 1 {
		return fmt.Errorf("vat_rate must be in [0, 1)")
	}
	if c.BankHolidays.TimeoutSeconds < 1 || c.Weather.TimeoutSeconds < 1 {
		return fmt.Errorf("http timeouts must be at least 1 second")
	}
	return nil
}

// ValidateWarehouse checks configuration required for the load command.
func (c *Config) ValidateWarehouse() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Warehouse.Connection == "" {
		return fmt.Errorf("warehouse connection string is required")
	}
	if c.Warehouse.Schema == "" {
		return fmt.Errorf("warehouse schema is required")
	}
	return nil
}

// ValidateML checks configuration required for model training.
func (c *Config) ValidateML() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.ML.Variants) == 0 {
		return fmt.Errorf("at least one forecast variant is required")
	}
	h := c.Horizon
	if h.TrainYear >= h.TestYear {
		return fmt.Errorf("train_year must be before test_year")
	}
	if h.TrainYear < h.HistoryStartYear || h.TestYear > h.HistoryEndYear {
		return fmt.Errorf("train/test years must fall inside the history years")
	}
	if c.ML.RecordRuns && c.RunsConnection() == "" {
		return fmt.Errorf("record_runs requires runs_connection or a warehouse connection")
	}
	return nil
}

// RunsConnection returns the connection used for training run history.
func (c *Config) RunsConnection() string {
	if c.ML.RunsConnection != "" {
		return c.ML.RunsConnection
	}
	return c.Warehouse.Connection
}
