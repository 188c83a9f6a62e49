package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeySourcePath            = "source.path"
	KeySourceFormat          = "source.format"
	KeySourceSheet           = "source.sheet"
	KeySourceCredentialsFile = "source.credentials_file"
	KeyServePort             = "serve.port"
	KeyServeOpenBrowser      = "serve.open_browser"
	KeySnapshotDBPath        = "snapshot.db_path"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyDashboardTimelineBy   = "dashboard.timeline_by"
)

const sheetsScheme = "gsheet://"

type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Serve     ServeConfig     `mapstructure:"serve"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Log       LogConfig       `mapstructure:"log"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type SourceConfig struct {
	Path            string `mapstructure:"path" validate:"required"`
	Format          string `mapstructure:"format" validate:"omitempty,oneof=excel csv snapshot gsheet"`
	Sheet           string `mapstructure:"sheet"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type ServeConfig struct {
	Port        int  `mapstructure:"port" validate:"min=1,max=65535"`
	OpenBrowser bool `mapstructure:"open_browser"`
}

type SnapshotConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type DashboardConfig struct {
	TimelineBy string `mapstructure:"timeline_by" validate:"oneof=subject person"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# roadboard configuration
source:
  # .xlsx/.xlsm/.xls, .csv, a roadboard snapshot .db, or gsheet://<spreadsheet-id>[/<sheet>]
  path: "roadmap.xlsx"
  format: ""
  sheet: ""
  credentials_file: ""

serve:
  port: 8501
  open_browser: true

snapshot:
  db_path: "./roadboard.db"

log:
  level: "info"
  format: "text"

dashboard:
  timeline_by: "subject"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.normalize()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSource(cfg.Source); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.Source.Path = strings.TrimSpace(c.Source.Path)
	c.Source.Format = strings.ToLower(strings.TrimSpace(c.Source.Format))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Dashboard.TimelineBy = strings.ToLower(strings.TrimSpace(c.Dashboard.TimelineBy))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySourcePath, "roadmap.xlsx")
	v.SetDefault(KeySourceFormat, "")
	v.SetDefault(KeySourceSheet, "")
	v.SetDefault(KeySourceCredentialsFile, "")
	v.SetDefault(KeyServePort, 8501)
	v.SetDefault(KeyServeOpenBrowser, true)
	v.SetDefault(KeySnapshotDBPath, "./roadboard.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyDashboardTimelineBy, "subject")
}

func validateSource(source SourceConfig) error {
	isSheets := strings.HasPrefix(strings.ToLower(source.Path), sheetsScheme)
	if source.Format == "gsheet" && !isSheets {
		return fmt.Errorf("validation failed: source.path must start with %s for gsheet sources", sheetsScheme)
	}
	if isSheets && strings.Trim(source.Path[len(sheetsScheme):], "/") == "" {
		return fmt.Errorf("validation failed: source.path %q is missing the spreadsheet id", source.Path)
	}
	if source.CredentialsFile != "" && !isSheets {
		return fmt.Errorf("validation failed: source.credentials_file is only used with gsheet sources")
	}
	return nil
}
