package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/perthos/docpress/internal/normalize"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Output   OutputConfig      `yaml:"output"`
	Pipeline PipelineConfig    `yaml:"pipeline"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration. A validation failure here is fatal:
// it aborts the run before any document is processed.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration for serve mode.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// OutputConfig holds the artifact store root.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// PipelineConfig controls the transform pipeline and the run coordinator.
//
// ElideThreshold and ElideKeep default from the profile when zero; an
// explicit threshold must leave room for both kept ends plus the marker.
type PipelineConfig struct {
	Profile        string   `yaml:"profile"`
	Concurrency    int      `yaml:"concurrency"`
	ElideThreshold int      `yaml:"elide_threshold"`
	ElideKeep      int      `yaml:"elide_keep"`
	LinkDenylist   []string `yaml:"link_denylist"`
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
}

// Validate validates the pipeline configuration.
func (c *PipelineConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Profile, validation.Required, validation.In(
			normalize.ProfileLossless, normalize.ProfileBalanced, normalize.ProfileCompact)),
		validation.Field(&c.Concurrency, validation.Min(0), validation.Max(256)),
		validation.Field(&c.ElideThreshold, validation.Min(0)),
		validation.Field(&c.ElideKeep, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.ElideThreshold > 0 && c.ElideThreshold < 2*c.ElideKeep+1 {
		return fmt.Errorf("pipeline: elide_threshold %d too small for elide_keep %d", c.ElideThreshold, c.ElideKeep)
	}
	return nil
}

// NormalizeConfig resolves the pipeline settings into a normalize.Config,
// applying profile defaults for unset elision parameters.
func (c *PipelineConfig) NormalizeConfig() normalize.Config {
	threshold, keep := c.ElideThreshold, c.ElideKeep
	if threshold == 0 && keep == 0 {
		threshold, keep = normalize.ParamsForProfile(c.Profile)
	}
	return normalize.Config{
		Profile:        c.Profile,
		ElideThreshold: threshold,
		ElideKeep:      keep,
		LinkDenylist:   c.LinkDenylist,
	}
}

// AuthConfig holds authentication configuration for the query API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Output: OutputConfig{
			Path: "./sourcedocs",
		},
		Pipeline: PipelineConfig{
			Profile:     normalize.ProfileBalanced,
			Concurrency: 4,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
