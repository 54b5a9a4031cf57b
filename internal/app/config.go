package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"devsecrets/internal/domain"
)

// Transport kinds.
const (
	TransportMemory = "memory"
	TransportSQLite = "sqlite"
	TransportRelay  = "relay"
	TransportPubSub = "pubsub"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Profile      string        `yaml:"profile" validate:"required"`
	LogLevel     string        `yaml:"log_level" validate:"required,oneof=trace debug info warn warning error"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
	// VisibilityTimeout is how long a delivery stays leased. Zero means the
	// transport default.
	VisibilityTimeout time.Duration `yaml:"visibility_timeout" validate:"gte=0"`
	MetricsAddr       string        `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	Transport TransportConfig `yaml:"transport"`
	Relay     RelayConfig     `yaml:"relay"`

	HTTP *http.Client `yaml:"-"` // optional; defaults to http.DefaultClient
}

// TransportConfig selects and configures the message transport.
type TransportConfig struct {
	Kind       string `yaml:"kind" validate:"required,oneof=memory sqlite relay pubsub"`
	Queue      string `yaml:"queue" validate:"required,max=128,excludesall=/ "`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Kind sqlite"`
	RelayURL   string `yaml:"relay_url" validate:"required,url"`

	PubSubProject      string `yaml:"pubsub_project" validate:"required_if=Kind pubsub"`
	PubSubTopic        string `yaml:"pubsub_topic" validate:"required_if=Kind pubsub"`
	PubSubSubscription string `yaml:"pubsub_subscription"`
	PubSubCredentials  string `yaml:"pubsub_credentials"`
	PubSubEndpoint     string `yaml:"pubsub_endpoint"`
}

// RelayConfig configures cmd/relay.
type RelayConfig struct {
	Listen string `yaml:"listen" validate:"required,hostname_port"`
}

// Defaults returns the configuration used when no file or flag says
// otherwise: the derived-key profile over a SQLite queue in the temp dir.
func Defaults() Config {
	return Config{
		Profile:      domain.ProfileDerivedKey.String(),
		LogLevel:     "info",
		PollInterval: 250 * time.Millisecond,
		Transport: TransportConfig{
			Kind:       TransportSQLite,
			Queue:      "devsecrets",
			SQLitePath: filepath.Join(os.TempDir(), "devsecrets-queue.db"),
			RelayURL:   "http://127.0.0.1:8080",
		},
		Relay: RelayConfig{Listen: "127.0.0.1:8080"},
	}
}

// LoadConfig reads path over Defaults and validates the result. An empty
// path yields the validated defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, cfg.Validate()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and that the profile name parses.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	if _, err := domain.ParseProfile(c.Profile); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	return nil
}

// ParsedProfile returns the profile; call Validate first.
func (c Config) ParsedProfile() domain.Profile {
	p, _ := domain.ParseProfile(c.Profile)
	return p
}
