package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"CallbackNotifier/internal/domain"
)

const (
	defaultConfigPath = "config.json"
	configPathEnv     = "CALLBACK_NOTIFIER_CONFIG"
	webhookEnv        = "DISCORD_WEBHOOK"
	misUsernameEnv    = "MIS_USERNAME"
	misPasswordEnv    = "MIS_PASSWORD"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	markerDSNEnv      = "MARKER_DSN"
	logLevelEnv       = "LOG_LEVEL"
	futureMinEnv      = "FUTURE_MIN"
	lookbackHoursEnv  = "LOOKBACK_HOURS"
	portEnv           = "PORT"
)

// ErrInvalid marks configuration that loaded but cannot drive a run.
var ErrInvalid = errors.New("invalid configuration")

// Config holds everything a monitoring run and its surfaces need.
type Config struct {
	MasterSwitch    bool
	CooldownMinutes int
	Sources         []domain.Source
	Run             RunConfig
	Logging         LoggingConfig
	Notifications   NotificationConfig
	Marker          MarkerConfig
	MIS             MISConfig
	Server          ServerConfig
}

// RunConfig holds the default horizons of a run.
type RunConfig struct {
	FutureMin   int `yaml:"future_min"`
	LookbackHrs int `yaml:"lookback_hrs"`
}

// LoggingConfig selects slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Discord  DiscordConfig  `yaml:"discord"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// DiscordConfig points at the incoming webhook receiving alerts.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// MarkerConfig chooses where the last-sent marker lives.
// Driver is one of "file", "sqlite" or "postgres".
type MarkerConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// MISConfig carries the credentials shared by every MIS site.
type MISConfig struct {
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ServerConfig drives the long-running serve mode.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Cron string `yaml:"cron"`
}

// SystemConfig is one entry of the "systems" mapping as stored on disk.
type SystemConfig struct {
	Active        *bool  `yaml:"active"`
	Icon          string `yaml:"icon"`
	URL           string `yaml:"url"`
	PropIDCol     *int   `yaml:"prop_id_col"`
	RemarksCol    *int   `yaml:"remarks_col"`
	MemberNameCol *int   `yaml:"member_name_col"`
	FilterLabel   string `yaml:"filter_label"`
	Scanner       string `yaml:"scanner"`
}

type fileConfig struct {
	MasterSwitch    *bool              `yaml:"master_switch"`
	CooldownMinutes *int               `yaml:"cooldown_minutes"`
	Systems         yaml.Node          `yaml:"systems"`
	Run             RunConfig          `yaml:"run"`
	Logging         LoggingConfig      `yaml:"logging"`
	Notifications   NotificationConfig `yaml:"notifications"`
	Marker          MarkerConfig       `yaml:"marker"`
	MIS             MISConfig          `yaml:"mis"`
	Server          ServerConfig       `yaml:"server"`
}

// Load reads the configuration file (if present) and applies environment
// overrides. An empty path falls back to $CALLBACK_NOTIFIER_CONFIG and then
// to config.json; a missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(configPathEnv)
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigPath
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileCfg, perr := Parse(raw)
		if perr != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, perr)
		}
		cfg = mergeConfig(cfg, fileCfg)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	default:
		log.Printf("config: %s not found, running without sources", path)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a YAML or JSON document. Sources keep the order in which the
// "systems" mapping lists them.
func Parse(raw []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, err
	}

	sources, err := decodeSystems(&fc.Systems)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		MasterSwitch:  true,
		Sources:       sources,
		Run:           fc.Run,
		Logging:       fc.Logging,
		Notifications: fc.Notifications,
		Marker:        fc.Marker,
		MIS:           fc.MIS,
		Server:        fc.Server,
	}
	if fc.MasterSwitch != nil {
		cfg.MasterSwitch = *fc.MasterSwitch
	}
	if fc.CooldownMinutes != nil {
		cfg.CooldownMinutes = *fc.CooldownMinutes
	}
	return cfg, nil
}

func decodeSystems(node *yaml.Node) ([]domain.Source, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("systems: expected a mapping, got line %d", node.Line)
	}

	sources := make([]domain.Source, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		var sys SystemConfig
		if err := node.Content[i+1].Decode(&sys); err != nil {
			return nil, fmt.Errorf("system %s: %w", name, err)
		}
		if sys.PropIDCol == nil || sys.RemarksCol == nil {
			return nil, fmt.Errorf("system %s: prop_id_col and remarks_col are required", name)
		}

		source := domain.Source{
			Name:        name,
			Icon:        sys.Icon,
			URL:         sys.URL,
			FilterLabel: sys.FilterLabel,
			ProposalCol: *sys.PropIDCol,
			RemarksCol:  *sys.RemarksCol,
			MemberCol:   sys.MemberNameCol,
			Active:      true,
			Scanner:     sys.Scanner,
		}
		if sys.Active != nil {
			source.Active = *sys.Active
		}
		if source.Icon == "" {
			source.Icon = domain.DefaultIcon
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// Validate checks the source definitions and run horizons.
func (c Config) Validate() error {
	if c.CooldownMinutes < 0 {
		return fmt.Errorf("%w: cooldown_minutes must not be negative", ErrInvalid)
	}
	if c.Run.FutureMin < 0 || c.Run.LookbackHrs < 0 {
		return fmt.Errorf("%w: run horizons must not be negative", ErrInvalid)
	}

	validate := validator.New()
	seen := make(map[string]struct{}, len(c.Sources))
	for _, source := range c.Sources {
		if _, dup := seen[source.Name]; dup {
			return fmt.Errorf("%w: duplicate system %s", ErrInvalid, source.Name)
		}
		seen[source.Name] = struct{}{}

		if err := validate.Struct(source); err != nil {
			return fmt.Errorf("%w: system %s: %v", ErrInvalid, source.Name, err)
		}
	}
	return nil
}

// ActiveSources returns the sources a run will visit, in configuration order.
func (c Config) ActiveSources() []domain.Source {
	active := make([]domain.Source, 0, len(c.Sources))
	for _, source := range c.Sources {
		if source.Active {
			active = append(active, source)
		}
	}
	return active
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(webhookEnv); v != "" {
		c.Notifications.Discord.WebhookURL = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(misUsernameEnv); v != "" {
		c.MIS.Username = v
	}

	if v := os.Getenv(misPasswordEnv); v != "" {
		c.MIS.Password = v
	}

	if v := os.Getenv(markerDSNEnv); v != "" {
		c.Marker.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(portEnv); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}

	if v, ok := intEnv(futureMinEnv); ok {
		c.Run.FutureMin = v
	}

	if v, ok := intEnv(lookbackHoursEnv); ok {
		c.Run.LookbackHrs = v
	}
}

func intEnv(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, keeping default", key, raw)
		return 0, false
	}
	return v, true
}

func mergeConfig(base, override Config) Config {
	base.MasterSwitch = override.MasterSwitch
	base.CooldownMinutes = override.CooldownMinutes
	base.Sources = override.Sources

	if override.Run.FutureMin != 0 {
		base.Run.FutureMin = override.Run.FutureMin
	}
	if override.Run.LookbackHrs != 0 {
		base.Run.LookbackHrs = override.Run.LookbackHrs
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Notifications.Discord.WebhookURL != "" {
		base.Notifications.Discord.WebhookURL = override.Notifications.Discord.WebhookURL
	}
	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Marker.Driver != "" {
		base.Marker.Driver = override.Marker.Driver
	}
	if override.Marker.Path != "" {
		base.Marker.Path = override.Marker.Path
	}
	if override.Marker.DSN != "" {
		base.Marker.DSN = override.Marker.DSN
	}

	if override.MIS.Username != "" {
		base.MIS.Username = override.MIS.Username
	}
	if override.MIS.Password != "" {
		base.MIS.Password = override.MIS.Password
	}
	if override.MIS.Timeout > 0 {
		base.MIS.Timeout = override.MIS.Timeout
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.Cron != "" {
		base.Server.Cron = override.Server.Cron
	}

	return base
}

func defaultConfig() Config {
	return Config{
		MasterSwitch:    true,
		CooldownMinutes: 0,
		Run:             RunConfig{FutureMin: 15, LookbackHrs: 24},
		Logging:         LoggingConfig{Level: "info", Format: "text"},
		Marker:          MarkerConfig{Driver: "file", Path: "last_sent.txt"},
		MIS:             MISConfig{Timeout: 30 * time.Second},
		Server:          ServerConfig{Addr: ":10000"},
	}
}
