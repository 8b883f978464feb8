package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/longfi/internal/logging"
	"github.com/danmuck/longfi/internal/protocol/session"
	"github.com/danmuck/longfi/internal/transport"
)

// NodeConfig is the resolved configuration of one LongFi node.
type NodeConfig struct {
	Name        string
	Identity    session.Identity
	SeqStart    uint32
	Transport   transport.Config
	RxTimeout   time.Duration
	CapturePath string
	LogLevel    string
}

type fileConfig struct {
	Name      string          `toml:"name"`
	Identity  identitySection `toml:"identity"`
	Transport transportConfig `toml:"transport"`
	Capture   captureSection  `toml:"capture"`
	Log       logSection      `toml:"log"`
}

type identitySection struct {
	OUI       int64 `toml:"oui"`
	DID       int64 `toml:"did"`
	AnyDevice bool  `toml:"any_device"`
	SeqStart  int64 `toml:"seq_start"`
}

type transportConfig struct {
	MaxTxAttempts   int    `toml:"max_tx_attempts"`
	BackoffInitial  string `toml:"backoff_initial"`
	BackoffMax      string `toml:"backoff_max"`
	BackoffJitter   bool   `toml:"backoff_jitter"`
	ByteAirtime     string `toml:"byte_airtime"`
	RxTimeout       string `toml:"rx_timeout"`
	TrackerCapacity int    `toml:"tracker_capacity"`
	DropReplays     bool   `toml:"drop_replays"`
}

type captureSection struct {
	Path string `toml:"path"`
}

type logSection struct {
	Level string `toml:"level"`
}

func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		Name:      "longfi",
		Transport: transport.DefaultConfig(),
		RxTimeout: 5 * time.Second,
		LogLevel:  "info",
	}
}

// LoadNodeConfig reads path and overlays the keys it defines on the
// defaults.
func LoadNodeConfig(path string) (NodeConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return NodeConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return NodeConfig{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}
	cfg, err := resolve(raw, meta)
	if err != nil {
		return NodeConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := ValidateNodeConfig(cfg); err != nil {
		return NodeConfig{}, err
	}
	return cfg, nil
}

func resolve(raw fileConfig, meta toml.MetaData) (NodeConfig, error) {
	cfg := DefaultNodeConfig()

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}

	for _, f := range []struct {
		key string
		raw int64
		dst *uint32
	}{
		{"oui", raw.Identity.OUI, &cfg.Identity.OUI},
		{"did", raw.Identity.DID, &cfg.Identity.DID},
		{"seq_start", raw.Identity.SeqStart, &cfg.SeqStart},
	} {
		if !meta.IsDefined("identity", f.key) {
			continue
		}
		if f.raw < 0 || f.raw > int64(^uint32(0)) {
			return NodeConfig{}, fmt.Errorf("identity.%s out of range: %d", f.key, f.raw)
		}
		*f.dst = uint32(f.raw)
	}
	if meta.IsDefined("identity", "any_device") {
		cfg.Identity.AnyDevice = raw.Identity.AnyDevice
	}

	t := &cfg.Transport
	t.Node = cfg.Name
	if meta.IsDefined("transport", "max_tx_attempts") {
		t.MaxTxAttempts = raw.Transport.MaxTxAttempts
	}
	if meta.IsDefined("transport", "backoff_initial") {
		d, err := parseDuration("backoff_initial", raw.Transport.BackoffInitial)
		if err != nil {
			return NodeConfig{}, err
		}
		t.Backoff.InitialDelay = d
	}
	if meta.IsDefined("transport", "backoff_max") {
		d, err := parseDuration("backoff_max", raw.Transport.BackoffMax)
		if err != nil {
			return NodeConfig{}, err
		}
		t.Backoff.MaxDelay = d
	}
	if meta.IsDefined("transport", "backoff_jitter") {
		t.Backoff.Jitter = raw.Transport.BackoffJitter
	}
	if meta.IsDefined("transport", "byte_airtime") {
		d, err := parseDuration("byte_airtime", raw.Transport.ByteAirtime)
		if err != nil {
			return NodeConfig{}, err
		}
		t.Backoff.ByteAirtime = d
	}
	if meta.IsDefined("transport", "rx_timeout") {
		d, err := parseDuration("rx_timeout", raw.Transport.RxTimeout)
		if err != nil {
			return NodeConfig{}, err
		}
		cfg.RxTimeout = d
	}
	if meta.IsDefined("transport", "tracker_capacity") {
		t.TrackerCapacity = raw.Transport.TrackerCapacity
	}
	if meta.IsDefined("transport", "drop_replays") {
		t.DropReplays = raw.Transport.DropReplays
	}

	if meta.IsDefined("capture", "path") {
		cfg.CapturePath = strings.TrimSpace(raw.Capture.Path)
	}
	if meta.IsDefined("log", "level") {
		cfg.LogLevel = strings.TrimSpace(raw.Log.Level)
	}
	return cfg, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func ValidateNodeConfig(cfg NodeConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("node config missing name")
	}
	if cfg.Transport.MaxTxAttempts < 1 {
		return fmt.Errorf("node config max_tx_attempts must be at least 1")
	}
	if cfg.Transport.TrackerCapacity < 0 {
		return fmt.Errorf("node config tracker_capacity must not be negative")
	}
	if cfg.Transport.Backoff.ByteAirtime < 0 {
		return fmt.Errorf("node config byte_airtime must not be negative")
	}
	if cfg.RxTimeout <= 0 {
		return fmt.Errorf("node config rx_timeout must be positive")
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("node config unknown log level %q", cfg.LogLevel)
	}
	return nil
}
