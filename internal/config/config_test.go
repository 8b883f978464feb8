package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestTemplatesLoad(t *testing.T) {
	for _, kind := range []string{"device", "gateway"} {
		path := filepath.Join(t.TempDir(), kind+".toml")
		if err := WriteTemplate(path, kind, false); err != nil {
			t.Fatalf("write %s template: %v", kind, err)
		}
		cfg, err := LoadNodeConfig(path)
		if err != nil {
			t.Fatalf("load %s template: %v", kind, err)
		}
		if cfg.Name == "" {
			t.Fatalf("%s template has empty name", kind)
		}
		if cfg.Identity.OUI != 1 {
			t.Fatalf("%s template oui=%d", kind, cfg.Identity.OUI)
		}
	}
}

func TestLoadDeviceTemplateAirtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.toml")
	if err := WriteTemplate(path, "device", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := LoadNodeConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Transport.Backoff.ByteAirtime; got != 500*time.Microsecond {
		t.Fatalf("byte_airtime=%v", got)
	}

	cfg, err = LoadNodeConfig(writeConfig(t, "[transport]\nbyte_airtime = \"2ms\"\n"))
	if err != nil {
		t.Fatalf("load override: %v", err)
	}
	if got := cfg.Transport.Backoff.ByteAirtime; got != 2*time.Millisecond {
		t.Fatalf("byte_airtime override=%v", got)
	}
	if got := cfg.Transport.Backoff.InitialDelay; got != 20*time.Millisecond {
		t.Fatalf("undefined backoff_initial should keep default, got %v", got)
	}
}

func TestLoadGatewayTemplateValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gw.toml")
	if err := WriteTemplate(path, "gateway", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := LoadNodeConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Identity.AnyDevice {
		t.Fatalf("gateway template should accept any device")
	}
	if cfg.RxTimeout != 30*time.Second {
		t.Fatalf("rx_timeout=%v", cfg.RxTimeout)
	}
	if cfg.CapturePath != "capture.cbor" {
		t.Fatalf("capture path=%q", cfg.CapturePath)
	}
	if cfg.Transport.Node != "gateway-01" {
		t.Fatalf("transport node=%q", cfg.Transport.Node)
	}
	if cfg.Transport.MaxTxAttempts != 3 {
		t.Fatalf("undefined keys should keep defaults, max_tx_attempts=%d", cfg.Transport.MaxTxAttempts)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	path := writeConfig(t, "name = \"x\"\n")
	if err := WriteTemplate(path, "device", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "device", true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
	if _, err := Template("satellite"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"negative oui":     "[identity]\noui = -1\n",
		"oversized did":    "[identity]\ndid = 4294967296\n",
		"bad duration":     "[transport]\nrx_timeout = \"soon\"\n",
		"negative airtime": "[transport]\nbyte_airtime = \"-1ms\"\n",
		"zero attempts":    "[transport]\nmax_tx_attempts = 0\n",
		"unknown level":    "[log]\nlevel = \"loud\"\n",
		"unknown key":      "[identity]\nmac = 1\n",
		"empty name":       "name = \"  \"\n",
		"malformed syntax": "[identity\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadNodeConfig(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadNodeConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
