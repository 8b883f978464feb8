package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "device":
		return deviceTemplate, nil
	case "gateway":
		return gatewayTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const deviceTemplate = `name = "sensor-01"

[identity]
oui = 1
did = 1
seq_start = 0

[transport]
max_tx_attempts = 3
backoff_initial = "20ms"
backoff_max = "500ms"
backoff_jitter = true
byte_airtime = "500us"
rx_timeout = "5s"

[log]
level = "info"
`

const gatewayTemplate = `name = "gateway-01"

[identity]
oui = 1
any_device = true

[transport]
rx_timeout = "30s"
tracker_capacity = 1024
drop_replays = true

[capture]
path = "capture.cbor"

[log]
level = "info"
`
