package observability

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/longfi/internal/logging"
)

// InitLogger configures the runtime profile and installs a logger tagged
// with app as the zerolog default.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := logging.New(os.Stderr).With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
