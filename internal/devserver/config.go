package devserver

import (
	"github.com/kelseyhightower/envconfig"
)

const envconfigPrefix = "DEVSERVER"

// Config holds the development server's settings, read from environment
// variables.
type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	FileBaseURL    string `envconfig:"FILE_BASE_URL" default:"http://localhost:8081/files"` // nolint: lll
	SessionTTLDays int    `envconfig:"SESSION_TTL_DAYS" default:"7"`
	TokenTTLHours  int    `envconfig:"TOKEN_TTL_HOURS" default:"1"`
}

// GetConfigFromEnvironment returns server configuration derived from
// environment variables.
func GetConfigFromEnvironment() (Config, error) {
	c := Config{}
	return c, envconfig.Process(envconfigPrefix, &c)
}
