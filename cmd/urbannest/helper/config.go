package helper

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/urbannest/urbannest/pkg/config"
)

// ConfigInitializer wraps configuration loading for the server entrypoint.
type ConfigInitializer struct {
	backendConfig *config.Config
}

func NewConfigInitializer() *ConfigInitializer {
	return &ConfigInitializer{
		backendConfig: config.GetConfig(),
	}
}

func (ci *ConfigInitializer) GetBackendConfig() *config.Config {
	return ci.backendConfig
}

// LoadDebugEnvironment reads .debug.env in debug mode and lets it override
// the listen address.
func (ci *ConfigInitializer) LoadDebugEnvironment() error {
	if gin.Mode() != gin.DebugMode {
		return nil
	}

	err := godotenv.Load(".debug.env")
	if err != nil {
		return err
	}

	be := os.Getenv("URBANNEST_BE_PORT")
	if be == "" {
		panic("URBANNEST_BE_PORT is not set")
	}
	ci.backendConfig.ServerAddr = ":" + be

	return nil
}
