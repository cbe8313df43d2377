package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

type Config struct {
	// Port Settings
	Host        string `yaml:"host"`        // The public base URL of the server.
	ServerAddr  string `yaml:"serverAddr"`  // The address the server endpoint binds to.
	MetricsPath string `yaml:"metricsPath"` // The path the Prometheus metrics are served on.

	Auth struct {
		AccessTokenSecret      string `yaml:"accessTokenSecret"`
		RefreshTokenSecret     string `yaml:"refreshTokenSecret"`
		AccessTokenExpiryHour  int    `yaml:"accessTokenExpiryHour"`
		RefreshTokenExpiryHour int    `yaml:"refreshTokenExpiryHour"`
	} `yaml:"auth"`

	Postgres struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		DBName   string `yaml:"dbname"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"sslmode"`
		TimeZone string `yaml:"timeZone"`
	} `yaml:"postgres"`

	ObjectStore ObjectStore `yaml:"objectStore"`
	SMTP        SMTP        `yaml:"smtp"`
	SMS         SMS         `yaml:"sms"`

	GoogleOAuth struct {
		ClientID string `yaml:"clientID"`
	} `yaml:"googleOAuth"`

	Cleaner struct {
		Enable bool   `yaml:"enable"`
		Spec   string `yaml:"spec"` // Cron spec for the orphan attachment sweep.
	} `yaml:"cleaner"`
}

// ObjectStore configures the storage service holding checklist attachments
// (REST API, bucket-scoped keys).
type ObjectStore struct {
	Endpoint   string `yaml:"endpoint"`
	Bucket     string `yaml:"bucket"`
	ServiceKey string `yaml:"serviceKey"`
}

// SMTP configures the outgoing mail account.
type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	Notify   string `yaml:"notify"` // Address lead notifications are sent to.
}

// SMS configures the HTTP gateway used for phone OTP delivery.
type SMS struct {
	GatewayURL string `yaml:"gatewayURL"`
	APIKey     string `yaml:"apiKey"`
	Sender     string `yaml:"sender"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads the configuration file. In debug mode it reads
// debug-config.yaml (path overridable via URBANNEST_DEBUG_CONFIG_PATH),
// otherwise the config.yaml mounted at /etc/config.
func initConfig() *Config {
	config := &Config{}
	var configPath string
	if IsDebugMode() {
		if os.Getenv("URBANNEST_DEBUG_CONFIG_PATH") != "" {
			configPath = os.Getenv("URBANNEST_DEBUG_CONFIG_PATH")
		} else {
			configPath = "./etc/debug-config.yaml"
		}
	} else {
		configPath = "/etc/config/config.yaml"
	}
	klog.Info("config path: ", configPath)

	if err := readConfig(configPath, config); err != nil {
		klog.Error("init config", err)
		panic(err)
	}
	return config
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}
