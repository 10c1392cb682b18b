package configuration

import (
	"fmt"
	"os"
	"strconv"

	"channel-studio/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	YouTube     YouTube     `json:"youtube"`
	Sync        Sync        `json:"sync"`
	Queue       Queue       `json:"queue"`
}

type App struct {
	Port int `json:"port"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Logger struct {
	Format string `json:"format"`
}

// YouTube holds fallback OAuth client credentials used when a channel row
// does not carry its own client id/secret pair.
type YouTube struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// Sync controls the data synchronization pipeline.
type Sync struct {
	IntervalMinutes      int    `json:"intervalMinutes"`
	RecencyWindowMinutes int    `json:"recencyWindowMinutes"`
	AnalyticsWindowDays  int    `json:"analyticsWindowDays"`
	VideoCutoffDate      string `json:"videoCutoffDate"`
	TopVideosLimit       int    `json:"topVideosLimit"`
	MaxVideosPerChannel  int    `json:"maxVideosPerChannel"`
}

// Queue controls the content generation queue and its workflow engine.
type Queue struct {
	MaxInProgress int    `json:"maxInProgress"`
	WebhookURL    string `json:"webhookURL"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initSync(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = "localhost"
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
}

func initSync(C *Config) {
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		C.YouTube.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		C.YouTube.ClientSecret = v
	}
	if C.Sync.IntervalMinutes <= 0 {
		C.Sync.IntervalMinutes = 5
	}
	if C.Sync.RecencyWindowMinutes < 0 {
		C.Sync.RecencyWindowMinutes = 0
	} else if C.Sync.RecencyWindowMinutes == 0 {
		C.Sync.RecencyWindowMinutes = 60
	}
	if C.Sync.AnalyticsWindowDays <= 0 {
		C.Sync.AnalyticsWindowDays = 30
	}
	if C.Sync.VideoCutoffDate == "" {
		C.Sync.VideoCutoffDate = "2025-01-01"
	}
	if C.Sync.TopVideosLimit <= 0 {
		C.Sync.TopVideosLimit = 10
	}
	if C.Sync.MaxVideosPerChannel <= 0 {
		C.Sync.MaxVideosPerChannel = 50
	}
	if C.Queue.MaxInProgress <= 0 {
		C.Queue.MaxInProgress = 8
	}
	if C.Queue.WebhookURL == "" {
		C.Queue.WebhookURL = os.Getenv("N8N_WEBHOOK_URL")
	}
}
