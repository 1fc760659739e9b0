package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	// Backend selects where image bytes live: "disk" or "s3".
	Backend   string
	DiskRoot  string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type InferenceConfig struct {
	Endpoint string
	Token    string
	Model    string
	Timeout  time.Duration
}

type StudioConfig struct {
	GalleryLimitDefault int
	GalleryLimitMin     int
	GalleryLimitMax     int
	StatsScanCap        int
	RecentPrompts       int
	SessionIdleTTL      time.Duration
	StatsCacheTTL       time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Mongo            MongoConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Inference        InferenceConfig
	Studio           StudioConfig
	Styles           map[string]string
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("PROMPTCANVAS")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "120s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo.database", "image_generation")
	v.SetDefault("mongo.collection", "generated_images")
	v.SetDefault("mongo.connecttimeout", "5s")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.backend", "disk")
	v.SetDefault("storage.diskroot", "generated_images")
	v.SetDefault("storage.bucket", "promptcanvas-images")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("inference.endpoint", "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-xl-base-1.0")
	v.SetDefault("inference.model", "stabilityai/stable-diffusion-xl-base-1.0")
	v.SetDefault("inference.timeout", "90s")

	v.SetDefault("studio.gallerylimitdefault", 20)
	v.SetDefault("studio.gallerylimitmin", 5)
	v.SetDefault("studio.gallerylimitmax", 50)
	v.SetDefault("studio.statsscancap", 1000)
	v.SetDefault("studio.recentprompts", 5)
	v.SetDefault("studio.sessionidlettl", "1h")
	v.SetDefault("studio.statscachettl", "30s")

	v.SetDefault("styles", map[string]string{
		"realistic": "photorealistic, high quality, detailed, 8k resolution",
		"cartoon":   "cartoon style, animated, colorful, disney style",
		"cyberpunk": "cyberpunk style, neon lights, futuristic, sci-fi",
		"fantasy":   "fantasy art, magical, ethereal, mystical",
		"abstract":  "abstract art, artistic, creative, modern art",
	})
}
