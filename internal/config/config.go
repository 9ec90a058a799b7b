package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "voxelsim.cfg.json"

// SimConfig holds frame loop and world limits.
type SimConfig struct {
	FrameRate         int           `json:"frameRate" mapstructure:"frameRate"`
	AIInterval        time.Duration `json:"aiInterval" mapstructure:"aiInterval"`
	Difficulty        string        `json:"difficulty" mapstructure:"difficulty"`
	Seed              int64         `json:"seed" mapstructure:"seed"`
	WorldName         string        `json:"worldName" mapstructure:"worldName"`
	GroundLevel       int           `json:"groundLevel" mapstructure:"groundLevel"`
	AutoSpawnInterval time.Duration `json:"autoSpawnInterval" mapstructure:"autoSpawnInterval"`
	AutoSpawnCount    int           `json:"autoSpawnCount" mapstructure:"autoSpawnCount"`
	AutosaveInterval  time.Duration `json:"autosaveInterval" mapstructure:"autosaveInterval"`
	MonitorInterval   time.Duration `json:"monitorInterval" mapstructure:"monitorInterval"`
	MaxCharacters     int           `json:"maxCharacters" mapstructure:"maxCharacters"`
	MaxProjectiles    int           `json:"maxProjectiles" mapstructure:"maxProjectiles"`
	MaxDroppedItems   int           `json:"maxDroppedItems" mapstructure:"maxDroppedItems"`
}

// MemoryConfig holds in-memory/file storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// WebSocketConfig holds streaming backend settings
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	WebSocket WebSocketConfig `json:"websocket" mapstructure:"websocket"`
}

// DBConfig holds postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds InfluxDB settings
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// GraylogConfig holds GELF log shipping settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// APIConfig holds the world archive server settings
type APIConfig struct {
	ServerURL string `json:"serverUrl" mapstructure:"serverUrl"`
	APIKey    string `json:"apiKey" mapstructure:"apiKey"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./voxellogs")
	viper.SetDefault("tuningFile", "")

	viper.SetDefault("sim.frameRate", 20)
	viper.SetDefault("sim.aiInterval", "50ms")
	viper.SetDefault("sim.difficulty", "normal")
	viper.SetDefault("sim.seed", 0)
	viper.SetDefault("sim.worldName", "overworld")
	viper.SetDefault("sim.groundLevel", 0)
	viper.SetDefault("sim.autoSpawnInterval", "30s")
	viper.SetDefault("sim.autoSpawnCount", 3)
	viper.SetDefault("sim.autosaveInterval", "5m")
	viper.SetDefault("sim.monitorInterval", "10s")
	viper.SetDefault("sim.maxCharacters", 60)
	viper.SetDefault("sim.maxProjectiles", 200)
	viper.SetDefault("sim.maxDroppedItems", 300)

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./saves")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./saves/voxelsim.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/api/v1/stream")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "voxelsim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "voxelsim")
	viper.SetDefault("influx.bucket", "sim-performance")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "voxelsim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetSimConfig returns the simulation settings.
func GetSimConfig() SimConfig {
	return SimConfig{
		FrameRate:         viper.GetInt("sim.frameRate"),
		AIInterval:        viper.GetDuration("sim.aiInterval"),
		Difficulty:        viper.GetString("sim.difficulty"),
		Seed:              viper.GetInt64("sim.seed"),
		WorldName:         viper.GetString("sim.worldName"),
		GroundLevel:       viper.GetInt("sim.groundLevel"),
		AutoSpawnInterval: viper.GetDuration("sim.autoSpawnInterval"),
		AutoSpawnCount:    viper.GetInt("sim.autoSpawnCount"),
		AutosaveInterval:  viper.GetDuration("sim.autosaveInterval"),
		MonitorInterval:   viper.GetDuration("sim.monitorInterval"),
		MaxCharacters:     viper.GetInt("sim.maxCharacters"),
		MaxProjectiles:    viper.GetInt("sim.maxProjectiles"),
		MaxDroppedItems:   viper.GetInt("sim.maxDroppedItems"),
	}
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetDBConfig returns the postgres connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetGraylogConfig returns the GELF shipping settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetAPIConfig returns the world archive server settings.
func GetAPIConfig() APIConfig {
	return APIConfig{
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
	}
}
