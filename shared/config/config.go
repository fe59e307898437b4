// shared/config/config.go
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CommonConfig holds configuration fields that are shared across multiple services.
type CommonConfig struct {
	Env                     string        // DEV (default), TEST, PROD
	Debug                   bool          // Enables debug logging
	RollbarToken            string        // Rollbar access token; error reporting is disabled when empty
	MongoDBConnStr          string        // MongoDB connection string
	MongoDBDatabase         string        // MongoDB database name (e.g., "treasure_hunt")
	RedisAddrs              []string      // Redis server addresses (single node or cluster seeds)
	RedisPassword           string        // Redis password for authentication
	HeartbeatInterval       time.Duration // How often to send a heartbeat to registry (e.g., 5s)
	HeartbeatTTL            time.Duration // How long an instance is considered alive without a heartbeat (e.g., 15s)
	RegistryCleanupInterval time.Duration // How often the registry actively cleans stale entries (e.g., 30s)
	ServiceIP               string        // The IP address this service advertises for registration
	ServicePort             int           // The port this service listens on, used for registration
}

// HuntServiceConfig holds configuration specific to the hunt-api service.
type HuntServiceConfig struct {
	CommonConfig
	ListenAddr          string        // Address for the HTTP server (e.g., ":5000")
	StoreBackend        string        // "mongo" (default) or "memory"
	JWTSecret           string        // Shared secret for player and admin tokens
	JWTExpiration       time.Duration // Token lifetime
	UploadsDir          string        // Local directory for uploaded media
	MediaBackend        string        // "local" (default) or "cloudinary"
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	NotifyMode          string // "direct" (default) or "redis"
	StaticDir           string // Built frontend; SPA fallback is disabled when empty
	PublicBaseURL       string // Default QR base URL when Settings has none
	MaxUploadBytes      int64
	RegisterService     bool // Heartbeat into the Redis registry
}

// WorkerConfig holds configuration specific to the hunt-worker service.
type WorkerConfig struct {
	CommonConfig
	HuntServiceURL         string        // Base URL of the hunt-api (e.g., "http://hunt-api:5000")
	ScoreboardSyncInterval time.Duration // How often rank changes are recomputed
	AssignmentInterval     time.Duration // How often the consistent hash ring is refreshed
	DrainTimeout           time.Duration // BLPOP timeout for the notification queue
}

// LoadDotEnv loads .env.<env> and then .env from the working directory when present.
func LoadDotEnv() error {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "dev"
	}
	for _, path := range []string{".env." + env, ".env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("ENV", "DEV")
	v.SetDefault("DEBUG", false)
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("MONGODB_CONN_STR", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "treasure_hunt")
	v.SetDefault("REDIS_ADDRS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SERVICE_HEARTBEAT_INTERVAL", 5*time.Second)
	v.SetDefault("SERVICE_HEARTBEAT_TTL", 15*time.Second)
	v.SetDefault("SERVICE_REGISTRY_CLEANUP_INTERVAL", 30*time.Second)
	v.SetDefault("POD_IP", "")

	v.SetDefault("HUNT_LISTEN_ADDR", ":5000")
	v.SetDefault("STORE_BACKEND", "mongo")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", 7*24*time.Hour)
	v.SetDefault("UPLOADS_DIR", "uploads")
	v.SetDefault("MEDIA_BACKEND", "local")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("NOTIFY_MODE", "direct")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(32<<20))
	v.SetDefault("REGISTER_SERVICE", false)

	v.SetDefault("HUNT_SERVICE_URL", "http://hunt-api:5000")
	v.SetDefault("SCOREBOARD_SYNC_INTERVAL", time.Minute)
	v.SetDefault("ASSIGNMENT_INTERVAL", 10*time.Second)
	v.SetDefault("NOTIFY_DRAIN_TIMEOUT", 5*time.Second)

	v.AutomaticEnv()
	return v
}

// LoadCommonConfig loads common configuration from environment variables.
func LoadCommonConfig() (CommonConfig, error) {
	return loadCommon(newViper())
}

func loadCommon(v *viper.Viper) (CommonConfig, error) {
	cfg := CommonConfig{
		Env:                     strings.ToUpper(v.GetString("ENV")),
		Debug:                   v.GetBool("DEBUG"),
		RollbarToken:            v.GetString("ROLLBAR_TOKEN"),
		MongoDBConnStr:          v.GetString("MONGODB_CONN_STR"),
		MongoDBDatabase:         v.GetString("MONGODB_DATABASE"),
		RedisPassword:           v.GetString("REDIS_PASSWORD"),
		HeartbeatInterval:       v.GetDuration("SERVICE_HEARTBEAT_INTERVAL"),
		HeartbeatTTL:            v.GetDuration("SERVICE_HEARTBEAT_TTL"),
		RegistryCleanupInterval: v.GetDuration("SERVICE_REGISTRY_CLEANUP_INTERVAL"),
		ServiceIP:               v.GetString("POD_IP"),
	}
	for _, addr := range strings.Split(v.GetString("REDIS_ADDRS"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			cfg.RedisAddrs = append(cfg.RedisAddrs, addr)
		}
	}
	if cfg.ServiceIP == "" {
		cfg.ServiceIP = "0.0.0.0"
	}
	if cfg.HeartbeatInterval <= 0 || cfg.HeartbeatTTL <= 0 {
		return cfg, fmt.Errorf("heartbeat interval and TTL must be positive durations")
	}
	return cfg, nil
}

// extractPort extracts the numeric port from a listen address (e.g., ":5000" -> 5000, "0.0.0.0:5000" -> 5000)
func extractPort(listenAddr string) (int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		if strings.HasPrefix(listenAddr, ":") {
			portStr = strings.TrimPrefix(listenAddr, ":")
		} else {
			return 0, fmt.Errorf("invalid ListenAddr format for port extraction: %w", err)
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number '%s': %w", portStr, err)
	}
	return port, nil
}

// LoadHuntServiceConfig loads configuration for the hunt-api service.
func LoadHuntServiceConfig() (*HuntServiceConfig, error) {
	return loadHuntServiceConfig(newViper())
}

func loadHuntServiceConfig(v *viper.Viper) (*HuntServiceConfig, error) {
	common, err := loadCommon(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for hunt-api: %w", err)
	}

	cfg := &HuntServiceConfig{
		CommonConfig:        common,
		ListenAddr:          v.GetString("HUNT_LISTEN_ADDR"),
		StoreBackend:        strings.ToLower(v.GetString("STORE_BACKEND")),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTExpiration:       v.GetDuration("JWT_EXPIRATION"),
		UploadsDir:          v.GetString("UPLOADS_DIR"),
		MediaBackend:        strings.ToLower(v.GetString("MEDIA_BACKEND")),
		CloudinaryCloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
		NotifyMode:          strings.ToLower(v.GetString("NOTIFY_MODE")),
		StaticDir:           v.GetString("STATIC_DIR"),
		PublicBaseURL:       strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		MaxUploadBytes:      v.GetInt64("MAX_UPLOAD_BYTES"),
		RegisterService:     v.GetBool("REGISTER_SERVICE"),
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from HUNT_LISTEN_ADDR '%s': %w", cfg.ListenAddr, err)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "PROD" {
			return nil, fmt.Errorf("JWT_SECRET must be set in PROD")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}
	switch cfg.StoreBackend {
	case "mongo", "memory":
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be mongo or memory (got %q)", cfg.StoreBackend)
	}
	switch cfg.MediaBackend {
	case "local":
	case "cloudinary":
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			return nil, fmt.Errorf("MEDIA_BACKEND=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return nil, fmt.Errorf("MEDIA_BACKEND must be local or cloudinary (got %q)", cfg.MediaBackend)
	}
	switch cfg.NotifyMode {
	case "direct", "redis":
	default:
		return nil, fmt.Errorf("NOTIFY_MODE must be direct or redis (got %q)", cfg.NotifyMode)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive (got %d)", cfg.MaxUploadBytes)
	}
	return cfg, nil
}

// LoadWorkerConfig loads configuration for the hunt-worker service.
func LoadWorkerConfig() (*WorkerConfig, error) {
	return loadWorkerConfig(newViper())
}

func loadWorkerConfig(v *viper.Viper) (*WorkerConfig, error) {
	common, err := loadCommon(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for hunt-worker: %w", err)
	}
	cfg := &WorkerConfig{
		CommonConfig:           common,
		HuntServiceURL:         strings.TrimRight(v.GetString("HUNT_SERVICE_URL"), "/"),
		ScoreboardSyncInterval: v.GetDuration("SCOREBOARD_SYNC_INTERVAL"),
		AssignmentInterval:     v.GetDuration("ASSIGNMENT_INTERVAL"),
		DrainTimeout:           v.GetDuration("NOTIFY_DRAIN_TIMEOUT"),
	}
	if cfg.ScoreboardSyncInterval <= 0 {
		return nil, fmt.Errorf("SCOREBOARD_SYNC_INTERVAL must be positive")
	}
	if cfg.AssignmentInterval <= 0 {
		return nil, fmt.Errorf("ASSIGNMENT_INTERVAL must be positive")
	}
	if len(cfg.RedisAddrs) == 0 {
		return nil, fmt.Errorf("REDIS_ADDRS is required for hunt-worker")
	}
	return cfg, nil
}
