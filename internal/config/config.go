package config

import (
	"errors"  // For validation errors
	"fmt"     // For error wrapping
	"os"      // For environment variables
	"strconv" // For string to number conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
	"gopkg.in/yaml.v3"         // For the optional config file
)

// Config holds the application configuration. It is built once at startup and passed by value.
type Config struct {
	AppPort  string `yaml:"appPort"`  // Application port
	IsProd   bool   `yaml:"isProd"`   // Is production environment
	LogLevel string `yaml:"logLevel"` // Logrus level name

	DBDriver    string `yaml:"dbDriver"`    // mysql, postgres or sqlite
	DBUser      string `yaml:"dbUser"`      // Database user
	DBPassword  string `yaml:"dbPassword"`  // Database password
	DBHost      string `yaml:"dbHost"`      // Database host
	DBPort      string `yaml:"dbPort"`      // Database port
	DBName      string `yaml:"dbName"`      // Database name
	DBSSLMode   string `yaml:"dbSslMode"`   // Postgres sslmode
	DBPath      string `yaml:"dbPath"`      // SQLite file path
	AutoMigrate bool   `yaml:"autoMigrate"` // Migrate schema and ensure admin on server start

	JWTSecret   string        `yaml:"jwtSecret"`   // JWT secret key
	JWTIssuer   string        `yaml:"jwtIssuer"`   // JWT iss claim
	JWTAudience string        `yaml:"jwtAudience"` // JWT aud claim
	JWTTTL      time.Duration `yaml:"jwtTtl"`      // Token lifetime

	RedisAddr string        `yaml:"redisAddr"` // Redis server address, empty disables caching
	RedisPass string        `yaml:"redisPass"` // Redis password
	RedisDB   int           `yaml:"redisDb"`   // Redis database number
	CacheTTL  time.Duration `yaml:"cacheTtl"`  // Catalog cache lifetime

	StorageDriver  string `yaml:"storageDriver"`  // local or minio
	UploadDir      string `yaml:"uploadDir"`      // Local upload root
	MinioEndpoint  string `yaml:"minioEndpoint"`  // MinIO host:port
	MinioAccessKey string `yaml:"minioAccessKey"` // MinIO access key
	MinioSecretKey string `yaml:"minioSecretKey"` // MinIO secret key
	MinioBucket    string `yaml:"minioBucket"`    // MinIO bucket
	MinioUseSSL    bool   `yaml:"minioUseSsl"`    // Use TLS to reach MinIO

	RecommendationURL      string `yaml:"recommendationUrl"`      // Upstream search endpoint
	RecommendationCoverURL string `yaml:"recommendationCoverUrl"` // Cover URL pattern, %v is the cover id
	RecommendationLimit    int    `yaml:"recommendationLimit"`    // Max results mapped

	CORSOrigins    []string `yaml:"corsOrigins"`    // Allowed browser origins
	TrustedProxies []string `yaml:"trustedProxies"` // Proxies trusted by gin

	AdminUsername string `yaml:"adminUsername"` // Seeded admin username
	AdminPassword string `yaml:"adminPassword"` // Seeded admin password
	AdminEmail    string `yaml:"adminEmail"`    // Seeded admin email
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		AppPort:                "8080",
		LogLevel:               "info",
		DBDriver:               "mysql",
		DBSSLMode:              "disable",
		DBPath:                 "bookstore.db",
		JWTIssuer:              "bookstore-api",
		JWTAudience:            "bookstore-app",
		JWTTTL:                 24 * time.Hour,
		CacheTTL:               60 * time.Second,
		StorageDriver:          "local",
		UploadDir:              "uploads",
		RecommendationURL:      "https://openlibrary.org/search.json",
		RecommendationCoverURL: "https://covers.openlibrary.org/b/id/%v-M.jpg",
		RecommendationLimit:    5,
		CORSOrigins:            []string{"http://localhost:4200"},
		TrustedProxies:         []string{"127.0.0.1"},
		AdminUsername:          "admin",
		AdminPassword:          "Admin@123",
		AdminEmail:             "admin@bookapp.com",
	}
}

// LoadConfig loads configuration from the optional YAML file, .env and environment variables
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// loadFile overlays the YAML file at path onto cfg
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// applyEnv overrides cfg with every variable that is set
func applyEnv(cfg *Config) {
	setString(&cfg.AppPort, "APP_PORT")
	setBool(&cfg.IsProd, "IS_PROD")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSLMODE")
	setString(&cfg.DBPath, "DB_PATH")
	setBool(&cfg.AutoMigrate, "AUTO_MIGRATE")

	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.JWTIssuer, "JWT_ISSUER")
	setString(&cfg.JWTAudience, "JWT_AUDIENCE")
	setDuration(&cfg.JWTTTL, "JWT_TTL")

	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPass, "REDIS_PASS")
	setInt(&cfg.RedisDB, "REDIS_DB")
	setDuration(&cfg.CacheTTL, "CACHE_TTL")

	setString(&cfg.StorageDriver, "STORAGE_DRIVER")
	setString(&cfg.UploadDir, "UPLOAD_DIR")
	setString(&cfg.MinioEndpoint, "MINIO_ENDPOINT")
	setString(&cfg.MinioAccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.MinioSecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.MinioBucket, "MINIO_BUCKET")
	setBool(&cfg.MinioUseSSL, "MINIO_USE_SSL")

	setString(&cfg.RecommendationURL, "RECOMMENDATION_URL")
	setString(&cfg.RecommendationCoverURL, "RECOMMENDATION_COVER_URL")
	setInt(&cfg.RecommendationLimit, "RECOMMENDATION_LIMIT")

	setList(&cfg.CORSOrigins, "CORS_ORIGINS")
	setList(&cfg.TrustedProxies, "TRUSTED_PROXIES")

	setString(&cfg.AdminUsername, "ADMIN_USERNAME")
	setString(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.AdminEmail, "ADMIN_EMAIL")
}

// Validate reports configuration that cannot produce a working server
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageDriver {
	case "local":
	case "minio":
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			return errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for minio storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v) == "true"
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			*dst = d
		}
	}
}

func setList(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
