package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"

	AIProviderGroq   = "groq"
	AIProviderGemini = "gemini"

	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultGeminiModel = "gemini-2.5-flash"

	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"
)

type AppConfig struct {
	Environment string          `yaml:"environment"`
	Server      ServerConfig    `yaml:"server"`
	Logging     LoggingConfig   `yaml:"logging"`
	Storage     StorageConfig   `yaml:"storage"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	AI          AIConfig        `yaml:"ai"`
	Auth        AuthConfig      `yaml:"auth"`
	Events      EventsConfig    `yaml:"events"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
	// BodyLimitMB 는 요청 바디 최대 크기(MB)이다.
	BodyLimitMB int `yaml:"body_limit_mb"`
	// TrustedProxies 가 비어 있으면 X-Forwarded-For 를 무시하고 소켓 주소로 클라이언트를 식별한다.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	ServiceName string `yaml:"service_name"`
}

// StorageConfig selects the persistence backend.
// driver=memory runs the demo store, driver=mongo uses MongoURI/MongoDBName.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	MongoURI    string `yaml:"mongo_uri"`
	MongoDBName string `yaml:"mongo_db_name"`
	SeedDemo    bool   `yaml:"seed_demo"`
}

// RateLimitConfig 는 /api 경로에 대한 IP 단위 요청 한도를 정의한다.
// RedisAddr 가 비어 있으면 인스턴스 로컬(in-memory) 리미터를 사용한다.
type RateLimitConfig struct {
	Requests  int           `yaml:"requests"`
	Window    time.Duration `yaml:"window"`
	RedisAddr string        `yaml:"redis_addr"`
}

type AIConfig struct {
	Provider    string        `yaml:"provider"`
	ModelName   string        `yaml:"model_name"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	// APIKey is never read from yaml; GROQ_API_KEY / GEMINI_API_KEY fill it.
	APIKey string `yaml:"-"`
}

type AuthConfig struct {
	Provider                string `yaml:"provider"`
	FirebaseProjectID       string `yaml:"firebase_project_id"`
	FirebaseCredentialsFile string `yaml:"firebase_credentials_file"`
	JWTIssuer               string `yaml:"jwt_issuer"`
	JWTSecret               string `yaml:"-"`
}

type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

var config *AppConfig

// Default returns the configuration used when config.yaml omits a field.
func Default() AppConfig {
	return AppConfig{
		Environment: "development",
		Server: ServerConfig{
			Port:        5000,
			FrontendURL: "http://localhost:3000",
			BodyLimitMB: 10,
		},
		Logging: LoggingConfig{Level: "info", ServiceName: "techsphere-api"},
		Storage: StorageConfig{
			Driver:      StorageMemory,
			MongoDBName: "techsphere",
			SeedDemo:    true,
		},
		RateLimit: RateLimitConfig{Requests: 100, Window: 15 * time.Minute},
		AI: AIConfig{
			Provider:    AIProviderGroq,
			ModelName:   DefaultGroqModel,
			BaseURL:     "https://api.groq.com/openai/v1",
			Timeout:     60 * time.Second,
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Auth:   AuthConfig{Provider: AuthProviderLocal, JWTIssuer: "techsphere"},
		Events: EventsConfig{Topic: "techsphere.blog.events"},
	}
}

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c, err := Load(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}
	config = &c
}

// Load reads a yaml file on top of Default() and applies env overrides.
// A missing file is not an error: the service runs in demo mode on defaults.
func Load(path string) (AppConfig, error) {
	c := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return AppConfig{}, err
	}

	applyEnv(&c)
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func applyEnv(c *AppConfig) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("APP_ENV", &c.Environment)
	setString("FRONTEND_URL", &c.Server.FrontendURL)
	setString("LOG_LEVEL", &c.Logging.Level)
	setString("SERVICE_NAME", &c.Logging.ServiceName)
	setString("STORAGE_DRIVER", &c.Storage.Driver)
	setString("MONGO_URI", &c.Storage.MongoURI)
	setString("MONGO_DB_NAME", &c.Storage.MongoDBName)
	setString("REDIS_ADDR", &c.RateLimit.RedisAddr)
	setString("AI_PROVIDER", &c.AI.Provider)
	setString("AI_MODEL", &c.AI.ModelName)
	setString("AUTH_PROVIDER", &c.Auth.Provider)
	setString("FIREBASE_PROJECT_ID", &c.Auth.FirebaseProjectID)
	setString("FIREBASE_CREDENTIALS_FILE", &c.Auth.FirebaseCredentialsFile)
	setString("JWT_ISSUER", &c.Auth.JWTIssuer)
	setString("JWT_SECRET", &c.Auth.JWTSecret)
	setString("KAFKA_BOOTSTRAP_SERVERS", &c.Events.Brokers)

	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		c.Server.TrustedProxies = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Server.TrustedProxies = append(c.Server.TrustedProxies, p)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	switch strings.ToLower(c.AI.Provider) {
	case AIProviderGemini:
		setString("GEMINI_API_KEY", &c.AI.APIKey)
		// the shared default names a Groq model
		if c.AI.ModelName == "" || c.AI.ModelName == DefaultGroqModel {
			c.AI.ModelName = DefaultGeminiModel
		}
	default:
		setString("GROQ_API_KEY", &c.AI.APIKey)
		if c.AI.ModelName == "" {
			c.AI.ModelName = DefaultGroqModel
		}
	}
}

// Validate rejects combinations the service cannot start with.
func (c AppConfig) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageMongo:
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}
	switch c.AI.Provider {
	case AIProviderGroq, AIProviderGemini:
	default:
		return fmt.Errorf("unsupported ai provider: %q", c.AI.Provider)
	}
	switch c.Auth.Provider {
	case AuthProviderLocal, AuthProviderFirebase:
	default:
		return fmt.Errorf("unsupported auth provider: %q", c.Auth.Provider)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.requests and rate_limit.window must be positive")
	}
	return nil
}

// IsProduction reports whether internal error messages must be hidden from clients.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
