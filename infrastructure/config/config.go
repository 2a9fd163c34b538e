package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	domainconfig "lineage/domain/config"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production test"`

	// Lambda configuration
	IsLambda           bool   `yaml:"-"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Content API
	ContentAPIBaseURL string        `yaml:"content_api_base_url" validate:"required,url"`
	ContentAPITimeout time.Duration `yaml:"content_api_timeout" validate:"gt=0"`
	CacheTTL          time.Duration `yaml:"cache_ttl" validate:"gte=0"`

	// Media
	StorageBaseURL   string `yaml:"storage_base_url" validate:"omitempty,url"`
	PlaceholderImage string `yaml:"placeholder_image" validate:"required"`

	// Chart
	BiographyRoute string `yaml:"biography_route" validate:"required,contains={id}"`
	ChartPageSize  int    `yaml:"chart_page_size" validate:"min=1,max=100"`
	ChartMaxDepth  int    `yaml:"chart_max_depth" validate:"min=0,max=50"`

	// HTTP
	RateLimitRPS int      `yaml:"rate_limit_rps" validate:"gte=0"`
	CORSOrigins  []string `yaml:"cors_origins"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// LoadOptions selects optional configuration files.
// Empty fields fall back to CONFIG_FILE and ".env".
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

// Default returns the built-in configuration
func Default() *Config {
	chart := domainconfig.DefaultChartConfig()
	return &Config{
		ServerAddress:     ":8080",
		Environment:       "development",
		LogLevel:          "info",
		ContentAPIBaseURL: "http://localhost:1337/api",
		ContentAPITimeout: 30 * time.Second,
		CacheTTL:          5 * time.Minute,
		PlaceholderImage:  chart.PlaceholderImage,
		BiographyRoute:    chart.BiographyRoute,
		ChartPageSize:     chart.PageSize,
		ChartMaxDepth:     chart.MaxDepth,
		RateLimitRPS:      20,
		CORSOrigins:       []string{"*"},
		EnableMetrics:     true,
		EnableTracing:     false,
		EnableCORS:        true,
	}
}

// LoadConfig loads configuration from CONFIG_FILE, .env and environment variables
func LoadConfig() (*Config, error) {
	return Load(LoadOptions{})
}

// Load applies, lowest priority first: defaults, the YAML file, the .env file
// and the process environment
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := cfg.loadYAML(configFile); err != nil {
			return nil, err
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, configFile)
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set
	if err := godotenv.Load(envFile); err == nil {
		cfg.LoadedFrom = append(cfg.LoadedFrom, envFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg.loadEnvironmentVariables()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnvironmentVariables() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))

	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", "")
	c.IsLambda = getEnvBool("IS_LAMBDA", c.LambdaFunctionName != "")

	c.ContentAPIBaseURL = getEnv("CONTENT_API_BASE_URL", c.ContentAPIBaseURL)
	c.ContentAPITimeout = getEnvDuration("CONTENT_API_TIMEOUT", c.ContentAPITimeout)
	c.CacheTTL = getEnvDuration("CACHE_TTL", c.CacheTTL)

	c.StorageBaseURL = getEnv("STORAGE_BASE_URL", c.StorageBaseURL)
	c.PlaceholderImage = getEnv("PLACEHOLDER_IMAGE", c.PlaceholderImage)

	c.BiographyRoute = getEnv("BIOGRAPHY_ROUTE", c.BiographyRoute)
	c.ChartPageSize = getEnvInt("CHART_PAGE_SIZE", c.ChartPageSize)
	c.ChartMaxDepth = getEnvInt("CHART_MAX_DEPTH", c.ChartMaxDepth)

	c.RateLimitRPS = getEnvInt("RATE_LIMIT_RPS", c.RateLimitRPS)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = splitList(origins)
	}

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ChartConfig derives the chart business rules
func (c *Config) ChartConfig() *domainconfig.ChartConfig {
	chart := domainconfig.DefaultChartConfig()
	chart.PageSize = c.ChartPageSize
	chart.MaxDepth = c.ChartMaxDepth
	chart.PlaceholderImage = c.PlaceholderImage
	chart.BiographyRoute = c.BiographyRoute
	return chart
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or whole seconds ("30")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
