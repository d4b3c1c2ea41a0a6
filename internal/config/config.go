package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/hydrolab/quoteflow/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Jira       JiraConfig       `mapstructure:"jira"`
	Confluence ConfluenceConfig `mapstructure:"confluence"`
	Graph      GraphConfig      `mapstructure:"graph"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Converter  ConverterConfig  `mapstructure:"converter"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// JiraConfig holds Jira API configuration
type JiraConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Username      string        `mapstructure:"username"`
	APIToken      string        `mapstructure:"api_token"`
	ReviewerEmail string        `mapstructure:"reviewer_email"`
	WebhookPath   string        `mapstructure:"webhook_path"`
	APITimeout    time.Duration `mapstructure:"api_timeout"`
}

// ConfluenceConfig holds the template source configuration
type ConfluenceConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIToken     string        `mapstructure:"api_token"`
	PageID       string        `mapstructure:"page_id"`
	TemplateName string        `mapstructure:"template_name"`
	APITimeout   time.Duration `mapstructure:"api_timeout"`
}

// GraphConfig holds Microsoft Graph / SharePoint configuration
type GraphConfig struct {
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	SiteID       string `mapstructure:"site_id"`
	Folder       string `mapstructure:"folder"`
	Scope        string `mapstructure:"scope"`
}

// PricingConfig holds the rates applied to every quote. Values are
// decimal strings so money never round-trips through a float.
type PricingConfig struct {
	CollectionFlatRate        string `mapstructure:"collection_flat_rate"`
	CollectionVolumeRate      string `mapstructure:"collection_volume_rate"`
	CollectionVolumeThreshold string `mapstructure:"collection_volume_threshold"`
	ShippingRatePerBox        string `mapstructure:"shipping_rate_per_box"`
	ApprovalThreshold         string `mapstructure:"approval_threshold"`
}

// ConverterConfig holds the docx-to-pdf conversion configuration
type ConverterConfig struct {
	SofficePath string        `mapstructure:"soffice_path"`
	WorkDir     string        `mapstructure:"work_dir"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 120*time.Second)

	// Jira defaults
	viper.SetDefault("jira.webhook_path", "/jira")
	viper.SetDefault("jira.api_timeout", 30*time.Second)

	// Confluence defaults
	viper.SetDefault("confluence.template_name", "quote_template.docx")
	viper.SetDefault("confluence.api_timeout", 30*time.Second)

	// Graph defaults
	viper.SetDefault("graph.folder", "Quotes")
	viper.SetDefault("graph.scope", "https://graph.microsoft.com/.default")

	// Pricing defaults
	viper.SetDefault("pricing.collection_flat_rate", "600.00")
	viper.SetDefault("pricing.collection_volume_rate", "30.00")
	viper.SetDefault("pricing.collection_volume_threshold", "20")
	viper.SetDefault("pricing.shipping_rate_per_box", "110.00")
	viper.SetDefault("pricing.approval_threshold", "4000.00")

	// Converter defaults
	viper.SetDefault("converter.soffice_path", "soffice")
	viper.SetDefault("converter.timeout", 2*time.Minute)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("jira.username", "JIRA_USERNAME")
	viper.BindEnv("jira.api_token", "JIRA_API_TOKEN")
	viper.BindEnv("jira.reviewer_email", "JIRA_REVIEWER_EMAIL")
	viper.BindEnv("confluence.api_token", "CONFLUENCE_API_TOKEN")
	viper.BindEnv("graph.tenant_id", "GRAPH_TENANT_ID")
	viper.BindEnv("graph.client_id", "GRAPH_CLIENT_ID")
	viper.BindEnv("graph.client_secret", "GRAPH_CLIENT_SECRET")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Jira credentials
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("jira.base_url is required")
	}
	if c.Jira.Username == "" {
		return fmt.Errorf("jira.username is required")
	}
	if c.Jira.APIToken == "" {
		return fmt.Errorf("jira.api_token is required")
	}
	if c.Jira.ReviewerEmail == "" {
		return fmt.Errorf("jira.reviewer_email is required")
	}
	if err := utils.ValidateEmail(c.Jira.ReviewerEmail); err != nil {
		return fmt.Errorf("jira.reviewer_email: %w", err)
	}

	// Validate template source
	if c.Confluence.BaseURL == "" {
		return fmt.Errorf("confluence.base_url is required")
	}
	if c.Confluence.APIToken == "" {
		return fmt.Errorf("confluence.api_token is required")
	}
	if c.Confluence.PageID == "" {
		return fmt.Errorf("confluence.page_id is required")
	}

	// Validate Graph credentials
	if c.Graph.TenantID == "" {
		return fmt.Errorf("graph.tenant_id is required")
	}
	if c.Graph.ClientID == "" {
		return fmt.Errorf("graph.client_id is required")
	}
	if c.Graph.ClientSecret == "" {
		return fmt.Errorf("graph.client_secret is required")
	}
	if c.Graph.SiteID == "" {
		return fmt.Errorf("graph.site_id is required")
	}

	return nil
}
