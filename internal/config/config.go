// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	Contract  ContractConfig  `mapstructure:"contract"`
	Aave      AaveConfig      `mapstructure:"aave"`
	Yield     YieldConfig     `mapstructure:"yield"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	HTTPURL        string        `mapstructure:"http_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// WalletConfig holds the local signing key. PrivateKey is optional;
// without it the dashboard runs in read-only mode and Address selects
// whose escrows to show.
type WalletConfig struct {
	PrivateKey string `mapstructure:"private_key"`
	Address    string `mapstructure:"address"`
}

// AddressHex returns the read-only viewing address as common.Address.
func (c *WalletConfig) AddressHex() common.Address {
	return common.HexToAddress(c.Address)
}

// ContractConfig holds escrow protocol contract addresses.
type ContractConfig struct {
	EscrowAddress string `mapstructure:"escrow_address"`
	USDCAddress   string `mapstructure:"usdc_address"`
}

// EscrowAddressHex returns the escrow contract address as common.Address.
func (c *ContractConfig) EscrowAddressHex() common.Address {
	return common.HexToAddress(c.EscrowAddress)
}

// USDCAddressHex returns the USDC token address as common.Address.
func (c *ContractConfig) USDCAddressHex() common.Address {
	return common.HexToAddress(c.USDCAddress)
}

// AaveConfig holds Aave V3 pool configuration.
type AaveConfig struct {
	PoolAddress  string `mapstructure:"pool_address"`
	ReferralCode uint16 `mapstructure:"referral_code"`
}

// PoolAddressHex returns the pool address as common.Address.
func (c *AaveConfig) PoolAddressHex() common.Address {
	return common.HexToAddress(c.PoolAddress)
}

// YieldConfig holds yield polling configuration.
type YieldConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	APYCacheTTL  time.Duration `mapstructure:"apy_cache_ttl"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ESCROW")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ESCROW_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ESCROW_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ESCROW_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	v.BindEnv("ethereum.http_url", "ESCROW_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.chain_id", "ESCROW_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// Wallet
	v.BindEnv("wallet.private_key", "ESCROW_WALLET_PRIVATE_KEY", "WALLET_PRIVATE_KEY")
	v.BindEnv("wallet.address", "ESCROW_WALLET_ADDRESS", "WALLET_ADDRESS")

	// Contract
	v.BindEnv("contract.escrow_address", "ESCROW_CONTRACT_ADDRESS", "RENT_ESCROW_ADDRESS")
	v.BindEnv("contract.usdc_address", "ESCROW_USDC_ADDRESS", "USDC_ADDRESS")

	// Aave
	v.BindEnv("aave.pool_address", "ESCROW_AAVE_POOL", "AAVE_POOL_ADDRESS")

	// Yield
	v.BindEnv("yield.poll_interval", "ESCROW_YIELD_POLL_INTERVAL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ESCROW_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ESCROW_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ESCROW_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "escrow-desk")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.request_timeout", "15s")

	// Aave V3 Mainnet pool default
	v.SetDefault("aave.pool_address", "0x87870Bca3F3fD6335C3F4ce8392D69350B4fA4E2")
	v.SetDefault("aave.referral_code", 0)

	// Yield defaults
	v.SetDefault("yield.poll_interval", "30s")
	v.SetDefault("yield.apy_cache_ttl", "12s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "escrow-desk")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ethereum.HTTPURL == "" {
		return fmt.Errorf("ethereum.http_url is required")
	}
	if !common.IsHexAddress(c.Contract.EscrowAddress) {
		return fmt.Errorf("invalid contract.escrow_address: %s", c.Contract.EscrowAddress)
	}
	if !common.IsHexAddress(c.Contract.USDCAddress) {
		return fmt.Errorf("invalid contract.usdc_address: %s", c.Contract.USDCAddress)
	}
	if !common.IsHexAddress(c.Aave.PoolAddress) {
		return fmt.Errorf("invalid aave.pool_address: %s", c.Aave.PoolAddress)
	}
	if c.Wallet.PrivateKey == "" && c.Wallet.Address != "" && !common.IsHexAddress(c.Wallet.Address) {
		return fmt.Errorf("invalid wallet.address: %s", c.Wallet.Address)
	}
	if c.Yield.PollInterval <= 0 {
		return fmt.Errorf("yield.poll_interval must be positive")
	}
	return nil
}
