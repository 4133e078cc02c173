package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Shop         ShopConfig
	Procurement  ProcurementConfig
	Bottling     BottlingConfig
	Capacity     CapacityConfig
	Catalog      CatalogConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POTIONSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"POTIONSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POTIONSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POTIONSHOP_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"POTIONSHOP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"POTIONSHOP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"POTIONSHOP_DB_DSN"`
	Driver string `envconfig:"POTIONSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POTIONSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"POTIONSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POTIONSHOP_DB_USER"`
	LegacyPassword string `envconfig:"POTIONSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"POTIONSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"POTIONSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POTIONSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POTIONSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POTIONSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POTIONSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POTIONSHOP_REDIS_URL"`
	Address      string        `envconfig:"POTIONSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"POTIONSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"POTIONSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POTIONSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POTIONSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POTIONSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POTIONSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POTIONSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"POTIONSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"POTIONSHOP_AUTO_MIGRATE" default:"false"`
}

// ShopConfig holds the baseline economy a reset restores, plus capacity pricing.
type ShopConfig struct {
	StartingGold          int `envconfig:"POTIONSHOP_SHOP_STARTING_GOLD" default:"100"`
	BasePotionCapacity    int `envconfig:"POTIONSHOP_SHOP_BASE_POTION_CAPACITY" default:"50"`
	BaseMLCapacity        int `envconfig:"POTIONSHOP_SHOP_BASE_ML_CAPACITY" default:"10000"`
	PotionCapacityPerUnit int `envconfig:"POTIONSHOP_SHOP_POTION_CAPACITY_PER_UNIT" default:"50"`
	MLCapacityPerUnit     int `envconfig:"POTIONSHOP_SHOP_ML_CAPACITY_PER_UNIT" default:"10000"`
	CapacityUnitPrice     int `envconfig:"POTIONSHOP_SHOP_CAPACITY_UNIT_PRICE" default:"1000"`
}

// ProcurementConfig tunes the wholesale purchase planner.
type ProcurementConfig struct {
	PriorityColor string          `envconfig:"POTIONSHOP_PROCUREMENT_PRIORITY_COLOR" default:"dark"`
	ColorCeiling  decimal.Decimal `envconfig:"POTIONSHOP_PROCUREMENT_COLOR_CEILING" default:"0.25"`
	TierLow       GoldTier        `envconfig:"POTIONSHOP_PROCUREMENT_TIER_LOW" default:"max_gold=500;reserve=0;spend=1;order=SMALL|MEDIUM|LARGE;split=1/0/0"`
	TierMedium    GoldTier        `envconfig:"POTIONSHOP_PROCUREMENT_TIER_MEDIUM" default:"max_gold=2000;reserve=100;spend=0.8;order=MEDIUM|SMALL|LARGE;split=0.3/0.7/0"`
	TierHigh      GoldTier        `envconfig:"POTIONSHOP_PROCUREMENT_TIER_HIGH" default:"max_gold=5000;reserve=500;spend=0.6;order=LARGE|MEDIUM|SMALL;split=0.1/0.4/0.5"`
	TierVeryHigh  GoldTier        `envconfig:"POTIONSHOP_PROCUREMENT_TIER_VERY_HIGH" default:"max_gold=0;reserve=1500;spend=0.5;order=LARGE|MEDIUM|SMALL;split=0/0.3/0.7"`
	Seed          int64           `envconfig:"POTIONSHOP_PROCUREMENT_SEED" default:"0"`
}

// Tiers returns the gold tiers from poorest to richest.
func (p ProcurementConfig) Tiers() []GoldTier {
	return []GoldTier{p.TierLow, p.TierMedium, p.TierHigh, p.TierVeryHigh}
}

// BottlingConfig tunes the bottling planner.
type BottlingConfig struct {
	ProductionFraction  decimal.Decimal `envconfig:"POTIONSHOP_BOTTLING_PRODUCTION_FRACTION" default:"0.9"`
	BaseCapFraction     decimal.Decimal `envconfig:"POTIONSHOP_BOTTLING_BASE_CAP_FRACTION" default:"0.1"`
	LowStockMultiplier  decimal.Decimal `envconfig:"POTIONSHOP_BOTTLING_LOW_STOCK_MULTIPLIER" default:"1.5"`
	HighStockMultiplier decimal.Decimal `envconfig:"POTIONSHOP_BOTTLING_HIGH_STOCK_MULTIPLIER" default:"0.5"`
	PriorityColor       string          `envconfig:"POTIONSHOP_BOTTLING_PRIORITY_COLOR" default:"dark"`
	DeprioritizedSKUs   []string        `envconfig:"POTIONSHOP_BOTTLING_DEPRIORITIZED_SKUS"`
	PopularityRanks     map[string]int  `envconfig:"POTIONSHOP_BOTTLING_POPULARITY_RANKS"`
	Seed                int64           `envconfig:"POTIONSHOP_BOTTLING_SEED" default:"0"`
}

// CapacityConfig tunes the capacity planner.
type CapacityConfig struct {
	SpendFraction              decimal.Decimal `envconfig:"POTIONSHOP_CAPACITY_SPEND_FRACTION" default:"0.5"`
	PotionUtilizationThreshold decimal.Decimal `envconfig:"POTIONSHOP_CAPACITY_POTION_UTILIZATION" default:"0.8"`
	MLUtilizationThreshold     decimal.Decimal `envconfig:"POTIONSHOP_CAPACITY_ML_UTILIZATION" default:"0.8"`
}

// CatalogConfig shapes the public potion catalog.
type CatalogConfig struct {
	MaxEntries   int      `envconfig:"POTIONSHOP_CATALOG_MAX_ENTRIES" default:"6"`
	HiddenSKUs   []string `envconfig:"POTIONSHOP_CATALOG_HIDDEN_SKUS"`
	FeaturedSKUs []string `envconfig:"POTIONSHOP_CATALOG_FEATURED_SKUS"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"POTIONSHOP_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"POTIONSHOP_CRON_LOCK_TTL" default:"25h"`
}

func (c *Config) validate() error {
	if err := validateTiers(c.Procurement.Tiers()); err != nil {
		return err
	}
	fractions := map[string]decimal.Decimal{
		EnvProcurementColorCeiling:   c.Procurement.ColorCeiling,
		EnvBottlingProductionFrac:    c.Bottling.ProductionFraction,
		EnvBottlingBaseCapFrac:       c.Bottling.BaseCapFraction,
		EnvCapacitySpendFraction:     c.Capacity.SpendFraction,
		EnvCapacityPotionUtilization: c.Capacity.PotionUtilizationThreshold,
		EnvCapacityMLUtilization:     c.Capacity.MLUtilizationThreshold,
	}
	for name, value := range fractions {
		if !isFraction(value) {
			return fmt.Errorf("%s must be within [0,1], got %s", name, value)
		}
	}
	if c.Bottling.LowStockMultiplier.IsNegative() || c.Bottling.HighStockMultiplier.IsNegative() {
		return fmt.Errorf("bottling stock multipliers must not be negative")
	}
	if c.Shop.CapacityUnitPrice <= 0 {
		return fmt.Errorf("%s must be positive", EnvShopCapacityUnitPrice)
	}
	if c.Shop.PotionCapacityPerUnit <= 0 || c.Shop.MLCapacityPerUnit <= 0 {
		return fmt.Errorf("capacity unit sizes must be positive")
	}
	return nil
}

func isFraction(value decimal.Decimal) bool {
	return !value.IsNegative() && value.LessThanOrEqual(decimal.NewFromInt(1))
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
