package config

const EnvPrefix = "POTIONSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "POTIONSHOP_APP_ENV"
	EnvPort     = "POTIONSHOP_APP_PORT"
	EnvLogLevel = "POTIONSHOP_LOG_LEVEL"

	EnvDBDSN  = "POTIONSHOP_DB_DSN"
	EnvDBHost = "POTIONSHOP_DB_HOST"
	EnvDBUser = "POTIONSHOP_DB_USER"
	EnvDBName = "POTIONSHOP_DB_NAME"

	EnvRedisURL = "POTIONSHOP_REDIS_URL"

	EnvShopCapacityUnitPrice = "POTIONSHOP_SHOP_CAPACITY_UNIT_PRICE"

	EnvProcurementColorCeiling = "POTIONSHOP_PROCUREMENT_COLOR_CEILING"
	EnvProcurementTierLow      = "POTIONSHOP_PROCUREMENT_TIER_LOW"
	EnvProcurementTierMedium   = "POTIONSHOP_PROCUREMENT_TIER_MEDIUM"

	EnvBottlingProductionFrac = "POTIONSHOP_BOTTLING_PRODUCTION_FRACTION"
	EnvBottlingBaseCapFrac    = "POTIONSHOP_BOTTLING_BASE_CAP_FRACTION"
	EnvBottlingPopularity     = "POTIONSHOP_BOTTLING_POPULARITY_RANKS"

	EnvCapacitySpendFraction     = "POTIONSHOP_CAPACITY_SPEND_FRACTION"
	EnvCapacityPotionUtilization = "POTIONSHOP_CAPACITY_POTION_UTILIZATION"
	EnvCapacityMLUtilization     = "POTIONSHOP_CAPACITY_ML_UTILIZATION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
