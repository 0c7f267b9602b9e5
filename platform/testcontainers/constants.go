package testcontainers

// Postgres constants
const (
	PostgresImage = "postgres:17.0-alpine3.20"
	PostgresPort  = "5432"
	PostgresAlias = "postgres"
)

// Redis constants
const (
	RedisImage = "redis:7.4-alpine"
	RedisPort  = "6379"
	RedisAlias = "redis"
)
