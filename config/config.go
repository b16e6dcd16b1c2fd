package config

import (
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	HTTPHost string
	AppPort  int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsPath   string

	SessionCookie string
	SessionTTL    time.Duration
	CookieSecure  bool
	BcryptCost    int
	PageSize      int

	LoginRatePerMinute int
	LoginBurst         int
	// TrustedProxies lists the proxies allowed to set X-Forwarded-For.
	TrustedProxies []string

	TelegramBotToken string
	AdminID          int64
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "taxipark"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.HTTPHost = cast.ToString(getOrReturnDefault("HTTP_HOST", ""))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "taxipark"))
	cfg.MigrationsPath = cast.ToString(getOrReturnDefault("MIGRATIONS_PATH", ""))

	cfg.SessionCookie = cast.ToString(getOrReturnDefault("SESSION_COOKIE", "sessionid"))
	cfg.SessionTTL = cast.ToDuration(getOrReturnDefault("SESSION_TTL", "336h"))
	cfg.CookieSecure = cast.ToBool(getOrReturnDefault("COOKIE_SECURE", false))
	cfg.BcryptCost = cast.ToInt(getOrReturnDefault("BCRYPT_COST", 10))
	cfg.PageSize = cast.ToInt(getOrReturnDefault("PAGE_SIZE", 5))

	cfg.LoginRatePerMinute = cast.ToInt(getOrReturnDefault("LOGIN_RATE_PER_MINUTE", 10))
	cfg.LoginBurst = cast.ToInt(getOrReturnDefault("LOGIN_BURST", 5))
	cfg.TrustedProxies = splitList(cast.ToString(getOrReturnDefault("TRUSTED_PROXIES", "")))

	cfg.TelegramBotToken = cast.ToString(getOrReturnDefault("TG_BOT_TOKEN", ""))
	cfg.AdminID = cast.ToInt64(getOrReturnDefault("ADMIN_ID", 0))

	return cfg
}

// PostgresURL builds the connection string shared by pgx and golang-migrate.
func (c Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// splitList parses a comma separated env value, dropping empty items.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
