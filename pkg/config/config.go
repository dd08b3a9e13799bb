package config

import (
	"log"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT,default=8080"`
	Env  string `env:"ENV,default=development"`

	JWTSecret string        `env:"JWT_SECRET,default=supersecretjwtkey"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=72h"`

	PostgresConnStr string `env:"POSTGRES_CONN_STR"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE,default=organconnect"`

	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	BadgerPath     string        `env:"BADGER_PATH"`
	OTPTTL         time.Duration `env:"OTP_TTL,default=5m"`
	OTPMaxAttempts int           `env:"OTP_MAX_ATTEMPTS,default=5"`
	// OTPEchoCode returns issued codes in API responses. Never enable outside demos.
	OTPEchoCode bool `env:"OTP_ECHO_CODE,default=false"`

	ChatReplyDelay  time.Duration `env:"CHAT_REPLY_DELAY,default=1s"`
	PageSessionTTL  time.Duration `env:"PAGE_SESSION_TTL,default=30m"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL,default=1m"`

	LogLevel         string `env:"LOG_LEVEL,default=INFO"`
	SeedDemoUsers    bool   `env:"SEED_DEMO_USERS,default=false"`
	SeedMongoCatalog bool   `env:"SEED_MONGO_CATALOG,default=true"`
}

// Load reads .env when present and decodes the environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }
