package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go-discord-whitelist-bot/internal/constants"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	defaultOracleURL = "https://auth.spacestation14.com"
)

type Config struct {
	DiscordToken string

	GuildID              string
	ApplicationChannelID string
	VoteChannelID        string
	WhitelistedRoleID    string

	OracleBaseURL     string
	PollDurationHours int

	StoreDriver   string
	DatabasePath  string
	VoteRetention time.Duration

	MetricsAddr string

	TelegramToken  string
	TelegramChatID int64
}

// LoadConfig читает .env (если есть) и переменные окружения.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Не удалось загрузить .env файл, используем переменные среды")
	}

	cfg := &Config{
		DiscordToken:         os.Getenv("DISCORD_BOT_TOKEN"),
		GuildID:              os.Getenv("GUILD_ID"),
		ApplicationChannelID: os.Getenv("APPLICATION_CHANNEL_ID"),
		VoteChannelID:        os.Getenv("VOTE_CHANNEL_ID"),
		WhitelistedRoleID:    os.Getenv("WHITELISTED_ROLE_ID"),
		OracleBaseURL:        envOr("ORACLE_BASE_URL", defaultOracleURL),
		PollDurationHours:    constants.DefaultPollDuration,
		StoreDriver:          strings.ToLower(envOr("STORE_DRIVER", StoreMemory)),
		DatabasePath:         envOr("DATABASE_PATH", "bot.db"),
		MetricsAddr:          os.Getenv("METRICS_ADDR"),
		TelegramToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if val, ok := os.LookupEnv("POLL_DURATION_HOURS"); ok {
		hours, err := strconv.Atoi(val)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("POLL_DURATION_HOURS: некорректное значение %q", val)
		}
		cfg.PollDurationHours = hours
	}

	// по умолчанию журнал живёт на сутки дольше опроса
	cfg.VoteRetention = time.Duration(cfg.PollDurationHours+24) * time.Hour
	if val, ok := os.LookupEnv("VOTE_RETENTION"); ok {
		d, err := time.ParseDuration(val)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("VOTE_RETENTION: некорректное значение %q", val)
		}
		cfg.VoteRetention = d
	}

	if val, ok := os.LookupEnv("TELEGRAM_CHAT_ID"); ok && val != "" {
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: некорректное значение %q", val)
		}
		cfg.TelegramChatID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	required := map[string]string{
		"DISCORD_BOT_TOKEN":      c.DiscordToken,
		"GUILD_ID":               c.GuildID,
		"APPLICATION_CHANNEL_ID": c.ApplicationChannelID,
		"VOTE_CHANNEL_ID":        c.VoteChannelID,
		"WHITELISTED_ROLE_ID":    c.WhitelistedRoleID,
	}
	var errs []error
	for _, name := range []string{"DISCORD_BOT_TOKEN", "GUILD_ID", "APPLICATION_CHANNEL_ID", "VOTE_CHANNEL_ID", "WHITELISTED_ROLE_ID"} {
		if required[name] == "" {
			errs = append(errs, fmt.Errorf("%s не задан", name))
		}
	}
	if c.StoreDriver != StoreMemory && c.StoreDriver != StoreSQLite {
		errs = append(errs, fmt.Errorf("STORE_DRIVER: неизвестное хранилище %q", c.StoreDriver))
	}
	return errors.Join(errs...)
}

// RelayEnabled — заданы ли оба параметра Telegram.
func (c *Config) RelayEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func envOr(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}
