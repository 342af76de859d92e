package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-discord-whitelist-bot/config"
	"go-discord-whitelist-bot/internal/bot"
	"go-discord-whitelist-bot/internal/chat"
	"go-discord-whitelist-bot/internal/db"
	"go-discord-whitelist-bot/internal/feedback"
	"go-discord-whitelist-bot/internal/metrics"
	"go-discord-whitelist-bot/internal/oracle"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Ошибка конфигурации: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, votes := openStores(cfg)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, reg)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal("Ошибка создания сессии Discord: ", err)
	}
	session.Identify.Intents = chat.Intents
	// кэш сообщений нужен, чтобы при удалении знать автора
	session.State.MaxMessageCount = 500

	discord := chat.NewDiscord(session, cfg.GuildID)

	var notifier chat.Notifier = chat.NopNotifier
	if cfg.RelayEnabled() {
		relay, err := chat.NewTelegramRelay(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram-оповещения отключены: %v", err)
		} else {
			notifier = relay
		}
	}

	handler := bot.NewHandler(bot.Config{
		GuildID:              cfg.GuildID,
		ApplicationChannelID: cfg.ApplicationChannelID,
		VoteChannelID:        cfg.VoteChannelID,
		WhitelistedRoleID:    cfg.WhitelistedRoleID,
		PollDurationHours:    cfg.PollDurationHours,
	}, discord, oracle.NewClient(cfg.OracleBaseURL, nil, m), store, votes, notifier, m)
	discord.Register(ctx, handler, chat.Channels{
		Applications: cfg.ApplicationChannelID,
		Votes:        cfg.VoteChannelID,
	})

	if err := session.Open(); err != nil {
		log.Fatal("Ошибка подключения к Discord: ", err)
	}
	defer session.Close()
	log.Printf("✅ Бот %s запущен", session.State.User.Username)

	bot.StartCleanupRoutine(ctx, votes, time.Hour, cfg.VoteRetention)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	<-signalChan

	log.Println("Получен сигнал завершения, останавливаемся...")
	cancel()
}

func openStores(cfg *config.Config) (feedback.Store, bot.VoteLog) {
	if cfg.StoreDriver != config.StoreSQLite {
		return feedback.NewMemoryStore(), bot.NewMemoryVoteLog()
	}
	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Ошибка базы данных: ", err)
	}
	return db.NewFeedbackStore(conn), db.NewVoteStore(conn)
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	log.Printf("📈 Метрики на %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("❌ Сервер метрик остановлен: %v", err)
	}
}
