package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"reuseai/api/internal/app"
	"reuseai/api/internal/config"
	"reuseai/api/internal/logging"
	"reuseai/api/internal/telegram"
	"reuseai/api/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %s", err.Error())
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if strings.TrimSpace(cfg.TelegramBotToken) == "" {
		logrus.Fatal("missing required env TELEGRAM_BOT_TOKEN")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeCache, err := app.NewService(ctx, cfg)
	if err != nil {
		logrus.Fatalf("error initializing service: %s", err.Error())
	}
	defer closeCache()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logrus.Fatalf("telegram: %s", err.Error())
	}
	bot.Debug = false
	logrus.WithField("bot", bot.Self.UserName).Info("telegram authorized")

	r := &telegram.Router{
		Bot:     bot,
		Service: svc,
		Engines: svc.Engines().Available(),
	}

	// ListenForWebhook registers on DefaultServeMux, so health lives there too.
	http.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := cfg.Addr()
	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(ctx, addr, bot, r, webhookURL)
	} else {
		startPollingMode(ctx, addr, bot, r)
	}
}

func startWebhookMode(ctx context.Context, addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) {
	// the token never appears in the public path
	path := "/webhook/" + util.SHA256Hex([]byte(bot.Token))[:16]
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		logrus.Fatal(err)
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		logrus.Fatal(err)
	}

	updates := bot.ListenForWebhook(path)
	go func() {
		for upd := range updates {
			go r.HandleUpdate(ctx, upd)
		}
		logrus.Info("webhook updates channel closed")
	}()

	srv := &http.Server{Addr: addr, ReadHeaderTimeout: 3 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logrus.WithFields(logrus.Fields{"addr": addr, "path": path}).Info("webhook listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
}

func startPollingMode(ctx context.Context, addr string, bot *tgbotapi.BotAPI, r *telegram.Router) {
	// health endpoint for the platform; polling itself does not need it
	go func() {
		logrus.WithField("addr", addr).Info("health server listening")
		srv := &http.Server{Addr: addr, ReadHeaderTimeout: 3 * time.Second}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("health server: %s", err.Error())
		}
	}()

	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logrus.WithError(err).Warn("deleteWebhook failed")
	}

	runPolling(ctx, bot, func(upd tgbotapi.Update) {
		go r.HandleUpdate(ctx, upd)
	})
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return time.Second
}

func clampDelay(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	for {
		if ctx.Err() != nil {
			logrus.Info("polling: context cancelled")
			return
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := clampDelay(retryDelayFromError(err), time.Second, 15*time.Second)
			logrus.WithError(err).WithField("retry_in", d.String()).Warn("polling error")
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}
		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
