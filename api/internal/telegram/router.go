package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reuseai/api/internal/logging"
	"reuseai/api/internal/reuse"
)

const helpText = "Send a photo of an item you want to get rid of and I will suggest up to 3 ways to reuse it.\n" +
	"Commands: /health, /engine"

// Analyzer is the part of reuse.Service the bot depends on.
type Analyzer interface {
	Analyze(ctx context.Context, in reuse.Input) (reuse.Result, error)
}

type Router struct {
	Bot     *tgbotapi.BotAPI
	Service Analyzer
	// Engines lists the llm names a chat may switch to with /engine.
	Engines []string

	// chatID -> llm name chosen with /engine
	chatEngine sync.Map
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	if msg.IsCommand() {
		r.send(cid, r.handleCommand(cid, msg.Command(), msg.CommandArguments()))
		return
	}

	if len(msg.Photo) > 0 {
		r.acceptPhoto(ctx, *msg)
		return
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		r.acceptDocument(ctx, *msg)
		return
	}

	r.send(cid, helpText)
}

func (r *Router) handleCommand(chatID int64, cmd, args string) string {
	switch cmd {
	case "start", "help":
		return helpText
	case "health":
		return "✅ OK"
	case "engine":
		return r.switchEngine(chatID, args)
	default:
		return "Unknown command. " + helpText
	}
}

func (r *Router) switchEngine(chatID int64, args string) string {
	name := strings.ToLower(strings.TrimSpace(args))
	if name == "" {
		cur := r.engineFor(chatID)
		if cur == "" {
			cur = "default"
		}
		return fmt.Sprintf("Current engine: %s\nUsage: /engine {%s}", cur, strings.Join(r.Engines, "|"))
	}
	if name == "openai" {
		name = "gpt"
	}
	for _, e := range r.Engines {
		if e == name {
			r.chatEngine.Store(chatID, name)
			return "✅ Engine: " + name
		}
	}
	return fmt.Sprintf("Unknown engine %q. Available: %s", name, strings.Join(r.Engines, " | "))
}

func (r *Router) engineFor(chatID int64) string {
	if v, ok := r.chatEngine.Load(chatID); ok {
		return v.(string)
	}
	return ""
}

func (r *Router) analyze(ctx context.Context, chatID int64, img []byte, mime string) {
	log := logrus.WithFields(logrus.Fields{
		"chat_id":    chatID,
		"request_id": uuid.NewString(),
	})
	ctx = logging.WithEntry(ctx, log)

	res, err := r.Service.Analyze(ctx, reuse.Input{
		Image:   img,
		MIME:    mime,
		LLMName: r.engineFor(chatID),
	})
	if err != nil {
		log.WithError(err).WithField("kind", reuse.KindOf(err).String()).Error("telegram analyze failed")
		r.send(chatID, errorText(err))
		return
	}
	r.send(chatID, formatIdeas(res.Ideas))
}

func (r *Router) send(chatID int64, text string) {
	if r.Bot == nil {
		return
	}
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("telegram send failed")
	}
}

func formatIdeas(ideas []string) string {
	if len(ideas) == 0 {
		return "I could not come up with ideas for this photo. Try another angle."
	}
	var b strings.Builder
	b.WriteString("♻️ Reuse ideas:\n")
	for i, idea := range ideas {
		fmt.Fprintf(&b, "\n%d. %s", i+1, idea)
	}
	return b.String()
}

func errorText(err error) string {
	var re *reuse.Error
	if errors.As(err, &re) && re.Kind == reuse.KindMissingInput {
		return "Please send a photo."
	}
	return fmt.Sprintf("Error: %v", err)
}
