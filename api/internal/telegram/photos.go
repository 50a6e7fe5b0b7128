package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxDownloadBytes matches the Bot API getFile limit.
const maxDownloadBytes = 20 << 20

var httpClient = &http.Client{Timeout: 60 * time.Second}

func (r *Router) acceptPhoto(ctx context.Context, msg tgbotapi.Message) {
	// sizes are ordered ascending; the last one is the original
	ph := msg.Photo[len(msg.Photo)-1]
	img, err := r.fetch(ctx, ph.FileID)
	if err != nil {
		r.send(msg.Chat.ID, fmt.Sprintf("Could not download the photo: %v", err))
		return
	}
	r.analyze(ctx, msg.Chat.ID, img, "image/jpeg")
}

func (r *Router) acceptDocument(ctx context.Context, msg tgbotapi.Message) {
	img, err := r.fetch(ctx, msg.Document.FileID)
	if err != nil {
		r.send(msg.Chat.ID, fmt.Sprintf("Could not download the file: %v", err))
		return
	}
	r.analyze(ctx, msg.Chat.ID, img, msg.Document.MimeType)
}

func (r *Router) fetch(ctx context.Context, fileID string) ([]byte, error) {
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	return download(ctx, file.Link(r.Bot.Token))
}

func download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxDownloadBytes)
	}
	return data, nil
}
