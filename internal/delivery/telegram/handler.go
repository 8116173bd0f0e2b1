package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/torqueup/assistant-api/internal/usecase"
)

// BotHandler serves the marketplace assistant over Telegram. It is the
// second delivery next to the HTTP API and shares the same use cases.
type BotHandler struct {
	bot       *tgbotapi.BotAPI
	adminID   int64
	log       zerolog.Logger
	chatUC    usecase.ChatUseCase
	listingUC usecase.ListingUseCase
	catalogUC usecase.CatalogUseCase
}

// NewBotHandler connects to the Telegram API.
func NewBotHandler(
	token string,
	adminID int64,
	log zerolog.Logger,
	chatUC usecase.ChatUseCase,
	listingUC usecase.ListingUseCase,
	catalogUC usecase.CatalogUseCase,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info().Str("username", bot.Self.UserName).Msg("telegram bot authorized")

	return &BotHandler{
		bot:       bot,
		adminID:   adminID,
		log:       log,
		chatUC:    chatUC,
		listingUC: listingUC,
		catalogUC: catalogUC,
	}, nil
}

// Start consumes updates until ctx is cancelled.
func (h *BotHandler) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand():
		h.handleCommand(ctx, msg)
	case msg.Document != nil:
		h.handleDocument(ctx, msg)
	case msg.Text != "":
		h.handleChat(ctx, msg)
	}
}

func (h *BotHandler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.reply(msg.Chat.ID,
			"Welcome to TorqueUp! Ask me about cars or spare parts and I'll find matching listings for you.")
	case "clear":
		if err := h.chatUC.ClearHistory(ctx, sessionKey(msg.Chat.ID)); err != nil {
			h.log.Warn().Err(err).Int64("chat", msg.Chat.ID).Msg("failed to clear history")
			h.reply(msg.Chat.ID, "Could not clear your history, please try again.")
			return
		}
		h.reply(msg.Chat.ID, "Your conversation history was cleared.")
	case "history":
		h.sendHistory(ctx, msg.Chat.ID)
	case "catalog":
		info, err := h.catalogUC.CatalogInfo(ctx)
		if err != nil {
			h.reply(msg.Chat.ID, "Could not read the catalog.")
			return
		}
		h.reply(msg.Chat.ID, info)
	default:
		h.reply(msg.Chat.ID, "Unknown command. Try /start, /clear, /history or /catalog.")
	}
}

func (h *BotHandler) sendHistory(ctx context.Context, chatID int64) {
	messages, err := h.chatUC.GetHistory(ctx, sessionKey(chatID))
	if err != nil || len(messages) == 0 {
		h.reply(chatID, "No conversation history yet.")
		return
	}

	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString("You: " + m.Text + "\n")
		sb.WriteString("Assistant: " + m.Response + "\n\n")
	}
	h.reply(chatID, sb.String())
}

// handleChat runs one assistant turn. The stored history stands in for the
// previousMessages the web widget would send.
func (h *BotHandler) handleChat(ctx context.Context, msg *tgbotapi.Message) {
	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	h.bot.Request(typing)

	vehicles, err := h.listingUC.GetAllVehicles(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("inventory unavailable for telegram turn")
	}

	result, err := h.chatUC.ProcessTurn(ctx, usecase.ChatTurn{
		SessionID: sessionKey(msg.Chat.ID),
		Message:   msg.Text,
		Vehicles:  vehicles,
	})
	if err != nil {
		h.log.Error().Err(err).Int64("chat", msg.Chat.ID).Msg("chat turn failed")
		h.reply(msg.Chat.ID, "Sorry, something went wrong. Please try again in a moment.")
		return
	}

	text := result.Response
	if rec := result.Recommendations; rec != nil {
		text += "\n\n" + formatRecommendations(rec)
	}
	h.reply(msg.Chat.ID, text)
}

// handleDocument imports an .xlsx catalog sent by the admin.
func (h *BotHandler) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	if h.adminID == 0 || msg.From == nil || msg.From.ID != h.adminID {
		h.reply(msg.Chat.ID, "Only the administrator can upload catalogs.")
		return
	}
	if !strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".xlsx") {
		h.reply(msg.Chat.ID, "Please send the catalog as an .xlsx file.")
		return
	}

	data, err := h.downloadFile(ctx, msg.Document.FileID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to download catalog file")
		h.reply(msg.Chat.ID, "Could not download the file from Telegram.")
		return
	}

	count, err := h.catalogUC.ImportFromBytes(ctx, data, msg.Document.FileName, "tg:"+msg.From.UserName)
	if err != nil {
		h.reply(msg.Chat.ID, "Import failed: "+err.Error())
		return
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("Catalog imported: %d vehicles loaded.", count))
}

func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	url := file.Link(h.bot.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading file", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h *BotHandler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.log.Warn().Err(err).Int64("chat", chatID).Msg("failed to send message")
	}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("tg-%d", chatID)
}
