package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
	"github.com/torqueup/assistant-api/internal/recommend"
)

// ChatTurn is one incoming chat request. Vehicles is the caller-supplied
// inventory snapshot for this turn; Previous is the caller-reported prior
// conversation, already truncated at the boundary.
type ChatTurn struct {
	SessionID string
	Message   string
	Vehicles  []entity.Vehicle
	Previous  []entity.ConversationTurn
}

// Recommendation is the structured payload attached to a reply when the
// model signals a shopping intent.
type Recommendation struct {
	Type  string `json:"type"`
	Items any    `json:"items"`
	Title string `json:"title"`
}

// ChatResult is the assembled answer for one turn.
type ChatResult struct {
	Response        string          `json:"response"`
	Recommendations *Recommendation `json:"recommendations,omitempty"`
}

// ChatUseCase runs one conversation turn end to end: prompt assembly, model
// call, intent classification and recommendation lookup.
type ChatUseCase interface {
	ProcessTurn(ctx context.Context, turn ChatTurn) (*ChatResult, error)
	ClearHistory(ctx context.Context, sessionID string) error
	GetHistory(ctx context.Context, sessionID string) ([]entity.Message, error)
}

type chatUseCase struct {
	aiRepo      repository.AIRepository
	chatRepo    repository.ChatRepository
	listingUC   ListingUseCase
	partRepo    repository.PartRepository
	profileRepo repository.ProfileRepository
	log         zerolog.Logger
}

// NewChatUseCase creates the chat orchestrator.
func NewChatUseCase(
	aiRepo repository.AIRepository,
	chatRepo repository.ChatRepository,
	listingUC ListingUseCase,
	partRepo repository.PartRepository,
	profileRepo repository.ProfileRepository,
	log zerolog.Logger,
) ChatUseCase {
	return &chatUseCase{
		aiRepo:      aiRepo,
		chatRepo:    chatRepo,
		listingUC:   listingUC,
		partRepo:    partRepo,
		profileRepo: profileRepo,
		log:         log,
	}
}

// ProcessTurn handles one customer message. The model reply is classified
// for recommendation markers; the matching branch narrows the inventory and
// attaches a payload. Marker stripping and filtering are pure, so a model
// failure is the only fatal path.
func (u *chatUseCase) ProcessTurn(ctx context.Context, turn ChatTurn) (*ChatResult, error) {
	// Upstream calls must not hang the handler.
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	history, err := u.chatRepo.GetHistory(ctx, turn.SessionID, 10)
	if err != nil {
		u.log.Warn().Err(err).Str("session", turn.SessionID).Msg("history unavailable, continuing without it")
		history = nil
	}

	prompt := u.buildPrompt(ctx, turn)

	raw, err := u.aiRepo.GenerateReply(ctx, prompt, history)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	intent := recommend.Classify(raw)
	result := &ChatResult{Response: intent.Reply}

	switch intent.Branch {
	case recommend.BranchCars:
		u.attachCars(turn, result)
	case recommend.BranchParts:
		u.attachParts(ctx, intent.Category, result)
	}

	// History is a supplement: a failed save degrades, it never fails the
	// turn.
	msg := entity.Message{
		ID:        uuid.New().String(),
		SessionID: turn.SessionID,
		Text:      turn.Message,
		Response:  result.Response,
		Timestamp: time.Now(),
	}
	if err := u.chatRepo.SaveMessage(ctx, msg); err != nil {
		u.log.Warn().Err(err).Str("session", turn.SessionID).Msg("failed to save exchange")
	}

	return result, nil
}

// buildPrompt embeds the inventory snapshot in the customer message so the
// model only ever talks about listings we actually have.
func (u *chatUseCase) buildPrompt(ctx context.Context, turn ChatTurn) string {
	inventory := turn.Vehicles
	if len(inventory) == 0 {
		if stored, err := u.listingUC.GetAllVehicles(ctx); err == nil {
			inventory = stored
		}
	}
	if len(inventory) == 0 {
		return turn.Message
	}

	return fmt.Sprintf(`Customer: %s

CURRENT INVENTORY:
%s
Answer the customer using only this inventory.`, turn.Message, u.listingUC.InventoryText(inventory))
}

func (u *chatUseCase) attachCars(turn ChatTurn, result *ChatResult) {
	if len(turn.Vehicles) == 0 {
		return
	}

	convCtx := recommend.ConversationContext(turn.Previous, turn.Message)
	filtered := recommend.FilterVehicles(convCtx, turn.Vehicles)
	if filtered.Note != "" {
		result.Response += " " + filtered.Note
	}
	result.Recommendations = &Recommendation{
		Type:  "cars",
		Items: filtered.Items,
		Title: filtered.Title,
	}
}

// attachParts joins the matched parts with seller profiles. Catalog errors
// degrade to a text-only reply.
func (u *chatUseCase) attachParts(ctx context.Context, category string, result *ChatResult) {
	parts, err := u.partRepo.GetAll(ctx)
	if err != nil {
		u.log.Warn().Err(err).Msg("parts catalog unavailable, replying without recommendations")
		return
	}

	profiles := map[string]entity.SellerProfile{}
	if list, err := u.profileRepo.GetAll(ctx); err != nil {
		u.log.Warn().Err(err).Msg("seller profiles unavailable")
	} else {
		for _, p := range list {
			profiles[p.ID] = p
		}
	}

	items, title := recommend.MatchParts(category, parts, profiles)
	if items == nil {
		items = []entity.Part{}
	}
	result.Recommendations = &Recommendation{
		Type:  "parts",
		Items: items,
		Title: title,
	}
}

// ClearHistory drops one session's stored exchanges.
func (u *chatUseCase) ClearHistory(ctx context.Context, sessionID string) error {
	return u.chatRepo.ClearHistory(ctx, sessionID)
}

// GetHistory returns the stored exchanges of one session, oldest first.
func (u *chatUseCase) GetHistory(ctx context.Context, sessionID string) ([]entity.Message, error) {
	return u.chatRepo.GetHistory(ctx, sessionID, 0)
}
