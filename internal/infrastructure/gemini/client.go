package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// systemPrompt teaches the model the recommendation marker protocol. The
// markers themselves never reach the customer; the classifier strips them
// before the reply is returned.
const systemPrompt = `You are the TorqueUp assistant, a friendly expert at a car-and-parts marketplace. Answer customers in plain, helpful language.

RECOMMENDATION MARKERS, follow these rules exactly:
1. When the customer is shopping for a car (asks for recommendations, mentions budget, brand, family/city/adventure/business use, size), answer briefly and append the literal marker [RECOMMEND_CARS] at the end of your reply.
2. When the customer asks about spare parts (brakes, tires, filters, suspension, batteries, lights, and so on), answer briefly and append [RECOMMEND_PARTS:<category>] where <category> is the single part type they asked about, in lowercase.
3. Never emit both markers in one reply. Never invent a marker for greetings, thanks, or small talk.
4. Never mention the markers or the recommendation system to the customer.

INVENTORY RULES:
- Only talk about vehicles from the inventory list included in the prompt. Never invent listings, prices, or availability.
- If a requested brand or model is not in the list, say so honestly and still append the marker so alternatives can be shown.
- Quote names and prices exactly as listed.

Keep replies short: two or three sentences before the marker.`

// Client is the Gemini-backed AI repository.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewClient creates a Gemini-backed AI repository.
func NewClient(apiKey, modelName string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Low temperature keeps the marker protocol stable.
	model.SetTemperature(0.3)
	model.SetTopK(20)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(2048)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	return &Client{
		client: client,
		model:  model,
		sem:    make(chan struct{}, 3), // at most 3 in-flight requests
		delay:  350 * time.Millisecond, // minimum interval between requests
	}, nil
}

// GenerateReply produces one assistant reply for prompt, preceded by the
// stored session history oldest first.
func (g *Client) GenerateReply(ctx context.Context, prompt string, history []entity.Message) (string, error) {
	release := g.acquire()
	defer release()

	var parts []genai.Part
	for _, msg := range history {
		if msg.Text != "" {
			parts = append(parts, genai.Text(fmt.Sprintf("Customer: %s", msg.Text)))
		}
		if msg.Response != "" {
			parts = append(parts, genai.Text(fmt.Sprintf("You: %s", msg.Response)))
		}
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	return extractText(resp), nil
}

// extractText flattens the candidate parts into one string.
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

// acquire takes a semaphore slot and enforces the minimum request interval.
func (g *Client) acquire() func() {
	g.sem <- struct{}{}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	} else {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
		g.last = now
	}

	return func() {
		<-g.sem
	}
}

// Close releases the underlying client.
func (g *Client) Close() error {
	return g.client.Close()
}
