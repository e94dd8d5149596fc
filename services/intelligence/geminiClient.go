package ai

import (
	"context"
	"fmt"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ChatSession is one multi-turn exchange with the model.
type ChatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ChatModel opens chat sessions primed with earlier history.
type ChatModel interface {
	StartChat(history []*genai.Content) ChatSession
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
	loc       *time.Location
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, loc *time.Location) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &GeminiClient{client: client, modelName: modelName, loc: loc}, nil
}

// StartChat builds a fresh model each time so the instruction carries today's date.
func (g *GeminiClient) StartChat(history []*genai.Content) ChatSession {
	model := g.client.GenerativeModel(g.modelName)
	model.Tools = []*genai.Tool{SchedulingTools()}
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction(time.Now().In(g.loc)))}}
	model.SetTemperature(0.2)

	cs := model.StartChat()
	cs.History = history
	return cs
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func systemInstruction(now time.Time) string {
	return fmt.Sprintf(`You are the booking assistant of a home services marketplace.
Today is %s (%s). Dates are YYYY-MM-DD and times are HH:MM in the marketplace's local time.
Use list_available_slots to find free providers, check_slot before proposing a specific time,
and reserve_booking only after the customer has confirmed provider, service, date and time.
Never invent providers, slots or booking ids; report tool errors to the customer plainly.`,
		now.Format("2006-01-02"), now.Weekday())
}
