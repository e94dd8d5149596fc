package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/models"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const (
	maxToolRounds      = 5
	maxRememberedTurns = 20
)

var ErrNoReply = errors.New("assistant returned no reply")

type AIService interface {
	ProcessUserInput(ctx context.Context, userID string, req models.AIRequest) (*models.AIResponse, error)
}

// Assistant runs chat turns, letting the model call scheduling tools.
type Assistant struct {
	store      ContextStore
	model      ChatModel
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewAssistant(store ContextStore, model ChatModel, dispatcher *Dispatcher, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{store: store, model: model, dispatcher: dispatcher, logger: logger}
}

func (a *Assistant) ProcessUserInput(ctx context.Context, userID string, req models.AIRequest) (*models.AIResponse, error) {
	aiCtx, err := a.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load context: %w", err)
	}

	session := a.model.StartChat(toHistory(aiCtx.History))
	caller := Caller{UserID: userID, Lat: req.Lat, Lng: req.Lng}

	var toolCalls []string
	parts := []genai.Part{genai.Text(req.Text)}
	reply := ""
	for round := 0; ; round++ {
		if round == maxToolRounds {
			return nil, fmt.Errorf("assistant exceeded %d tool rounds", maxToolRounds)
		}
		resp, err := session.SendMessage(ctx, parts...)
		if err != nil {
			return nil, fmt.Errorf("gemini chat: %w", err)
		}
		if resp == nil || len(resp.Candidates) == 0 {
			return nil, ErrNoReply
		}
		cand := resp.Candidates[0]
		calls := cand.FunctionCalls()
		if len(calls) == 0 {
			reply = candidateText(cand)
			break
		}

		parts = nil
		for _, call := range calls {
			toolCalls = append(toolCalls, call.Name)
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: a.dispatcher.Dispatch(ctx, caller, call),
			})
		}
	}
	if reply == "" {
		return nil, ErrNoReply
	}

	aiCtx.History = append(aiCtx.History,
		models.AITurn{Role: "user", Text: req.Text},
		models.AITurn{Role: "model", Text: reply},
	)
	if n := len(aiCtx.History); n > maxRememberedTurns {
		aiCtx.History = aiCtx.History[n-maxRememberedTurns:]
	}
	if err := a.store.Set(ctx, userID, aiCtx); err != nil {
		a.logger.Warn("failed to save chat context", zap.String("userID", userID), zap.Error(err))
	}

	return &models.AIResponse{ResponseText: reply, ToolCalls: toolCalls}, nil
}

func toHistory(turns []models.AITurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		history = append(history, &genai.Content{Role: t.Role, Parts: []genai.Part{genai.Text(t.Text)}})
	}
	return history
}

func candidateText(c *genai.Candidate) string {
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
