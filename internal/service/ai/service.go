package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"voxrelay/internal/config"
	"voxrelay/internal/models"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const (
	// submissionWindow caps the turns sent upstream; stored history is
	// not truncated.
	submissionWindow = 10
	maxAttempts      = 3
	defaultRetryDelay = 3 * time.Second

	samplingTemperature float32 = 0.7
)

// ErrUpstream marks a completion failure that survived all retry attempts.
var ErrUpstream = errors.New("completion service unavailable")

// ChatModel is the slice of the eino model surface the service calls.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// History is the context store surface the service depends on.
type History interface {
	Append(userID int64, turn models.Turn)
	Window(userID int64, n int) []models.Turn
}

// Service relays one user utterance to the completion provider, keeping
// the per-user context window up to date.
type Service struct {
	chatModel  ChatModel
	history    History
	preamble   string
	retryDelay time.Duration
}

func NewService(cfg *config.Config, hist History) (*Service, error) {
	chatModel, err := newChatModel(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		chatModel:  chatModel,
		history:    hist,
		retryDelay: defaultRetryDelay,
	}, nil
}

func newChatModel(cfg *config.Config) (model.ToolCallingChatModel, error) {
	var chatModel model.ToolCallingChatModel
	var err error

	provCfg, ok := cfg.Providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", cfg.Provider)
	}

	switch cfg.Provider {
	case "openai":
		chatModel, err = openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(context.Background(), &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(context.Background(), &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return chatModel, nil
}

// Respond handles one user utterance: appends it to the context, submits
// the window upstream with bounded retries, appends and returns the reply.
// Both the text path and the voice pipeline call this.
func (s *Service) Respond(ctx context.Context, userID int64, text string) (string, error) {
	s.history.Append(userID, models.Turn{
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	})
	messages := s.buildMessages(userID)

	var resp *schema.Message
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err = s.chatModel.Generate(ctx, messages, model.WithTemperature(samplingTemperature))
		if err == nil {
			break
		}
		log.Printf("completion attempt %d/%d for user %d failed: %v", attempt, maxAttempts, userID, err)
		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
		}
	}
	if err != nil {
		// The user turn stays in history; a later retry resubmits it.
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	reply := strings.TrimSpace(resp.Content)
	s.history.Append(userID, models.Turn{
		Role:      models.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	})
	return annotateLocation(text, reply), nil
}

func (s *Service) buildMessages(userID int64) []*schema.Message {
	turns := s.history.Window(userID, submissionWindow)
	messages := make([]*schema.Message, 0, len(turns)+1)
	if s.preamble != "" {
		messages = append(messages, &schema.Message{
			Role:    schema.System,
			Content: s.preamble,
		})
	}
	for _, turn := range turns {
		var role schema.RoleType
		switch turn.Role {
		case models.RoleUser:
			role = schema.User
		case models.RoleAssistant:
			role = schema.Assistant
		case models.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: turn.Content,
		})
	}
	return messages
}
