package delegate

import (
	"context"
	"fmt"

	"github.com/flitsinc/go-llms/anthropic"
	"github.com/flitsinc/go-llms/content"
	"github.com/flitsinc/go-llms/google"
	"github.com/flitsinc/go-llms/llms"
	"github.com/flitsinc/go-llms/openai"
	"github.com/rs/zerolog"

	"github.com/glowbotai/glowbot/internal/history"
	"github.com/glowbotai/glowbot/internal/profile"
	"github.com/glowbotai/glowbot/internal/routine"
)

type Config struct {
	Provider string
	Model    string
	APIKey   string
}

// Client implements Delegate over a hosted model provider. Each call gets a
// fresh session; all conversational state travels in TurnInput.
type Client struct {
	config Config
	log    zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("llm provider is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	if _, err := newLLM(cfg); err != nil {
		return nil, err
	}
	return &Client{config: cfg, log: log}, nil
}

func newLLM(cfg Config) (*llms.LLM, error) {
	var provider llms.Provider
	switch cfg.Provider {
	case "openai-responses":
		provider = openai.NewResponsesAPI(cfg.APIKey, cfg.Model)
	case "openai-chat":
		provider = openai.NewChatCompletionsAPI(cfg.APIKey, cfg.Model)
	case "anthropic":
		provider = anthropic.New(cfg.APIKey, cfg.Model).WithMaxTokens(8192)
	case "google":
		provider = google.New(cfg.Model).WithGeminiAPI(cfg.APIKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	return llms.New(provider), nil
}

// Respond runs one conversational turn and parses the structured reply.
func (c *Client) Respond(ctx context.Context, in TurnInput) (Reply, error) {
	promptText := turnPrompt(in)
	userContent := content.FromText(in.Message)
	if in.MediaURL != "" {
		userContent.AddImage(in.MediaURL)
	}

	messages := historyMessages(in.History)
	messages = append(messages, llms.Message{Role: "user", Content: userContent})

	raw, err := c.chat(ctx, promptText, messages)
	if err != nil {
		return Reply{}, fmt.Errorf("delegate respond: %w", err)
	}

	reply := parseReply(raw)
	if reply.Updates == nil && reply.Message == raw {
		c.log.Warn().Str("identity", in.Identity).Msg("model reply was not structured; using raw text")
	}
	return reply, nil
}

// GenerateArtifact asks the model for the full structured routine. Unlike
// conversational turns, an unparseable artifact is an error: there is no
// sensible fallback for half a routine.
func (c *Client) GenerateArtifact(ctx context.Context, p profile.Profile, turns []history.Turn) (routine.Routine, error) {
	messages := historyMessages(history.Trim(turns, 6))
	messages = append(messages, llms.Message{
		Role:    "user",
		Content: content.FromText("Please generate my complete personalized routine now."),
	})

	raw, err := c.chat(ctx, artifactPrompt(p), messages)
	if err != nil {
		return routine.Routine{}, fmt.Errorf("delegate artifact: %w", err)
	}
	r, err := parseRoutine(raw)
	if err != nil {
		return routine.Routine{}, fmt.Errorf("delegate artifact: %w", err)
	}
	return r, nil
}

func (c *Client) chat(ctx context.Context, promptText string, messages []llms.Message) (string, error) {
	llm, err := newLLM(c.config)
	if err != nil {
		return "", err
	}
	promptContent := content.FromText(promptText)
	llm.SystemPrompt = func() content.Content { return promptContent }

	var output string
	for update := range llm.ChatUsingMessages(ctx, messages) {
		if textUpdate, ok := update.(llms.TextUpdate); ok {
			output += textUpdate.Text
		}
	}
	if err := llm.Err(); err != nil {
		return "", err
	}
	return output, nil
}

// historyMessages replays prior turns as plain text. Entries with unknown
// roles are skipped rather than guessed at.
func historyMessages(turns []history.Turn) []llms.Message {
	var out []llms.Message
	for _, turn := range turns {
		role := turn.Role
		if role == "" {
			switch turn.Kind {
			case history.KindRequest:
				role = "user"
			case history.KindResponse:
				role = "assistant"
			}
		}
		switch role {
		case "user":
			out = append(out, llms.Message{Role: "user", Content: content.FromText(turn.Content)})
		case "assistant":
			out = append(out, llms.Message{Role: "assistant", Content: content.FromText(turn.Content)})
		}
	}
	return out
}
