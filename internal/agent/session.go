package agent

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Tool describes one callable operation the controller exposes to the
// conversational session. Parameters is a JSON-schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Toolbox is implemented by the dialogue controller: the session invokes the
// declared operations by name and receives their string results verbatim.
type Toolbox interface {
	Tools() []Tool
	Invoke(ctx context.Context, name, arguments string) (string, error)
}

// maxToolRounds bounds the tool-call loop per turn so a misbehaving model
// cannot spin the conversation forever.
const maxToolRounds = 5

// Session phrases spoken turns with an OpenAI chat model, grounded on the
// controller's instructional messages.
type Session struct {
	client *openai.Client
	model  string
}

func NewSession(apiKey, model string) *Session {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Session{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Respond runs one conversational turn: the standing system prompt, the
// controller's instruction as grounding context, and the raw utterance.
// Tool calls requested by the model are dispatched through the toolbox and
// their results fed back until the model produces a plain reply.
func (s *Session) Respond(ctx context.Context, systemPrompt, instruction, utterance string, tools Toolbox) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleSystem, Content: instruction},
		{Role: openai.ChatMessageRoleUser, Content: utterance},
	}

	defs := toolDefinitions(tools)

	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.model,
			Messages:    messages,
			Tools:       defs,
			Temperature: 0.8,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result, err := tools.Invoke(ctx, call.Function.Name, call.Function.Arguments)
			if err != nil {
				result = "error: " + err.Error()
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", errors.New("tool call round limit exceeded")
}

func toolDefinitions(tools Toolbox) []openai.Tool {
	if tools == nil {
		return nil
	}
	ts := tools.Tools()
	defs := make([]openai.Tool, 0, len(ts))
	for _, t := range ts {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}
