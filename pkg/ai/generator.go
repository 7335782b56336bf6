package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// FunctionCaller asks the model to answer by calling fn and returns the call arguments.
type FunctionCaller interface {
	CallFunction(ctx context.Context, system, prompt string, fn *genai.FunctionDeclaration) (map[string]any, error)
	Close() error
}

type geminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (FunctionCaller, error) {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{client: client, modelName: modelName}, nil
}

func (c *geminiClient) CallFunction(ctx context.Context, system, prompt string, fn *genai.FunctionDeclaration) (map[string]any, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.Tools = []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{fn}}}
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode:                 genai.FunctionCallingAny,
			AllowedFunctionNames: []string{fn.Name},
		},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if call, ok := part.(genai.FunctionCall); ok && call.Name == fn.Name {
				return call.Args, nil
			}
		}
	}
	return nil, nil
}

func (c *geminiClient) Close() error {
	return c.client.Close()
}
