package mockserver

import "aetherbridge/compat-probe/types"

const stubCreated = 1677652288

type completion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Index        int           `json:"index"`
	Message      types.Message `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type modelList struct {
	Object string  `json:"object"`
	Data   []model `json:"data"`
}

type model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func newAPIError(message, typ string) apiError {
	return apiError{Error: apiErrorBody{Message: message, Type: typ}}
}

// stubCompletion is the fixed answer the bridge gives to every chat request.
func stubCompletion() completion {
	return completion{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: stubCreated,
		Model:   "gpt-3.5-turbo",
		Choices: []choice{{
			Index: 0,
			Message: types.Message{
				Role:    types.RoleAssistant,
				Content: "Hello! This is a stub response from AetherBridge.",
			},
			FinishReason: "stop",
		}},
		Usage: usage{PromptTokens: 9, CompletionTokens: 12, TotalTokens: 21},
	}
}
