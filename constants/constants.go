package constants

import "time"

const (
	DefaultBaseURL = "http://localhost:8080/v1"
	// the bridge doesn't check the key yet
	DefaultAPIKey  = "dummy-key"
	DefaultModel   = "google-bridge"
	DefaultTimeout = 30 * time.Second
	DefaultEnvFile = ".env"

	ChatCompletionsPath = "/chat/completions"
)

// fixed probe conversation
const (
	SystemPrompt = "You are a helpful assistant."
	UserPrompt   = "Hello! Can you hear me?"
)
