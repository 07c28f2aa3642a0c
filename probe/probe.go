package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aetherbridge/compat-probe/config"
	"aetherbridge/compat-probe/constants"
	"aetherbridge/compat-probe/types"
)

// Kind classifies the outcome of a probe run.
type Kind int

const (
	Success Kind = iota
	ContractViolation
	ParseFailure
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ContractViolation:
		return "contract violation"
	case ParseFailure:
		return "parse failure"
	case TransportFailure:
		return "transport failure"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result is the outcome of exactly one probe run. Which fields are set
// depends on Kind:
//
//	Success            Response
//	ContractViolation  Response (when the body was an object), Detail
//	ParseFailure       Body
//	TransportFailure   Detail, Body when the target answered with an error status
//
// StatusCode and Duration are set whenever an HTTP response was received.
type Result struct {
	Kind       Kind
	URL        string
	StatusCode int
	Duration   time.Duration
	Response   types.ChatResponse
	// Parsed holds the decoded body when it is valid JSON.
	Parsed any
	Body   string
	Detail string
}

func (r Result) OK() bool {
	return r.Kind == Success
}

// HasExchange reports whether the target answered at HTTP level.
func (r Result) HasExchange() bool {
	return r.StatusCode != 0
}

// Runner sends the probe request. The zero value is not usable, use NewRunner.
type Runner struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewRunner(cfg config.Config) *Runner {
	return &Runner{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Run performs one probe against cfg.BaseURL.
func Run(ctx context.Context, cfg config.Config) Result {
	return NewRunner(cfg).Run(ctx)
}

// NewChatRequest builds the fixed probe conversation.
func NewChatRequest(model string) types.ChatRequest {
	return types.ChatRequest{
		Model: model,
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: constants.SystemPrompt},
			{Role: types.RoleUser, Content: constants.UserPrompt},
		},
		Stream: false,
	}
}

// Endpoint returns the chat completions URL for a base URL.
func Endpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + constants.ChatCompletionsPath
}

// Run sends exactly one request and classifies the answer. It never
// retries and never returns an error, every failure ends up in the Result.
func (r *Runner) Run(ctx context.Context) Result {
	url := Endpoint(r.cfg.BaseURL)
	res := Result{URL: url}

	jsonBody, err := json.Marshal(NewChatRequest(r.cfg.Model))
	if err != nil {
		res.Kind = TransportFailure
		res.Detail = fmt.Sprintf("failed to encode request: %v", err)
		return res
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		res.Kind = TransportFailure
		res.Detail = fmt.Sprintf("failed to create request: %v", err)
		return res
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	start := time.Now()
	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		res.Kind = TransportFailure
		res.Duration = time.Since(start)
		res.Detail = err.Error()
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	res.Duration = time.Since(start)
	res.StatusCode = resp.StatusCode
	if err != nil {
		res.Kind = TransportFailure
		res.Detail = fmt.Sprintf("failed to read response body: %v", err)
		return res
	}
	res.Body = string(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Kind = TransportFailure
		res.Detail = fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return res
	}

	return classify(res, body)
}

// classify parses a 2xx body and checks the choices contract.
func classify(res Result, body []byte) Result {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		res.Kind = ParseFailure
		res.Detail = err.Error()
		return res
	}
	res.Parsed = parsed

	obj, ok := parsed.(map[string]any)
	if !ok {
		res.Kind = ContractViolation
		res.Detail = "Response is not a JSON object."
		return res
	}
	res.Response = types.ChatResponse(obj)

	if _, present := res.Response["choices"]; !present {
		res.Kind = ContractViolation
		res.Detail = "Response missing 'choices' array."
		return res
	}
	choices, ok := res.Response.Choices()
	if !ok {
		res.Kind = ContractViolation
		res.Detail = "Response field 'choices' is not an array."
		return res
	}
	if len(choices) == 0 {
		res.Kind = ContractViolation
		res.Detail = "Response 'choices' array is empty."
		return res
	}

	res.Kind = Success
	return res
}
