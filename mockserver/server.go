// Package mockserver is a deterministic OpenAI-compatible chat completions
// target. It answers with the bridge's fixed stub completion by default and
// can be switched to a broken Scenario so every probe verdict can be
// reproduced locally.
package mockserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"aetherbridge/compat-probe/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Scenario string

const (
	ScenarioOK          Scenario = "ok"
	ScenarioEmpty       Scenario = "empty"      // {"choices": []}
	ScenarioNoChoices   Scenario = "no-choices" // {}
	ScenarioMalformed   Scenario = "malformed"  // not json
	ScenarioServerError Scenario = "server-error"
)

// ParseScenario accepts the names above, an empty string means ScenarioOK.
func ParseScenario(s string) (Scenario, bool) {
	switch sc := Scenario(s); sc {
	case "":
		return ScenarioOK, true
	case ScenarioOK, ScenarioEmpty, ScenarioNoChoices, ScenarioMalformed, ScenarioServerError:
		return sc, true
	}
	return "", false
}

type Options struct {
	Scenario Scenario
	// RateLimit and Burst bound /v1/chat/completions. A zero RateLimit
	// disables limiting.
	RateLimit rate.Limit
	Burst     int
}

// ReceivedRequest is what the server saw on its last chat completion call.
type ReceivedRequest struct {
	Authorization string
	ContentType   string
	Body          types.ChatRequest
}

type Server struct {
	mu       sync.RWMutex
	scenario Scenario
	last     *ReceivedRequest

	limiter  *rate.Limiter
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	mux      *http.ServeMux
}

func New(opts Options) *Server {
	scenario := opts.Scenario
	if scenario == "" {
		scenario = ScenarioOK
	}

	s := &Server{
		scenario: scenario,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mock_target_requests_total",
				Help: "Requests served by the mock target",
			},
			[]string{"path", "status"},
		),
		mux: http.NewServeMux(),
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(opts.RateLimit, opts.Burst)
	}
	s.registry.MustRegister(s.requests)

	// Register routes
	s.mux.HandleFunc("GET /{$}", s.HealthCheck)
	s.mux.HandleFunc("GET /health", s.HealthCheck)
	s.mux.HandleFunc("GET /v1/models", s.ListModels)
	s.mux.HandleFunc("POST /v1/chat/completions", s.ChatCompletions)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Registry exposes the server's metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// RequestCounter returns the counter for one path and status.
func (s *Server) RequestCounter(path string, status int) prometheus.Counter {
	return s.requests.WithLabelValues(path, strconv.Itoa(status))
}

func (s *Server) SetScenario(sc Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario = sc
}

func (s *Server) Scenario() Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenario
}

// LastRequest returns the last decoded chat completion request, nil if none.
func (s *Server) LastRequest() *ReceivedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	cp := *s.last
	return &cp
}

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"health": "ok",
	})
}

func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, modelList{
		Object: "list",
		Data: []model{
			{ID: "gpt-3.5-turbo", Object: "model", Created: stubCreated, OwnedBy: "aetherbridge"},
			{ID: "google-bridge", Object: "model", Created: stubCreated, OwnedBy: "aetherbridge"},
		},
	})
}

func (s *Server) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.writeJSON(w, r, http.StatusTooManyRequests, newAPIError("rate limit exceeded", "rate_limit_error"))
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("invalid chat completion request: %v", err)
		s.writeJSON(w, r, http.StatusBadRequest, newAPIError("invalid request body", "invalid_request_error"))
		return
	}
	if len(req.Messages) == 0 {
		s.writeJSON(w, r, http.StatusBadRequest, newAPIError("messages array cannot be empty", "invalid_request_error"))
		return
	}

	s.mu.Lock()
	s.last = &ReceivedRequest{
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          req,
	}
	scenario := s.scenario
	s.mu.Unlock()

	switch scenario {
	case ScenarioEmpty:
		resp := stubCompletion()
		resp.Choices = []choice{}
		s.writeJSON(w, r, http.StatusOK, resp)
	case ScenarioNoChoices:
		s.writeJSON(w, r, http.StatusOK, map[string]any{})
	case ScenarioMalformed:
		s.writeRaw(w, r, http.StatusOK, "text/plain", []byte("not json"))
	case ScenarioServerError:
		s.writeJSON(w, r, http.StatusInternalServerError, newAPIError("upstream session expired", "server_error"))
	default:
		s.writeJSON(w, r, http.StatusOK, stubCompletion())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to encode response: %v", err)
		s.writeRaw(w, r, http.StatusInternalServerError, "text/plain", []byte("failed to encode response"))
		return
	}
	s.writeRaw(w, r, status, "application/json", body)
}

func (s *Server) writeRaw(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	s.RequestCounter(r.URL.Path, status).Inc()
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
