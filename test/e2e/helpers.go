//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/api/handlers"
	"github.com/macrolog-ai/macrolog/internal/llm"
	"github.com/macrolog-ai/macrolog/internal/repository"
	"github.com/macrolog-ai/macrolog/internal/server"
	"github.com/macrolog-ai/macrolog/internal/service"
)

// E2ETestEnv holds all resources needed for E2E tests: a real HTTP server
// over a temp data dir and a fake OpenAI-compatible endpoint.
type E2ETestEnv struct {
	T            *testing.T
	DataDir      string
	ServerURL    string
	ServerCloser func()
	LLMServer    *httptest.Server
	HTTPClient   *http.Client

	// llmContent is what the fake model returns on the next completion.
	llmContent string
}

// APIResponse mirrors the server's response envelope.
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// SetupE2EEnv starts the full server against a temp data dir.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	dataDir := t.TempDir()
	logger := zap.NewNop()

	env := &E2ETestEnv{
		T:          t,
		DataDir:    dataDir,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}

	// Fake OpenAI-compatible chat completion endpoint.
	env.LLMServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": env.llmContent}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))

	noteRepo := repository.NewNoteRepository(dataDir, repository.NewNoteCache(), logger)
	ledgerRepo, err := repository.NewLedgerRepository(dataDir, 16, logger)
	if err != nil {
		t.Fatalf("failed to create ledger repository: %v", err)
	}
	targetRepo := repository.NewTargetRepository(dataDir)

	retrieval := service.NewRetrievalService(noteRepo, service.DefaultRetrievalConfig(), logger)
	contexts := service.NewContextService(retrieval, logger)
	notes := service.NewNoteService(noteRepo, logger)
	ledger := service.NewLedgerService(ledgerRepo, logger)
	targets := service.NewTargetService(targetRepo, logger)

	normalizer := llm.NewNormalizer(llm.Config{
		APIKey:  "test-key",
		BaseURL: env.LLMServer.URL + "/v1",
	}, logger)
	meals := service.NewMealService(normalizer, contexts, ledger, targets, 10*time.Second, logger)

	router := server.NewRouter(server.RouterConfig{
		Logger:        logger,
		MealHandler:   handlers.NewMealHandler(meals),
		LedgerHandler: handlers.NewLedgerHandler(ledger),
		NoteHandler:   handlers.NewNoteHandler(notes, contexts),
		TargetHandler: handlers.NewTargetHandler(targets),
		StatsHandler:  handlers.NewStatsHandler(ledger),
	})

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: router}
	go srv.ListenAndServe()

	env.ServerURL = fmt.Sprintf("http://127.0.0.1:%d", port)
	env.ServerCloser = func() { srv.Close() }

	waitForServer(t, env.ServerURL+"/health")
	return env
}

// Cleanup releases all resources.
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.LLMServer != nil {
		e.LLMServer.Close()
	}
}

// SetLLMOutput sets what the fake model returns on following completions.
func (e *E2ETestEnv) SetLLMOutput(content string) {
	e.llmContent = content
}

// Post sends a JSON POST to the server.
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.do(http.MethodPost, path, body)
}

// Put sends a JSON PUT to the server.
func (e *E2ETestEnv) Put(path string, body interface{}) (*APIResponse, error) {
	return e.do(http.MethodPut, path, body)
}

// Get sends a GET to the server.
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.do(http.MethodGet, path, nil)
}

// Delete sends a DELETE to the server.
func (e *E2ETestEnv) Delete(path string) (*APIResponse, error) {
	return e.do(http.MethodDelete, path, nil)
}

func (e *E2ETestEnv) do(method, path string, body interface{}) (*APIResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, respBody)
	}
	if resp.StatusCode >= 400 {
		return &apiResp, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}
	return &apiResp, nil
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitForServer(t *testing.T, url string) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("server did not become ready")
}
