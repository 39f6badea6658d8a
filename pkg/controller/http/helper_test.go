package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	server "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/usecase"
)

const (
	aliceToken = "token-alice"
	bobToken   = "token-bob"
)

// tokenAuth maps fixed bearer tokens to users
type tokenAuth struct{}

func (tokenAuth) Authenticate(ctx context.Context, rawToken string) (*auth.User, error) {
	switch rawToken {
	case aliceToken:
		return &auth.User{ID: "alice", Email: "alice@example.com", Name: "Alice"}, nil
	case bobToken:
		return &auth.User{ID: "bob", Email: "bob@example.com", Name: "Bob"}, nil
	}
	return nil, goerr.Wrap(usecase.ErrUnauthenticated, "unknown token")
}

func (tokenAuth) IsNoAuthn() bool { return false }

// mockLLMSession returns the next canned response of its client
type mockLLMSession struct {
	client *mockLLMClient
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return &gollem.Response{Texts: []string{s.client.next()}}, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	mu        sync.Mutex
	responses []string
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &mockLLMSession{client: c}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func (c *mockLLMClient) respond(texts ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, texts...)
}

func (c *mockLLMClient) next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.responses) == 0 {
		return "{}"
	}
	text := c.responses[0]
	c.responses = c.responses[1:]
	return text
}

func newTestSchemas() *config.StageSchemas {
	return config.NewStageSchemas(
		&config.StageSchema{
			Stage: types.StageBasicInfo,
			Name:  "Basic information",
			Fields: []config.FieldDefinition{
				{ID: "objectives", Name: "Objectives", Type: types.FieldTypeText, Required: true},
				{
					ID:   "data_categories",
					Name: "Data categories",
					Type: types.FieldTypeMultiSelect,
					Options: []config.FieldOption{
						{ID: "personal", Name: "Personal data"},
						{ID: "public", Name: "Public data"},
					},
				},
			},
		},
	)
}

type testEnv struct {
	server *server.Server
	llm    *mockLLMClient
}

func newTestEnv(t *testing.T, withLLM bool) *testEnv {
	t.Helper()
	env := &testEnv{llm: &mockLLMClient{}}

	opts := []usecase.Option{
		usecase.WithStageSchemas(newTestSchemas()),
		usecase.WithAuth(tokenAuth{}),
	}
	if withLLM {
		opts = append(opts, usecase.WithLLM(env.llm, "test-model"))
	}
	env.server = server.New(usecase.New(memory.New(), opts...))
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func projectBody() map[string]any {
	return map[string]any{
		"name":          "Loan scoring",
		"version":       "1.0",
		"customer_ref":  "CR-42",
		"description":   "Scores consumer loans",
		"use_case":      "Approve or reject loan applications",
		"system_type":   "classification",
		"risk_category": "high",
	}
}

func (e *testEnv) createProject(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/projects", aliceToken, projectBody())
	gt.Number(t, rec.Code).Equal(http.StatusCreated)
	return decode[map[string]any](t, rec)["id"].(string)
}
