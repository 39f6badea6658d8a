package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
)

const (
	testUserID  = types.UserID("user-1")
	otherUserID = types.UserID("user-2")
)

func userContext(id types.UserID) context.Context {
	return auth.ContextWithUser(context.Background(), &auth.User{ID: id, Email: string(id) + "@example.com"})
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
				{ID: "deployment_context", Name: "Deployment context", Type: types.FieldTypeText},
			},
		},
		&config.StageSchema{
			Stage: types.StageDesign,
			Name:  "Design",
			Fields: []config.FieldDefinition{
				{ID: "architecture", Name: "Architecture", Type: types.FieldTypeText, Required: true},
				{ID: "human_oversight", Name: "Human oversight", Type: types.FieldTypeText},
				{ID: "security_measures", Name: "Security measures", Type: types.FieldTypeTextList},
			},
		},
	)
}

func newProjectInput() usecase.ProjectInput {
	return usecase.ProjectInput{
		Name:         "Loan scoring",
		Version:      "1.0",
		CustomerRef:  "CR-42",
		Description:  "Scores consumer loans",
		UseCase:      "Approve or reject loan applications",
		SystemType:   types.SystemTypeClassification,
		RiskCategory: types.RiskCategoryHigh,
	}
}

func createProject(t *testing.T, uc *usecase.UseCases, ctx context.Context) *model.Project {
	t.Helper()
	p, err := uc.Project.CreateProject(ctx, newProjectInput())
	gt.NoError(t, err).Required()
	return p
}

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"{}"}}, nil
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

// mockLLMClient answers every prompt with the next canned response and records the prompts
type mockLLMClient struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	err       error
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &mockLLMSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			c.mu.Lock()
			defer c.mu.Unlock()

			for _, in := range input {
				if text, ok := in.(gollem.Text); ok {
					c.prompts = append(c.prompts, string(text))
				}
			}
			if c.err != nil {
				return nil, c.err
			}
			if len(c.responses) == 0 {
				return &gollem.Response{Texts: []string{"{}"}}, nil
			}
			text := c.responses[0]
			if len(c.responses) > 1 {
				c.responses = c.responses[1:]
			}
			return &gollem.Response{Texts: []string{text}}, nil
		},
	}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func (c *mockLLMClient) lastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

func (c *mockLLMClient) promptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

// mockNotifier records notified entries on a channel
type mockNotifier struct {
	notified chan *model.RiskEntry
	err      error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{notified: make(chan *model.RiskEntry, 16)}
}

func (n *mockNotifier) NotifyHighRisk(ctx context.Context, project *model.Project, entry *model.RiskEntry) error {
	n.notified <- entry
	return n.err
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
