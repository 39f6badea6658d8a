package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/slack"
)

func newRiskFixture() (*model.Project, *model.RiskEntry) {
	project := &model.Project{
		ID:      types.NewProjectID(),
		Name:    "Loan approval assistant",
		Version: "2.1.0",
	}
	entry := &model.RiskEntry{
		ID:          types.NewRiskID(),
		ProjectID:   project.ID,
		Title:       "Unfair rejection of thin-file applicants",
		Description: "Applicants with short credit history get systematically lower scores",
		Category:    types.RiskEntryCategoryBias,
		Likelihood:  4,
		Impact:      5,
		Status:      types.RiskStatusIdentified,
	}
	return project, entry
}

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C123")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates notifier", func(t *testing.T) {
		n, err := slack.New("xoxb-test", "C123")
		gt.NoError(t, err).Required()
		gt.Value(t, n).NotNil()
	})
}

func TestNotifier_NotifyHighRisk(t *testing.T) {
	var (
		mu       sync.Mutex
		received map[string][]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm())
		mu.Lock()
		received = r.PostForm
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"channel": "C123",
			"ts":      "1700000000.000100",
		})
	}))
	defer srv.Close()

	n, err := slack.New("xoxb-test", "C123",
		slack.WithAPIURL(srv.URL+"/"),
		slack.WithAppURL("https://themis.example.com/"),
	)
	gt.NoError(t, err).Required()

	project, entry := newRiskFixture()
	gt.NoError(t, n.NotifyHighRisk(context.Background(), project, entry)).Required()

	mu.Lock()
	defer mu.Unlock()
	gt.Value(t, received["channel"][0]).Equal("C123")
	gt.String(t, received["text"][0]).Contains("level 20")
	gt.String(t, received["blocks"][0]).Contains("CRITICAL risk")
	gt.String(t, received["blocks"][0]).Contains("https://themis.example.com/projects/" + project.ID.String())
}

func TestNotifier_NotifyHighRisk_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer srv.Close()

	n, err := slack.New("xoxb-test", "C404", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	project, entry := newRiskFixture()
	err = n.NotifyHighRisk(context.Background(), project, entry)
	gt.Error(t, err).Contains("channel_not_found")
}

func TestBuildRiskBlocks(t *testing.T) {
	project, entry := newRiskFixture()

	t.Run("without app URL", func(t *testing.T) {
		blocks := slack.BuildRiskBlocks(project, entry, "")
		gt.Array(t, blocks).Length(3)
	})

	t.Run("without description", func(t *testing.T) {
		e := entry.Copy()
		e.Description = ""
		blocks := slack.BuildRiskBlocks(project, e, "https://themis.example.com")
		gt.Array(t, blocks).Length(3)
	})
}

func TestTruncateToMaxBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxBytes int
		want     string
	}{
		{name: "short string unchanged", input: "hello", maxBytes: 10, want: "hello"},
		{name: "ascii truncated", input: "abcdefghij", maxBytes: 8, want: "abcde..."},
		{name: "multibyte boundary", input: strings.Repeat("あ", 10), maxBytes: 10, want: "ああ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slack.TruncateToMaxBytes(tt.input, tt.maxBytes)
			gt.Bool(t, utf8.ValidString(got)).True()
			gt.Number(t, len(got)).LessOrEqual(tt.maxBytes)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}
