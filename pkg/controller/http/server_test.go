package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	server "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decode[map[string]string](t, rec)["status"]).Equal("ok")

	env.do(t, http.MethodGet, "/api/config/controls", aliceToken, nil)
	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains("themis_http_requests_total")
}

func TestMetricsDisabled(t *testing.T) {
	srv := server.New(usecase.New(memory.New(), usecase.WithAuth(tokenAuth{})), server.WithMetrics(false))
	env := &testEnv{server: srv}

	rec := env.do(t, http.MethodGet, "/metrics", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusNotFound)
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/me", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
		gt.String(t, decode[map[string]string](t, rec)["error"]).NotEqual("")
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/me", "nope", nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/me", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		me := decode[map[string]string](t, rec)
		gt.Value(t, me["sub"]).Equal("alice")
		gt.Value(t, me["email"]).Equal("alice@example.com")
	})

	t.Run("no authn mode accepts requests without token", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithAuth(usecase.NewNoAuthnUseCase("dev", "dev@example.com", "Dev")))
		env := &testEnv{server: server.New(uc)}
		rec := env.do(t, http.MethodGet, "/api/me", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, decode[map[string]string](t, rec)["sub"]).Equal("dev")
	})

	t.Run("auth not configured", func(t *testing.T) {
		env := &testEnv{server: server.New(usecase.New(memory.New()))}
		rec := env.do(t, http.MethodGet, "/api/me", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}

func TestConfigEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/api/config/stages", aliceToken, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	stages := decode[map[string][]map[string]any](t, rec)["stages"]
	gt.Array(t, stages).Length(1).Required()
	gt.Value(t, stages[0]["stage"]).Equal(any("basic-info"))

	rec = env.do(t, http.MethodGet, "/api/config/controls", aliceToken, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	controls := decode[map[string][]map[string]any](t, rec)["controls"]
	gt.Array(t, controls).Length(38)
}

func TestProjectEndpoints(t *testing.T) {
	env := newTestEnv(t, false)
	id := env.createProject(t)

	t.Run("get", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/projects/"+id, aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		p := decode[map[string]any](t, rec)
		gt.Value(t, p["name"]).Equal(any("Loan scoring"))
		gt.Value(t, p["owner_id"]).Equal(any("alice"))
	})

	t.Run("update", func(t *testing.T) {
		body := projectBody()
		body["version"] = "1.1"
		rec := env.do(t, http.MethodPut, "/api/projects/"+id, aliceToken, body)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, decode[map[string]any](t, rec)["version"]).Equal(any("1.1"))
	})

	t.Run("list only own projects", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/projects", aliceToken, nil)
		gt.Array(t, decode[map[string][]any](t, rec)["projects"]).Length(1)

		rec = env.do(t, http.MethodGet, "/api/projects", bobToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Array(t, decode[map[string][]any](t, rec)["projects"]).Length(0)
	})

	t.Run("other user is denied", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/projects/"+id, bobToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("unknown project", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/projects/00000000-0000-0000-0000-000000000000", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		body := projectBody()
		body["system_type"] = "quantum"
		rec := env.do(t, http.MethodPost, "/api/projects", aliceToken, body)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown body field", func(t *testing.T) {
		body := projectBody()
		body["budget"] = 100
		rec := env.do(t, http.MethodPost, "/api/projects", aliceToken, body)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("overview", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/projects/"+id+"/overview", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		o := decode[map[string]any](t, rec)
		gt.Array(t, o["stages"].([]any)).Length(1)
		gt.Value(t, o["risks"].(map[string]any)["total"]).Equal(any(float64(0)))
	})
}

func TestStageEndpoints(t *testing.T) {
	env := newTestEnv(t, false)
	id := env.createProject(t)
	base := "/api/projects/" + id + "/stages"

	t.Run("unsaved stage is empty", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/basic-info", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		s := decode[map[string]any](t, rec)
		gt.Number(t, len(s["values"].(map[string]any))).Equal(0)
		_, saved := s["updated_at"]
		gt.B(t, saved).False()
	})

	t.Run("save and read back", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, base+"/basic-info", aliceToken, map[string]any{
			"values": map[string]any{
				"objectives":      "Reduce review time",
				"data_categories": []string{"personal"},
			},
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		rec = env.do(t, http.MethodGet, base, aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		stages := decode[map[string][]map[string]any](t, rec)["stages"]
		gt.Array(t, stages).Length(1).Required()
		gt.Value(t, stages[0]["updated_by"]).Equal(any("alice"))
	})

	t.Run("invalid option", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, base+"/basic-info", aliceToken, map[string]any{
			"values": map[string]any{
				"objectives":      "x",
				"data_categories": []string{"secret"},
			},
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown stage", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/launch", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("stage without form", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/training", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("suggest without model", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/basic-info/suggest", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusServiceUnavailable)
	})
}

func TestRiskEndpoints(t *testing.T) {
	env := newTestEnv(t, false)
	id := env.createProject(t)
	base := "/api/projects/" + id + "/risks"

	rec := env.do(t, http.MethodPost, base, aliceToken, map[string]any{
		"title":       "Under-represented applicants",
		"description": "Older applicants are rare in training data",
		"category":    "bias",
		"likelihood":  4,
		"impact":      5,
		"controls":    []string{"A.7.4"},
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)
	created := decode[map[string]any](t, rec)
	riskID := created["id"].(string)
	gt.Value(t, created["level"]).Equal(any(float64(20)))
	gt.Value(t, created["band"]).Equal(any("critical"))
	gt.Value(t, created["source"]).Equal(any("manual"))

	t.Run("invalid score", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base, aliceToken, map[string]any{
			"title": "x", "category": "bias", "likelihood": 6, "impact": 1,
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("update", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, base+"/"+riskID, aliceToken, map[string]any{
			"title":      "Under-represented applicants",
			"category":   "bias",
			"likelihood": 2,
			"impact":     2,
			"status":     "mitigating",
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		r := decode[map[string]any](t, rec)
		gt.Value(t, r["level"]).Equal(any(float64(4)))
		gt.Value(t, r["status"]).Equal(any("mitigating"))
	})

	t.Run("summary", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/summary", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		s := decode[map[string]any](t, rec)
		gt.Value(t, s["total"]).Equal(any(float64(1)))
		gt.Value(t, s["max_level"]).Equal(any(float64(4)))
	})

	t.Run("accept rejects unknown category", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/accept", aliceToken, map[string]any{
			"risks": []map[string]any{
				{"title": "Latency", "category": "robustness", "likelihood": 2, "impact": 2},
				{"title": "Drift", "category": "performance", "likelihood": 3, "impact": 3},
			},
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("accept suggestions", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/accept", aliceToken, map[string]any{
			"risks": []map[string]any{
				{"title": "Drift", "category": "robustness", "likelihood": 3, "impact": 3},
			},
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
		accepted := decode[map[string][]map[string]any](t, rec)["risks"]
		gt.Array(t, accepted).Length(1).Required()
		gt.Value(t, accepted[0]["source"]).Equal(any("suggested"))
	})

	t.Run("list sorted by level", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base, aliceToken, nil)
		risks := decode[map[string][]map[string]any](t, rec)["risks"]
		gt.Array(t, risks).Length(2).Required()
		gt.Value(t, risks[0]["title"]).Equal(any("Drift"))
	})

	t.Run("other user cannot read", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/"+riskID, bobToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, base+"/"+riskID, aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusNoContent)

		rec = env.do(t, http.MethodGet, base+"/"+riskID, aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestSuggestionEndpoints(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createProject(t)
	base := "/api/projects/" + id

	t.Run("stage suggestion", func(t *testing.T) {
		env.llm.respond(`{"values": {"objectives": "Faster decisions", "data_categories": ["personal"]}, "rationale": "From the use case"}`)
		rec := env.do(t, http.MethodPost, base+"/stages/basic-info/suggest", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		s := decode[map[string]any](t, rec)
		gt.Value(t, s["values"].(map[string]any)["objectives"]).Equal(any("Faster decisions"))
	})

	t.Run("invalid model output", func(t *testing.T) {
		env.llm.respond(`{"values": {"data_categories": ["secret"]}, "rationale": "x"}`)
		rec := env.do(t, http.MethodPost, base+"/stages/basic-info/suggest", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadGateway)
	})

	t.Run("classification", func(t *testing.T) {
		env.llm.respond(`{"risk_category": "high", "rationale": "Credit decisions"}`)
		rec := env.do(t, http.MethodPost, base+"/classify", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, decode[map[string]any](t, rec)["risk_category"]).Equal(any("high"))
	})

	t.Run("risk analysis", func(t *testing.T) {
		env.llm.respond(`{"risks": [{"title": "Bias", "description": "d", "category": "bias", "likelihood": 3, "impact": 4, "mitigations": [], "controls": ["A.7.4"]}]}`)
		rec := env.do(t, http.MethodPost, base+"/risks/analyze", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Array(t, decode[map[string][]any](t, rec)["risks"]).Length(1)
	})
}

func TestDocumentEndpoints(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createProject(t)
	base := "/api/projects/" + id + "/documents"

	env.llm.respond(
		`{"title": "System card", "sections": [{"heading": "Purpose", "body": "Scores loans."}]}`,
		`{"title": "System card", "sections": [{"heading": "Purpose", "body": "Scores consumer loans."}]}`,
	)

	rec := env.do(t, http.MethodPost, base, aliceToken, map[string]any{"kind": "system-card"})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)
	first := decode[map[string]any](t, rec)
	gt.Value(t, first["revision"]).Equal(any(float64(1)))

	rec = env.do(t, http.MethodPost, base, aliceToken, map[string]any{"kind": "system-card"})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)
	second := decode[map[string]any](t, rec)
	gt.Value(t, second["revision"]).Equal(any(float64(2)))
	gt.Value(t, second["previous_id"]).Equal(first["id"])

	t.Run("unknown kind", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base, aliceToken, map[string]any{"kind": "memo"})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("list omits bodies", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base, aliceToken, nil)
		docs := decode[map[string][]map[string]any](t, rec)["documents"]
		gt.Array(t, docs).Length(2).Required()
		_, hasBody := docs[0]["body"]
		gt.B(t, hasBody).False()
	})

	t.Run("get includes body", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/"+second["id"].(string), aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, decode[map[string]any](t, rec)["body"].(string)).Contains("Scores consumer loans.")
	})

	t.Run("diff against previous revision", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/"+second["id"].(string)+"/diff", aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		d := decode[map[string]any](t, rec)
		gt.Value(t, d["from_id"]).Equal(first["id"])
		gt.B(t, d["identical"].(bool)).False()
		gt.B(t, strings.Contains(d["patch"].(string), "consumer")).True()
	})

	t.Run("explicit from", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/"+second["id"].(string)+"/diff?from="+second["id"].(string), aliceToken, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.B(t, decode[map[string]any](t, rec)["identical"].(bool)).True()
	})
}
