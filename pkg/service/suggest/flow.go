package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/metrics"
)

// Output is the typed result of a flow. Validate checks domain rules the JSON schema cannot express.
type Output interface {
	Validate() error
}

// Flow is one prompt template paired with the JSON schema its answer must satisfy
type Flow[In any, Out Output] struct {
	Name         string
	SystemPrompt string
	Template     *template.Template
	Schema       *gollem.Parameter

	// Check runs after Out.Validate for rules that depend on the input. Optional.
	Check func(in In, out Out) error
}

// Run renders the prompt, asks the model once and returns the validated answer.
// Failures are ErrRequestFailed (transport) or ErrInvalidOutput (unusable answer).
func Run[In any, Out Output](ctx context.Context, llm gollem.LLMClient, flow *Flow[In, Out], input In) (Out, error) {
	started := time.Now()
	out, err := run(ctx, llm, flow, input)

	result := metrics.ResultOK
	switch {
	case errors.Is(err, ErrInvalidOutput):
		result = metrics.ResultInvalidOutput
	case err != nil:
		result = metrics.ResultRequestFailed
	}
	metrics.ObserveSuggestion(flow.Name, result, time.Since(started))

	logging.From(ctx).Debug("suggestion flow finished",
		slog.String("flow", flow.Name),
		slog.String("result", result),
		slog.Duration("elapsed", time.Since(started)))

	return out, err
}

func run[In any, Out Output](ctx context.Context, llm gollem.LLMClient, flow *Flow[In, Out], input In) (Out, error) {
	var zero Out

	prompt, err := Render(flow.Template, input)
	if err != nil {
		return zero, goerr.Wrap(err, "failed to render prompt", goerr.V("flow", flow.Name))
	}

	session, err := llm.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(flow.Schema),
		gollem.WithSessionSystemPrompt(flow.SystemPrompt),
	)
	if err != nil {
		return zero, goerr.Wrap(ErrRequestFailed, "failed to create LLM session",
			goerr.V("flow", flow.Name),
			goerr.V("cause", err.Error()))
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)})
	if err != nil {
		return zero, goerr.Wrap(ErrRequestFailed, "failed to generate content",
			goerr.V("flow", flow.Name),
			goerr.V("cause", err.Error()))
	}
	if resp == nil || len(resp.Texts) == 0 {
		return zero, goerr.Wrap(ErrInvalidOutput, "model returned no text", goerr.V("flow", flow.Name))
	}

	out, err := Parse[Out](strings.Join(resp.Texts, ""), flow.Schema)
	if err != nil {
		return zero, goerr.Wrap(err, "failed to parse model output", goerr.V("flow", flow.Name))
	}

	if flow.Check != nil {
		if err := flow.Check(input, out); err != nil {
			return zero, goerr.Wrap(ErrInvalidOutput, "model output rejected",
				goerr.V("flow", flow.Name),
				goerr.V("reason", err.Error()))
		}
	}

	return out, nil
}

// Render executes the prompt template. A template failure is a validation error of the input.
func Render(tmpl *template.Template, input any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, input); err != nil {
		return "", goerr.Wrap(model.ErrValidation, "prompt template failed",
			goerr.V("template", tmpl.Name()),
			goerr.V("cause", err.Error()))
	}
	return buf.String(), nil
}

// Parse turns raw model text into Out: strip fences, decode JSON, check it against schema, decode into Out, Validate.
func Parse[Out Output](raw string, schema *gollem.Parameter) (Out, error) {
	var zero Out
	cleaned := stripFences(raw)

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, goerr.Wrap(ErrInvalidOutput, "output is not JSON",
			goerr.V("cause", err.Error()),
			goerr.V("output", truncate(cleaned, 2000)))
	}

	if decoded == nil {
		return zero, goerr.Wrap(ErrInvalidOutput, "output is null")
	}
	if err := schema.ValidateValue("output", decoded); err != nil {
		return zero, goerr.Wrap(ErrInvalidOutput, "output does not match schema",
			goerr.V("cause", err.Error()),
			goerr.V("output", truncate(cleaned, 2000)))
	}

	var out Out
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return zero, goerr.Wrap(ErrInvalidOutput, "output cannot be decoded",
			goerr.V("cause", err.Error()))
	}

	if err := out.Validate(); err != nil {
		return zero, goerr.Wrap(ErrInvalidOutput, "output breaks domain rules",
			goerr.V("cause", err.Error()))
	}

	return out, nil
}

// stripFences removes a leading ```json (or ```) line and a trailing ``` line
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		if idx := strings.LastIndex(s, "\n```"); idx >= 0 {
			s = s[:idx]
		} else {
			s = strings.TrimSuffix(s, "```")
		}
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
