package suggest

import (
	"embed"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").Option("missingkey=error").ParseFS(promptFS, "prompts/*.tmpl"))

func lookupTemplate(name string) *template.Template {
	tmpl := prompts.Lookup(name)
	if tmpl == nil {
		panic("prompt template not found: " + name)
	}
	return tmpl
}

const systemPromptBase = `You are an AI governance assistant helping a team document an AI system under ISO/IEC 42001.
Answer in the language the project documentation is written in.
Only use facts from the provided documentation; do not invent systems, datasets or organizations.
Return JSON only, matching the provided schema exactly. No prose, no markdown fences.`
