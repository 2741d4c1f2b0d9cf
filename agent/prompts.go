package agent

import (
	"strings"
	"text/template"
)

// Persona-specific behavior is expressed as prompt-formatting functions over
// the generic execution contract rather than virtual overrides: callers
// render a prompt here and pass it to Agent.Execute (or any core.Worker).

var (
	researchTmpl = template.Must(template.New("research").Parse(
		`Research the following topic in {{.Depth}} depth:

Topic: {{.Topic}}

Analyze and synthesize information from up to {{.MaxSources}} sources,
organize findings with clear sections, provide citations for all claims and
note any contradictions or uncertainties.`))

	verifyFactTmpl = template.Must(template.New("verify").Parse(
		`Verify the following claim:

Claim: {{.Claim}}

Search for supporting or refuting evidence, consult authoritative sources and
state clearly whether the claim is Verified, Refuted, Partially True or
Cannot be verified, with a confidence level and sources.`))

	implementTmpl = template.Must(template.New("implement").Parse(
		`Implement the following in {{.Language}}:

{{.Spec}}

Write complete, runnable code with error handling. Explain any non-obvious
design decisions after the code.`))

	reviewTmpl = template.Must(template.New("review").Parse(
		`Review the following{{if .Focus}} with a focus on {{.Focus}}{{end}}:

{{.Subject}}

List concrete problems ordered by severity, each with a suggested fix, then
summarize overall quality.`))

	testPlanTmpl = template.Must(template.New("testplan").Parse(
		`Design a test plan for:

{{.Subject}}

Cover happy paths, edge cases and failure modes. For each case give the
setup, the action and the expected observable outcome.`))

	draftTmpl = template.Must(template.New("draft").Parse(
		`Write a draft about the following for {{.Audience}}:

{{.Subject}}

Use a clear structure with headings, short sentences and concrete examples.`))
)

func render(t *template.Template, data any) string {
	var sb strings.Builder
	// Templates are package-level constants; execution over plain structs
	// cannot fail.
	_ = t.Execute(&sb, data)
	return sb.String()
}

// ResearchPrompt formats a research task for a researcher-profile agent.
// Depth is free text such as "quick", "medium" or "deep".
func ResearchPrompt(topic, depth string, maxSources int) string {
	if depth == "" {
		depth = "medium"
	}
	if maxSources <= 0 {
		maxSources = 5
	}
	return render(researchTmpl, struct {
		Topic, Depth string
		MaxSources   int
	}{topic, depth, maxSources})
}

// VerifyFactPrompt formats a fact-checking task.
func VerifyFactPrompt(claim string) string {
	return render(verifyFactTmpl, struct{ Claim string }{claim})
}

// ImplementPrompt formats an implementation task for a coder-profile agent.
func ImplementPrompt(spec, language string) string {
	if language == "" {
		language = "the most suitable language"
	}
	return render(implementTmpl, struct{ Spec, Language string }{spec, language})
}

// ReviewPrompt formats a review task for a reviewer-profile agent.
func ReviewPrompt(subject, focus string) string {
	return render(reviewTmpl, struct{ Subject, Focus string }{subject, focus})
}

// TestPlanPrompt formats a test-design task for a tester-profile agent.
func TestPlanPrompt(subject string) string {
	return render(testPlanTmpl, struct{ Subject string }{subject})
}

// DraftPrompt formats a writing task for a writer-profile agent.
func DraftPrompt(subject, audience string) string {
	if audience == "" {
		audience = "a general technical audience"
	}
	return render(draftTmpl, struct{ Subject, Audience string }{subject, audience})
}
