package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/amishk599/boardsync/internal/model"
)

//go:embed prompts/discovery.md
var discoveryPromptRaw string

//go:embed prompts/enrichment.md
var enrichmentPromptRaw string

// Prompt templates, parsed once at package init.
var (
	DiscoveryTemplate  = template.Must(template.New("discovery").Parse(discoveryPromptRaw))
	EnrichmentTemplate = template.Must(template.New("enrichment").Parse(enrichmentPromptRaw))
)

type companyPrompt struct {
	Name    string
	Website string
}

// DiscoveryPrompt asks for a link to one open posting of the company.
func DiscoveryPrompt(c model.Company) (string, error) {
	return render(DiscoveryTemplate, c)
}

// EnrichmentPrompt asks for the company's funding stage and headcount as JSON.
func EnrichmentPrompt(c model.Company) (string, error) {
	return render(EnrichmentTemplate, c)
}

func render(tmpl *template.Template, c model.Company) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, companyPrompt{Name: c.Name, Website: c.Website}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
