package llmjudge

import (
	"bytes"
	"fmt"
	"text/template"
)

const systemPromptTemplate = `You are an expert in assessing texts. You specialise in {{.Concept}}. You assess texts based on the information you are given. You can only answer with 'True' or 'False'.
It is important that you stay neutral in your assessment.`

const userPromptTemplate = `# Task:
You will be shown a piece of text. You are going to evaluate the text in the area of {{.Concept}}. Focus on the following question:
{{.Question}}
The question concerns the dimension {{.Dimension}} of the concept {{.Concept}}. You may only answer the question with 'True' or 'False'.
Read the whole text carefully. Be very critical. Do not give the desirable answer, be honest. It is better to be slightly too strict than too lenient.

# Example information:
{{.Examples}}

# Text:
{{.Text}}

# Question repeated:
{{.Question}}

Evaluate the text and answer the question with True or False, and be critical.`

// promptData is bound into both templates.
type promptData struct {
	Concept   string
	Dimension string
	Question  string
	Examples  string
	Text      string
}

type prompts struct {
	systemSource string
	userSource   string
	system       *template.Template
	user         *template.Template
}

func parsePrompts(systemSource, userSource string) (*prompts, error) {
	system, err := template.New("system").Option("missingkey=error").Parse(systemSource)
	if err != nil {
		return nil, fmt.Errorf("parse system prompt: %w", err)
	}
	user, err := template.New("user").Option("missingkey=error").Parse(userSource)
	if err != nil {
		return nil, fmt.Errorf("parse user prompt: %w", err)
	}
	return &prompts{
		systemSource: systemSource,
		userSource:   userSource,
		system:       system,
		user:         user,
	}, nil
}

func (p *prompts) render(data promptData) (string, string, error) {
	var sys, usr bytes.Buffer
	if err := p.system.Execute(&sys, data); err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	if err := p.user.Execute(&usr, data); err != nil {
		return "", "", fmt.Errorf("render user prompt: %w", err)
	}
	return sys.String(), usr.String(), nil
}
