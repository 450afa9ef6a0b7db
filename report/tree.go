package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/datar-psa/lazarsfeld/api"
)

var (
	boldStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// ScoreColor returns the display colour of a score: red below 0.4, yellow below 0.7, green otherwise.
func ScoreColor(score float64) lipgloss.Color {
	switch {
	case score < 0.4:
		return lipgloss.Color("196")
	case score < 0.7:
		return lipgloss.Color("220")
	default:
		return lipgloss.Color("42")
	}
}

// TreeOptions configures PrintTree
type TreeOptions struct {
	NoColor bool
	// ShowText prints the input text below the header
	ShowText bool
}

// PrintTree writes te as an indented tree of models, concepts, dimensions and questions.
func PrintTree(w io.Writer, te api.TextEval, opts TreeOptions) error {
	p := treePrinter{w: w, noColor: opts.NoColor}

	p.line(0, strings.Repeat("=", 37))
	p.line(0, p.bold("Evaluation Results: "+te.Label))
	p.line(0, strings.Repeat("=", 37))
	if opts.ShowText {
		p.line(0, "Input Text: "+te.InputText)
	}
	p.line(0, p.bold("Aggregated Score: ")+p.score(te.AggregatedScore))

	models := make([]string, 0, len(te.Evaluations))
	for name := range te.Evaluations {
		models = append(models, name)
	}
	sort.Strings(models)

	for _, name := range models {
		me := te.Evaluations[name]
		p.line(0, "")
		p.line(0, p.bold("Model: "+name))
		if me == nil {
			p.line(0, p.dim("evaluation failed"))
			continue
		}
		p.line(0, p.bold("Overall Score: ")+p.score(me.OverallScore))
		for _, ce := range me.ConceptScores {
			p.line(1, p.bold("Concept: "+ce.Description))
			p.line(1, p.bold("Overall Score: ")+p.score(ce.OverallScore))
			for _, de := range ce.Dimensions {
				p.line(2, p.bold("Dimension: "+de.Description))
				p.line(2, p.bold("Overall Score: ")+p.score(de.OverallScore))
				for _, qe := range de.Questions {
					answer := "null"
					if qe.Answer != nil {
						answer = *qe.Answer
					}
					p.line(3, "Question: "+qe.Question)
					p.line(4, "Answer: "+answer)
					p.line(4, "Score: "+p.score(qe.Score))
				}
			}
		}
	}
	return p.err
}

type treePrinter struct {
	w       io.Writer
	noColor bool
	err     error
}

func (p *treePrinter) line(level int, s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, strings.Repeat("  ", level)+s)
}

func (p *treePrinter) bold(s string) string {
	if p.noColor {
		return s
	}
	return boldStyle.Render(s)
}

func (p *treePrinter) dim(s string) string {
	if p.noColor {
		return s
	}
	return dimStyle.Render(s)
}

func (p *treePrinter) score(v *float64) string {
	text := displayScore(v)
	if p.noColor {
		return text
	}
	if v == nil {
		return dimStyle.Render(text)
	}
	return lipgloss.NewStyle().Foreground(ScoreColor(*v)).Render(text)
}
