package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/datar-psa/lazarsfeld/api"
)

// newTable creates a markdown-style table writer shared by every report table
func newTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 120,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// RenderTable writes the model, concept and dimension scores of te as a markdown table.
// A model whose evaluation failed gets a single "failed" row.
func RenderTable(w io.Writer, te api.TextEval) error {
	if _, err := fmt.Fprintf(w, "## %s (aggregated: %s)\n\n", te.Label, displayScore(te.AggregatedScore)); err != nil {
		return err
	}

	table := newTable([]string{"Model", "Concept", "Dimension", "Score"}, w)
	models := make([]string, 0, len(te.Evaluations))
	for name := range te.Evaluations {
		models = append(models, name)
	}
	sort.Strings(models)

	for _, name := range models {
		me := te.Evaluations[name]
		if me == nil {
			if err := table.Append([]string{name, "", "", "failed"}); err != nil {
				return err
			}
			continue
		}
		if err := table.Append([]string{name, "", "", displayScore(me.OverallScore)}); err != nil {
			return err
		}
		for _, ce := range me.ConceptScores {
			if err := table.Append([]string{"", ce.Description, "", displayScore(ce.OverallScore)}); err != nil {
				return err
			}
			for _, de := range ce.Dimensions {
				if err := table.Append([]string{"", "", de.Description, displayScore(de.OverallScore)}); err != nil {
					return err
				}
			}
		}
	}
	return table.Render()
}

// RenderAverages writes per-model averages as a markdown table.
func RenderAverages(w io.Writer, averages []Average) error {
	table := newTable([]string{"Model", "Concept", "Dimension", "Question", "Average", "N"}, w)
	for _, a := range averages {
		row := []string{a.Model, a.Concept, a.Dimension, a.Question, displayScore(a.Score), fmt.Sprintf("%d", a.Count)}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderComparison writes the nodes whose score changed between runs as a markdown table.
// Nodes missing from one side are listed too.
func RenderComparison(w io.Writer, comparisons []Comparison) error {
	table := newTable([]string{"Label", "Model", "Concept", "Dimension", "Question", "Base", "Other", "Diff"}, w)
	for _, c := range comparisons {
		if c.Difference != nil && *c.Difference == 0 {
			continue
		}
		row := []string{
			c.Label, c.Model, c.Concept, c.Dimension, c.Question,
			displayScore(c.Base), displayScore(c.Other), displayScore(c.Difference),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func displayScore(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.3f", *v)
}
