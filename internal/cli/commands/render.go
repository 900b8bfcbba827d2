// Package commands implements the sqldeps subcommands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqldeps/internal/state"
	"github.com/leapstack-labs/sqldeps/pkg/depgraph"
)

// renderStructured handles the non-tabular formats. The bool reports whether
// the format was one of them.
func renderStructured(w io.Writer, format string, v interface{}) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return true, enc.Encode(v)
	}
	return false, nil
}

// RenderEdges writes dependency edges to w in the given format.
func RenderEdges(w io.Writer, format string, edges []depgraph.DependencyEdge) error {
	if done, err := renderStructured(w, format, edges); done {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"SOURCE", "RELATIONSHIP", "TARGET", "KIND", "LINE", "AMBIGUOUS"})
	for _, e := range edges {
		ambiguous := ""
		if e.Ambiguous {
			ambiguous = "yes"
		}
		t.AppendRow(table.Row{
			e.Source.FullName(),
			string(e.Relationship),
			e.Target.FullName(),
			string(e.Target.Kind),
			e.Line,
			ambiguous,
		})
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}
	return nil
}

// RenderRuns writes extraction runs to w in the given format.
func RenderRuns(w io.Writer, format string, runs []*state.Run) error {
	if done, err := renderStructured(w, format, runs); done {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "SOURCE", "STATUS", "STARTED", "EDGES"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.Source,
			string(run.Status),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.EdgeCount,
		})
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}
	return nil
}

// RenderObjectList writes a titled list of object keys to w.
func RenderObjectList(w io.Writer, title string, ids []string) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(ids))
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
