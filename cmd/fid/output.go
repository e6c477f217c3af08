package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/ui"
)

// emit writes v as JSON or YAML when requested, and otherwise calls text.
func (a *app) emit(w io.Writer, v any, text func(w io.Writer)) error {
	switch {
	case a.jsonOutput:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case a.yamlOutput:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		text(w)
	}
	return nil
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printFindings(w io.Writer, rep model.Report) {
	if !rep.HasFindings() {
		fmt.Fprintln(w, ui.RenderOK("no findings"))
		return
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "KIND\tFIELD\tROWS\tSAMPLES")
	for _, f := range rep.Findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Kind, f.Field, countOrDash(f.Count), joinSamples(f.Samples))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%s\n", ui.RenderWarning(fmt.Sprintf("%d findings", len(rep.Findings))))
}

// recordRows flattens records for structured output.
func recordRows(records []*model.Record) []map[string]string {
	out := make([]map[string]string, 0, len(records))
	for _, r := range records {
		out = append(out, model.ToRow(r))
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func countOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func floatOrDash(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func dateOrDash(d string) string {
	if d == "" {
		return "-"
	}
	return d
}

func joinSamples(samples []string) string {
	quoted := make([]string, len(samples))
	for i, v := range samples {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}
