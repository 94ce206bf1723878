package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"task-store/internal/domain"
)

// Output formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

type taskView struct {
	ID     string `json:"id"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

func newTaskView(t domain.Task) taskView {
	return taskView{
		ID:     t.ID().Value(),
		Body:   t.Body().Value(),
		Status: t.Status().Value(),
	}
}

// printer renders tasks in the selected format
type printer struct {
	out    io.Writer
	format string
}

func newPrinter(out io.Writer, format string) (*printer, error) {
	switch format {
	case FormatTable, FormatJSON:
		return &printer{out: out, format: format}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want %s or %s)", format, FormatTable, FormatJSON)
	}
}

func (p *printer) Task(t domain.Task) error {
	if p.format == FormatJSON {
		return p.json(newTaskView(t))
	}
	return p.table([]domain.Task{t})
}

func (p *printer) Tasks(tasks []domain.Task) error {
	if p.format == FormatJSON {
		views := make([]taskView, 0, len(tasks))
		for _, t := range tasks {
			views = append(views, newTaskView(t))
		}
		return p.json(views)
	}
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(p.out, "No tasks found.")
		return err
	}
	return p.table(tasks)
}

// Message prints a confirmation line. JSON output stays silent so that it
// remains parseable.
func (p *printer) Message(format string, args ...any) error {
	if p.format == FormatJSON {
		return nil
	}
	_, err := fmt.Fprintf(p.out, format+"\n", args...)
	return err
}

func (p *printer) table(tasks []domain.Task) error {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tBODY")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID().Value(), t.Status().Value(), t.Body().Value())
	}
	return w.Flush()
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
