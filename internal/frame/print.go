package frame

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// PrintSchema writes the schema as an indented tree.
func (t *Table) PrintSchema(w io.Writer) error {
	var b strings.Builder
	b.WriteString("root\n")
	for _, c := range t.schema {
		fmt.Fprintf(&b, " |-- %s: %s (nullable = true)\n", c.Name, c.Type)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Show writes up to n rows as an aligned text table.
func (t *Table) Show(w io.Writer, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.schema.Names(), "\t"))

	limit := max(0, min(n, len(t.rows)))
	for _, r := range t.rows[:limit] {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = formatCell(t.schema[i].Type, v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if limit < len(t.rows) {
		fmt.Fprintf(tw, "only showing top %d of %d rows\n", limit, len(t.rows))
	}
	return tw.Flush()
}

func formatCell(typ Type, v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		if typ == Date {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	case float64:
		return fmt.Sprintf("%.2f", x)
	default:
		return fmt.Sprint(x)
	}
}
