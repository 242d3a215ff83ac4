// Package textpanel renders bank snapshots as a plain-text table.
package textpanel

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
)

const defaultTitle = "Group Ironman Bank"

// ErrNilWriter is returned when a nil writer is supplied.
var ErrNilWriter = errors.New("nil writer supplied")

// TextPanel writes one table per Render call to an io.Writer.
type TextPanel struct {
	mu     sync.Mutex
	out    io.Writer
	title  string
	closed bool
}

// Option defines a functional option for configuring TextPanel.
type Option func(*TextPanel)

// WithTitle sets the heading printed above each table.
func WithTitle(title string) Option {
	return func(p *TextPanel) {
		p.title = title
	}
}

// New creates a TextPanel writing to out.
func New(out io.Writer, options ...Option) (*TextPanel, error) {
	if out == nil {
		return nil, ErrNilWriter
	}

	p := &TextPanel{out: out, title: defaultTitle}
	for _, option := range options {
		option(p)
	}

	return p, nil
}

// Render implements bank.DisplayAdapter. Writes after Close are discarded.
func (p *TextPanel) Render(records bank.ItemRecords) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	fmt.Fprintf(p.out, "%s (%s)\n", p.title, pluralItems(len(records)))
	if len(records) == 0 {
		fmt.Fprintln(p.out, "  no saved bank items")
		return
	}

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tQUANTITY\t NAME\t")
	total := int64(0)
	for _, record := range records {
		fmt.Fprintf(tw, "%d\t%s\t %s\t\n", record.ID, humanize.Comma(int64(record.Quantity)), displayName(record))
		total += int64(record.Quantity)
	}
	fmt.Fprintf(tw, "\t%s\t total\t\n", humanize.Comma(total))
	_ = tw.Flush()
}

// Close implements plugin.Panel.
func (p *TextPanel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true

	return nil
}

func displayName(record bank.ItemRecord) string {
	if record.Name == "" {
		return bank.PlaceholderName(record.ID)
	}

	return record.Name
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 item"
	}

	return humanize.Comma(int64(n)) + " items"
}
