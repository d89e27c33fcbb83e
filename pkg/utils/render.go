package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"s3backup/internal/models"
	"s3backup/internal/progress"
)

var (
	bucketStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	directoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0066cc")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbbbbb"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cc0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#006600")).
			Bold(true)
)

// ConsoleReporter draws a progress bar per bucket and, once the bucket is
// done, its key tree. Output goes to a terminal stream, never to stdout JSON.
type ConsoleReporter struct {
	out      io.Writer
	bar      bar.Model
	lastStep int
}

func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleReporter{
		out:      out,
		bar:      bar.New(bar.WithDefaultGradient(), bar.WithWidth(40)),
		lastStep: -1,
	}
}

// Progress redraws the bar when the whole percentage changes and on the final event.
func (r *ConsoleReporter) Progress(e progress.Event) {
	step := int(e.Percent() * 100)
	if step == r.lastStep && !e.Done {
		return
	}
	r.lastStep = step

	fmt.Fprintf(r.out, "\r%s %s %d/%d %s",
		bucketStyle.Render(e.Bucket),
		r.bar.ViewAs(e.Percent()),
		e.Current,
		e.Total,
		FormatBytes(e.Bytes),
	)
	if e.Done {
		fmt.Fprintln(r.out)
		r.lastStep = -1
	}
}

func (r *ConsoleReporter) BucketDone(result *models.BucketResult) {
	style := successStyle
	if result.Outcome != models.OutcomeCompleted {
		style = errorStyle
	}

	fmt.Fprintf(r.out, "%s %s\n", bucketStyle.Render(result.Bucket), style.Render(string(result.Outcome)))
	if result.Error != "" {
		fmt.Fprintln(r.out, errorStyle.Render(result.Error))
	}
	for _, f := range result.Failures {
		fmt.Fprintf(r.out, "  %s %s\n", errorStyle.Render(f.Key), f.Error)
	}
	if len(result.Tree) > 0 {
		fmt.Fprintln(r.out, RenderTree(result.Bucket, result.Tree))
	}
}

// RenderTree draws sorted key paths below a root node. Paths ending in the key
// separator are directories; every parent must precede its children.
func RenderTree(root string, paths []string) string {
	top := tree.Root(bucketStyle.Render(root))
	nodes := map[string]*tree.Tree{"": top}

	for _, p := range paths {
		parent := nodes[parentPath(p)]
		if parent == nil {
			parent = top
		}

		name := strings.TrimPrefix(p, parentPath(p))
		if strings.HasSuffix(p, models.KeySeparator) {
			node := tree.Root(directoryStyle.Render(name))
			nodes[p] = node
			parent.Child(node)
			continue
		}
		parent.Child(fileStyle.Render(name))
	}

	return top.String()
}

// parentPath returns the directory prefix of p including its trailing separator.
func parentPath(p string) string {
	trimmed := strings.TrimSuffix(p, models.KeySeparator)
	i := strings.LastIndex(trimmed, models.KeySeparator)
	if i < 0 {
		return ""
	}
	return trimmed[:i+1]
}
