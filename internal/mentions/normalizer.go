package mentions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// environmentBegin marks a structured markup block (a nested table, an
// aligned equation) that cannot be safely flattened inline. Such contexts
// are dropped entirely rather than mis-rendered.
const environmentBegin = `\begin{`

// Converter turns a markup fragment into plain text. Implementations may
// shell out; failures are recovered by the Normalizer.
type Converter interface {
	Convert(ctx context.Context, s string) (string, error)
}

// Normalizer reduces the markup fragments left in extracted context strings
// to plain text. It never returns an error: a degraded mention is preferable
// to an aborted run.
type Normalizer struct {
	replacer  *strings.Replacer
	converter Converter
	logger    *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil converter falls back to pandoc;
// a nil logger discards.
func NewNormalizer(converter Converter, logger *slog.Logger) *Normalizer {
	if converter == nil {
		converter = &PandocConverter{}
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Normalizer{
		replacer:  newMarkupReplacer(),
		converter: converter,
		logger:    logger,
	}
}

// newMarkupReplacer builds the fixed substitution table for common inline
// markup. Earlier pairs win, so \textrm must precede \text and the spacing
// directives must precede the bare escape they share a prefix with.
func newMarkupReplacer() *strings.Replacer {
	return strings.NewReplacer(
		`\qquad`, " ",
		`\quad`, " ",
		`\textrm`, "",
		`\textbf`, "",
		`\textit`, "",
		`\text`, "",
		`\mathrm`, "",
		`\mathbf`, "",
		`\emph`, "",
		`\pm`, "±",
		`\(`, "",
		`\)`, "",
		`\,`, " ",
		`\;`, " ",
		`\:`, " ",
		`\!`, " ",
		`\\`, " ",
		"\n", " ",
	)
}

// Normalize returns the plain-text form of one raw context string. Fixed
// substitutions are applied first; a remaining environment marker discards
// the string; a remaining escape character hands the string to the
// converter, whose failure falls back to the substituted text.
func (n *Normalizer) Normalize(ctx context.Context, s string) string {
	out := n.replacer.Replace(s)

	if strings.Contains(out, environmentBegin) {
		return ""
	}

	if !strings.Contains(out, `\`) {
		return out
	}

	converted, err := n.converter.Convert(ctx, out)
	if err != nil {
		n.logger.Warn("markup conversion failed, keeping substituted text", "err", err)
		return out
	}

	return converted
}

// PandocConverter converts markup fragments to plain text via the pandoc
// binary.
type PandocConverter struct {
	Binary string // defaults to "pandoc"
}

// Convert implements Converter.
func (p *PandocConverter) Convert(ctx context.Context, s string) (string, error) {
	binary := p.Binary
	if binary == "" {
		binary = "pandoc"
	}

	cmd := exec.CommandContext(ctx, binary, "-f", "latex", "-t", "plain", "--wrap=none")
	cmd.Stdin = strings.NewReader(s)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pandoc: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimRight(out.String(), "\n"), nil
}
