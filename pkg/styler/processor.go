package styler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aclev/cljstyle/pkg/styler/encoding"
)

// StyleProcessor is the default Processor: it reads a source file, guards
// against binary and oversized content, decodes it to UTF-8, and checks it
// against the rule set's style settings. In fix mode, fixable problems
// (trailing whitespace, missing final newline) are rewritten in place.
type StyleProcessor struct {
	enc    encoding.Handler
	logger *slog.Logger
}

// NewStyleProcessor creates the default processor.
func NewStyleProcessor(loggerHandler slog.Handler) *StyleProcessor {
	return &StyleProcessor{
		enc:    encoding.NewCharsetHandler(""),
		logger: slog.New(loggerHandler).With(slog.String("component", "processor")),
	}
}

// Process implements the Processor interface for one source file.
func (p *StyleProcessor) Process(ctx context.Context, rules RuleSet, displayPath, file string) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	info, err := os.Stat(file)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: %w", ErrReadFailed, displayPath, err)
	}
	maxSize := rules.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if info.Size() > maxSize {
		return Event{}, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrLargeFile, displayPath, info.Size(), maxSize)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: %w", ErrReadFailed, displayPath, err)
	}
	if p.enc.IsBinary(raw) {
		return Event{}, fmt.Errorf("%w: %s", ErrBinaryFile, displayPath)
	}
	content, encName, _, err := p.enc.DetectAndDecode(raw)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: %w", ErrReadFailed, displayPath, err)
	}
	p.logger.Debug("Checking source file",
		slog.String("path", displayPath), slog.String("encoding", encName))

	problems, unfixable, fixed := checkStyle(string(content), rules)
	if len(problems) == 0 {
		return Event{
			Kind:  KindClean,
			Debug: fmt.Sprintf("Source file %s is clean", displayPath),
		}, nil
	}

	if rules.Fix && fixed != string(content) {
		if err := os.WriteFile(file, []byte(fixed), info.Mode().Perm()); err != nil {
			return Event{}, fmt.Errorf("%w: %s: %w", ErrWriteFailed, displayPath, err)
		}
		ev := Event{
			Kind:    KindFixed,
			Message: fmt.Sprintf("Reformatting source file %s", displayPath),
		}
		// Problems the rewrite could not repair stay visible in the report.
		if len(unfixable) > 0 {
			ev.Warning = fmt.Sprintf("%s still has %d style problem(s)\n%s",
				displayPath, len(unfixable), strings.Join(unfixable, "\n"))
		}
		return ev, nil
	}

	return Event{
		Kind:    KindFlagged,
		Message: fmt.Sprintf("%s has %d style problem(s)", displayPath, len(problems)),
		Warning: strings.Join(problems, "\n"),
	}, nil
}

// checkStyle runs the line-oriented checks and returns the full problem list,
// the subset a rewrite cannot repair (long lines, wrong indentation), and the
// content as it would look with the fixable problems repaired.
func checkStyle(content string, rules RuleSet) (problems, unfixable []string, fixed string) {
	missingFinalNewline := rules.RequireFinalNewline && content != "" && !strings.HasSuffix(content, "\n")

	lines := strings.Split(content, "\n")
	fixedLines := make([]string, len(lines))
	for i, line := range lines {
		fixedLines[i] = line
		lineNo := i + 1

		if rules.ForbidTrailingWhitespace {
			trimmed := strings.TrimRight(line, " \t")
			if trimmed != line {
				problems = append(problems, fmt.Sprintf("line %d: trailing whitespace", lineNo))
				fixedLines[i] = trimmed
			}
		}
		if rules.MaxLineLength > 0 && len([]rune(line)) > rules.MaxLineLength {
			p := fmt.Sprintf("line %d: exceeds %d characters", lineNo, rules.MaxLineLength)
			problems = append(problems, p)
			unfixable = append(unfixable, p)
		}
		switch rules.Indent {
		case IndentSpaces:
			if strings.HasPrefix(line, "\t") {
				p := fmt.Sprintf("line %d: tab indentation", lineNo)
				problems = append(problems, p)
				unfixable = append(unfixable, p)
			}
		case IndentTabs:
			if strings.HasPrefix(line, " ") {
				p := fmt.Sprintf("line %d: space indentation", lineNo)
				problems = append(problems, p)
				unfixable = append(unfixable, p)
			}
		}
	}

	fixed = strings.Join(fixedLines, "\n")
	if missingFinalNewline {
		problems = append(problems, "missing final newline")
		fixed += "\n"
	}
	return problems, unfixable, fixed
}
