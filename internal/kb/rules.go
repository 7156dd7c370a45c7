package kb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/coachgolf/go_coach/internal/engine"
)

// ErrRulesNotFound means the rules PDF is missing. Extraction is the one
// pipeline stage where a missing input is fatal: continuing would
// silently produce a knowledge asset without the normativa section.
var ErrRulesNotFound = errors.New("rules document not found")

// ExtractRules extracts the rules text from a paginated PDF, page by
// page in document order. Pages with no extractable text are skipped;
// the rest are joined with a blank line, then cleaned once.
func ExtractRules(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRulesNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page degrades that page only.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}
	engine.AddRulesPages(total)

	return CleanText(strings.Join(pages, "\n\n")), nil
}

// CleanText normalizes line endings and strips NUL and other control
// characters (newlines and tabs survive). Blank lines are kept: the
// pipeline has always emitted them and downstream consumers treat the
// text as opaque anyway. Idempotent.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveRules writes the extracted rules text artifact.
func SaveRules(dir, text string) error {
	path := filepath.Join(dir, RulesFile)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadRules reads the rules artifact. A missing file means "no rules
// section" (the assembler treats empty rules as optional); any other
// error is reported.
func LoadRules(dir string) (string, error) {
	path := filepath.Join(dir, RulesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
