package language

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Detector determines the programming language of a file from its name. It is
// used for source-file classification, so it must be cheap: no file contents
// are read.
type Detector interface {
	// DetectPath returns the lowercase candidate language identifiers for the
	// given path and whether any candidate could be determined. Most
	// extensions map to a single language; ambiguous ones (".md", ".m") yield
	// several candidates and the caller picks the ones it recognizes.
	DetectPath(path string) ([]string, bool)
}

// goEnryDetector implements Detector using the go-enry library, with optional
// extension overrides taking precedence.
type goEnryDetector struct {
	overrides map[string]string // Map[extension] -> languageID, lowercase
}

// NewGoEnryDetector creates a filename-based detector. Overrides are
// normalized to a lowercase extension with a leading dot mapping to a
// lowercase language identifier; invalid entries are dropped.
func NewGoEnryDetector(overrides map[string]string) Detector {
	normalized := make(map[string]string)
	for ext, lang := range overrides {
		ext = strings.ToLower(strings.TrimSpace(ext))
		lang = strings.ToLower(strings.TrimSpace(lang))
		if ext == "" || ext == "." || lang == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = lang
	}
	return &goEnryDetector{overrides: normalized}
}

// DetectPath implements Detector. Overrides win over enry's filename and
// extension tables. The safe single-language lookups are tried first; only
// when enry reports the name as ambiguous is the full candidate list returned.
func (d *goEnryDetector) DetectPath(path string) ([]string, bool) {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	if lang, ok := d.overrides[ext]; ok {
		return []string{lang}, true
	}

	if lang, safe := enry.GetLanguageByFilename(base); safe && lang != "" {
		return []string{strings.ToLower(lang)}, true
	}
	if lang, safe := enry.GetLanguageByExtension(base); safe && lang != "" {
		return []string{strings.ToLower(lang)}, true
	}

	langs := enry.GetLanguagesByExtension(base, nil, nil)
	if len(langs) == 0 {
		langs = enry.GetLanguagesByFilename(base, nil, nil)
	}
	if len(langs) == 0 {
		return nil, false
	}
	candidates := make([]string, len(langs))
	for i, lang := range langs {
		candidates[i] = strings.ToLower(lang)
	}
	return candidates, true
}
