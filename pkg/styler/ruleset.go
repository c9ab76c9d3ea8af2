package styler

// RuleSet is the effective configuration governing how one subtree is classified
// and processed. Values are immutable once constructed: sibling and descendant
// tasks share them without synchronization, and directory-local overrides produce
// a new value via Merge rather than mutating the inherited one.
type RuleSet struct {
	// IgnorePatterns are gitignore-style patterns matched against root-relative
	// paths. Overrides append to the inherited list.
	IgnorePatterns []string `mapstructure:"ignore" yaml:"ignore" toml:"ignore"`

	// Languages is the lowercase language allow-list for source-file
	// classification. Overrides replace the inherited list.
	Languages []string `mapstructure:"languages" yaml:"languages" toml:"languages"`

	// MaxLineLength flags lines longer than this many characters; 0 disables.
	MaxLineLength int `mapstructure:"maxLineLength" yaml:"maxLineLength" toml:"maxLineLength"`

	// Indent is the accepted indentation style ("spaces", "tabs", "any").
	Indent IndentPolicy `mapstructure:"indent" yaml:"indent" toml:"indent"`

	// RequireFinalNewline flags files whose last line has no trailing newline.
	RequireFinalNewline bool `mapstructure:"finalNewline" yaml:"finalNewline" toml:"finalNewline"`

	// ForbidTrailingWhitespace flags lines ending in spaces or tabs.
	ForbidTrailingWhitespace bool `mapstructure:"trailingWhitespace" yaml:"trailingWhitespace" toml:"trailingWhitespace"`

	// Fix rewrites fixable problems in place instead of only reporting them.
	// Not overridable per directory; a run either fixes or it does not.
	Fix bool `mapstructure:"fix" yaml:"-" toml:"-"`

	// MaxFileSize is the per-file byte ceiling for processing; 0 means the default.
	MaxFileSize int64 `mapstructure:"maxFileSize" yaml:"maxFileSize" toml:"maxFileSize"`
}

// DefaultRuleSet returns the rule set used when no configuration names one.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		IgnorePatterns:           append([]string(nil), DefaultIgnorePatterns...),
		Languages:                append([]string(nil), DefaultLanguages...),
		MaxLineLength:            DefaultMaxLineLength,
		Indent:                   DefaultIndentPolicy,
		RequireFinalNewline:      true,
		ForbidTrailingWhitespace: true,
		MaxFileSize:              DefaultMaxFileSize,
	}
}

// isZero reports whether r carries no configuration at all. The Fix toggle is
// excluded: it selects a mode, not a rule, and must survive the default
// substitution in Check.
func (r RuleSet) isZero() bool {
	return r.IgnorePatterns == nil && r.Languages == nil &&
		r.MaxLineLength == 0 && r.Indent == "" &&
		!r.RequireFinalNewline && !r.ForbidTrailingWhitespace &&
		r.MaxFileSize == 0
}

// Override holds the directory-local settings parsed from a .cljstyle.yaml or
// .cljstyle.toml file. Pointer fields distinguish "not set" from zero values.
type Override struct {
	IgnorePatterns           []string      `yaml:"ignore" toml:"ignore"`
	Languages                []string      `yaml:"languages" toml:"languages"`
	MaxLineLength            *int          `yaml:"maxLineLength" toml:"maxLineLength"`
	Indent                   *IndentPolicy `yaml:"indent" toml:"indent"`
	RequireFinalNewline      *bool         `yaml:"finalNewline" toml:"finalNewline"`
	ForbidTrailingWhitespace *bool         `yaml:"trailingWhitespace" toml:"trailingWhitespace"`
	MaxFileSize              *int64        `yaml:"maxFileSize" toml:"maxFileSize"`
}

// Merge returns a new rule set with the override's set fields overlaid on r.
// The receiver is never modified; a nil override yields a copy of r.
func (r RuleSet) Merge(o *Override) RuleSet {
	merged := r
	merged.IgnorePatterns = append(append([]string(nil), r.IgnorePatterns...), o.patterns()...)
	merged.Languages = append([]string(nil), r.Languages...)
	if o == nil {
		return merged
	}
	if o.Languages != nil {
		merged.Languages = append([]string(nil), o.Languages...)
	}
	if o.MaxLineLength != nil {
		merged.MaxLineLength = *o.MaxLineLength
	}
	if o.Indent != nil {
		merged.Indent = *o.Indent
	}
	if o.RequireFinalNewline != nil {
		merged.RequireFinalNewline = *o.RequireFinalNewline
	}
	if o.ForbidTrailingWhitespace != nil {
		merged.ForbidTrailingWhitespace = *o.ForbidTrailingWhitespace
	}
	if o.MaxFileSize != nil {
		merged.MaxFileSize = *o.MaxFileSize
	}
	return merged
}

func (o *Override) patterns() []string {
	if o == nil {
		return nil
	}
	return o.IgnorePatterns
}
