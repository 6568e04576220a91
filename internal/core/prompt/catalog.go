// Package prompt holds the per-language prompt table used by the verdict
// and translation calls.
package prompt

import (
	"fmt"
	"strings"

	"github.com/agenthands/factcheck/internal/config"
	"github.com/agenthands/factcheck/internal/core/model"
)

// ToolName is the function the verdict call is forced to invoke. Templates refer to it by name.
const ToolName = "verify_claim_with_evidence"

// Template is one language entry. User is a format string taking the claim and
// the rendered evidence block. Translation is empty when explanations are not
// translated into this language.
type Template struct {
	System      string
	User        string
	URLLabel    string
	Translation string
}

// Catalog maps language codes to templates with a mandatory default entry.
type Catalog struct {
	defaultLanguage string
	templates       map[string]Template
}

// NewCatalog merges overrides over the built-in table. It fails when the
// default language has no entry.
func NewCatalog(defaultLanguage string, overrides map[string]config.PromptConfig) (*Catalog, error) {
	templates := make(map[string]Template, len(builtin)+len(overrides))
	for lang, tmpl := range builtin {
		templates[lang] = tmpl
	}
	for lang, o := range overrides {
		tmpl := templates[lang]
		if o.System != "" {
			tmpl.System = o.System
		}
		if o.User != "" {
			tmpl.User = o.User
		}
		if o.URLLabel != "" {
			tmpl.URLLabel = o.URLLabel
		}
		if o.Translation != "" {
			tmpl.Translation = o.Translation
		}
		if tmpl.System == "" || tmpl.User == "" {
			return nil, fmt.Errorf("%w: prompts for %q need both system and user", config.ErrConfiguration, lang)
		}
		if tmpl.URLLabel == "" {
			tmpl.URLLabel = "URL"
		}
		templates[lang] = tmpl
	}

	if _, ok := templates[defaultLanguage]; !ok {
		return nil, fmt.Errorf("%w: no prompts for default language %q", config.ErrConfiguration, defaultLanguage)
	}

	return &Catalog{defaultLanguage: defaultLanguage, templates: templates}, nil
}

func (c *Catalog) DefaultLanguage() string { return c.defaultLanguage }

// Lookup returns the template for language, or the default entry for unknown codes.
func (c *Catalog) Lookup(language string) Template {
	if tmpl, ok := c.templates[language]; ok {
		return tmpl
	}
	return c.templates[c.defaultLanguage]
}

// TranslationPrompt returns the translation system prompt for language. It
// reports false for the default language and for languages without one.
func (c *Catalog) TranslationPrompt(language string) (string, bool) {
	if language == c.defaultLanguage {
		return "", false
	}
	tmpl, ok := c.templates[language]
	if !ok || tmpl.Translation == "" {
		return "", false
	}
	return tmpl.Translation, true
}

// RenderUser interpolates the claim and every evidence item in index order.
func (t Template) RenderUser(claim string, evidence []model.EvidenceItem) string {
	blocks := make([]string, len(evidence))
	for i, e := range evidence {
		blocks[i] = fmt.Sprintf("[%d] %s\n%s\n%s: %s", e.Index, e.Title, e.Content, t.URLLabel, e.URL)
	}
	return fmt.Sprintf(t.User, claim, strings.Join(blocks, "\n\n"))
}
