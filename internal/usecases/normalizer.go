package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/i18n"
)

// DefaultCategory is used when neither a category nor a tool is given.
const DefaultCategory = "licenses"

// Normalizer computes canonical document paths and language codes from the
// language fallback settings. It holds no mutable state and is safe for
// concurrent use.
type Normalizer struct {
	defaultLanguage       string
	mostlyTranslated      map[string]struct{}
	jurisdictionLanguages map[string]string
}

// NewNormalizer creates a Normalizer from settings.
// Returns domain.ErrDefaultLanguageRequired if no default language is configured.
func NewNormalizer(settings domain.LanguageSettings) (*Normalizer, error) {
	if settings.DefaultLanguage == "" {
		return nil, domain.ErrDefaultLanguageRequired
	}

	mostly := make(map[string]struct{}, len(settings.LanguagesMostlyTranslated))
	for _, code := range settings.LanguagesMostlyTranslated {
		mostly[code] = struct{}{}
	}

	jurisdictions := make(map[string]string, len(settings.JurisdictionLanguages))
	for jurisdiction, code := range settings.JurisdictionLanguages {
		jurisdictions[jurisdiction] = code
	}

	return &Normalizer{
		defaultLanguage:       settings.DefaultLanguage,
		mostlyTranslated:      mostly,
		jurisdictionLanguages: jurisdictions,
	}, nil
}

// DefaultLanguageForJurisdiction returns the jurisdiction's default language,
// or the site default when the jurisdiction has none.
func (n *Normalizer) DefaultLanguageForJurisdiction(jurisdictionCode string) string {
	if code, ok := n.jurisdictionLanguages[jurisdictionCode]; ok && code != "" {
		return code
	}
	return n.defaultLanguage
}

// NormalizePathAndLang resolves the language to serve for requestPath and
// appends it as a suffix when missing. An empty languageCode means none was
// requested; it is then derived from the jurisdiction.
func (n *Normalizer) NormalizePathAndLang(requestPath, jurisdictionCode, languageCode string) (string, string) {
	if languageCode == "" {
		languageCode = n.DefaultLanguageForJurisdiction(jurisdictionCode)
	}

	suffix := "." + languageCode
	if !strings.HasSuffix(requestPath, suffix) {
		requestPath += suffix
	}
	return requestPath, languageCode
}

// DeedRelPath returns the deed path relative to pathStart, switching to a
// better supported language when languageCode is not mostly translated.
func (n *Normalizer) DeedRelPath(deedURL, pathStart, languageCode, languageDefault string) string {
	chosen := languageCode
	if !n.acceptable(chosen) {
		chosen = languageDefault
		if !n.acceptable(chosen) {
			chosen = n.defaultLanguage
		}
	}
	return relPathWithLanguage(deedURL, pathStart, "deed", languageCode, chosen)
}

// LegalCodeRelPath returns the legal code path relative to pathStart,
// switching to languageDefault when the document is not available in
// languageCode.
func (n *Normalizer) LegalCodeRelPath(
	legalCodeURL, pathStart, languageCode, languageDefault string,
	legalCodeLanguages []string,
) string {
	chosen := languageDefault
	for _, code := range legalCodeLanguages {
		if code == languageCode {
			chosen = languageCode
			break
		}
	}
	return relPathWithLanguage(legalCodeURL, pathStart, "legalcode", languageCode, chosen)
}

// CategoryAndTitle resolves the category to display and its title.
// An explicit category wins over the tool's; without either the default
// category is used. Returns domain.ErrUnknownCategory for categories without
// a title.
func (n *Normalizer) CategoryAndTitle(category string, tool *domain.Tool) (string, string, error) {
	switch {
	case category != "":
	case tool != nil:
		category = tool.Category
	default:
		category = DefaultCategory
	}

	title, ok := i18n.CategoryTitle(category)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	return category, title, nil
}

// IsMostlyTranslated reports whether languageCode is in the mostly translated set.
func (n *Normalizer) IsMostlyTranslated(languageCode string) bool {
	_, ok := n.mostlyTranslated[languageCode]
	return ok
}

// DefaultLanguage returns the site default language.
func (n *Normalizer) DefaultLanguage() string {
	return n.defaultLanguage
}

// MostlyTranslated returns the mostly translated languages, sorted.
func (n *Normalizer) MostlyTranslated() []string {
	codes := make([]string, 0, len(n.mostlyTranslated))
	for code := range n.mostlyTranslated {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (n *Normalizer) acceptable(languageCode string) bool {
	return languageCode == n.defaultLanguage || n.IsMostlyTranslated(languageCode)
}

// relPathWithLanguage strips pathStart from url and points the trailing
// "<document>.<requested>" component at the chosen language. A url whose
// final component is anything else is only made relative.
func relPathWithLanguage(url, pathStart, document, requested, chosen string) string {
	rel := strings.TrimPrefix(url, pathStart)
	rel = strings.TrimPrefix(rel, "/")

	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	if base == document+"."+requested {
		rel = rel[:len(rel)-len(requested)] + chosen
	}
	return rel
}
