package i18n

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var redirectSeparators = []string{"-", "@", "_"}

// MapLegacyToDjangoLanguageCode normalizes a legacy language code (POSIX
// locale or conventional IETF tag) to a Django language code.
func MapLegacyToDjangoLanguageCode(legacy string) string {
	code := strings.ToLower(legacy)
	code = strings.ReplaceAll(code, "@", "-")
	code = strings.ReplaceAll(code, "_", "-")
	if mapped, ok := legacyToDjango[code]; ok {
		return mapped
	}
	return code
}

// MapDjangoToTransifexLanguageCode returns the Transifex language code for a
// Django language code.
func MapDjangoToTransifexLanguageCode(code string) string {
	if mapped, ok := djangoToTransifex[code]; ok {
		return mapped
	}
	return code
}

// MapDjangoToRedirectsLanguageCodes returns the language codes that should
// redirect to the given Django language code: every casing variant of the
// code and of its legacy aliases, sorted, without the code itself.
// The result always contains at least the uppercase form of the code.
func MapDjangoToRedirectsLanguageCodes(code string) []string {
	title := cases.Title(language.Und)

	sources := append(append([]string{}, djangoToRedirects[code]...), code)
	seen := make(map[string]struct{})
	add := func(c string) { seen[c] = struct{}{} }

	for _, source := range sources {
		add(source)
		add(strings.ToUpper(source))
		for _, sep := range redirectSeparators {
			if !strings.Contains(source, sep) {
				continue
			}
			parts := strings.Split(source, sep)
			upper := []string{parts[0]}
			titled := []string{parts[0]}
			for _, part := range parts[1:] {
				upper = append(upper, strings.ToUpper(part))
				titled = append(titled, title.String(part))
			}
			add(strings.Join(upper, sep))
			add(strings.Join(titled, sep))
		}
	}
	delete(seen, code)

	return sortedKeys(seen)
}

// MapDjangoToRedirectsLanguageCodesLowercase returns the lowercase codes
// that should redirect to the given Django language code. It may be empty.
func MapDjangoToRedirectsLanguageCodesLowercase(code string) []string {
	seen := make(map[string]struct{})
	for _, redirect := range MapDjangoToRedirectsLanguageCodes(code) {
		lower := strings.ToLower(redirect)
		if lower == code {
			continue
		}
		seen[lower] = struct{}{}
	}
	return sortedKeys(seen)
}

// ToLocale turns a Django language code into a locale name, for example
// "pt-br" into "pt_BR" and "zh-hans" into "zh_Hans".
func ToLocale(code string) string {
	lang, country, found := strings.Cut(strings.ToLower(code), "-")
	if !found {
		if len(code) <= 3 {
			return strings.ToLower(code)
		}
		return strings.ToLower(code[:3]) + code[3:]
	}

	country, tail, _ := strings.Cut(country, "-")
	if len(country) > 2 {
		country = cases.Title(language.Und).String(country)
	} else {
		country = strings.ToUpper(country)
	}
	if tail != "" {
		country += "-" + tail
	}
	return lang + "_" + country
}

// ToLanguage turns a locale name into a Django language code.
func ToLanguage(locale string) string {
	lang, country, found := strings.Cut(locale, "_")
	if !found {
		return strings.ToLower(locale)
	}
	return strings.ToLower(lang) + "-" + strings.ToLower(country)
}

// CategoryTitle returns the display title of a legal tool category.
func CategoryTitle(category string) (string, bool) {
	title, ok := categoryTitles[category]
	return title, ok
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
