package i18n

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
)

// rtlScripts lists the scripts written right-to-left.
var rtlScripts = map[string]bool{
	"Adlm": true,
	"Arab": true,
	"Hebr": true,
	"Mand": true,
	"Nkoo": true,
	"Rohg": true,
	"Samr": true,
	"Syrc": true,
	"Thaa": true,
}

// LanguageInfo returns display information for a Django language code.
// Codes that cannot be parsed fall back to the code itself as both names.
func LanguageInfo(code string) domain.LanguageInfo {
	info := domain.LanguageInfo{Code: code, Name: code, NameLocal: code}

	tag, err := language.Parse(code)
	if err != nil {
		return info
	}

	if name := display.English.Tags().Name(tag); name != "" {
		info.Name = name
	}
	if local := display.Self.Name(tag); local != "" {
		info.NameLocal = local
	}

	script, _ := tag.Script()
	info.Bidi = rtlScripts[script.String()]

	return info
}

// MostlyTranslated returns the languages translated at or above threshold
// percent, plus the default language, sorted.
func MostlyTranslated(percentages map[string]float64, threshold float64, defaultLanguage string) []string {
	seen := make(map[string]struct{})
	for code, percent := range percentages {
		if percent < threshold && code != defaultLanguage {
			continue
		}
		seen[code] = struct{}{}
	}
	if defaultLanguage != "" {
		seen[defaultLanguage] = struct{}{}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// JurisdictionName returns the English name of the tool's jurisdiction.
// Unported tools are named after their version family.
func JurisdictionName(tool domain.Tool) string {
	code := tool.JurisdictionCode
	switch {
	case tool.Unit == "zero" || tool.Unit == "mark":
		code = JurisdictionPublicDomain10
	case tool.Category == "licenses" && code == "":
		switch tool.Version {
		case "4.0":
			code = JurisdictionLicenses40
		case "3.0":
			code = JurisdictionLicenses30
		default:
			code = JurisdictionLicenses25
		}
	}

	if name, ok := JurisdictionNames[code]; ok {
		return name
	}
	return UndefinedJurisdictionName
}
