// Package i18n holds the language and jurisdiction tables used by legal-tools
// and the helpers that map between language code conventions.
//
// Three conventions are in play:
//   - Django language codes: lowercase IETF tags ("zh-hans", "sr-latn").
//   - Transifex language codes: POSIX locales ("zh_Hans", "sr@latin").
//   - Legacy codes: anything published historically ("zh_CN", "es_ES").
package i18n

// DefaultLanguage is the site language used when nothing more specific applies.
const DefaultLanguage = "en"

// DefaultJurisdictionLanguages maps a jurisdiction code to the language its
// ported legal tools were published in.
var DefaultJurisdictionLanguages = map[string]string{
	"am":       "hy",
	"ar":       "es",
	"at":       "de",
	"au":       "en",
	"az":       "az",
	"be":       "nl",
	"bg":       "bg",
	"br":       "pt",
	"ca":       "en",
	"ch":       "de",
	"cl":       "es",
	"cn":       "zh-hans",
	"co":       "es",
	"cr":       "es",
	"cz":       "cs",
	"de":       "de",
	"dk":       "da",
	"ec":       "es",
	"ee":       "et",
	"eg":       "ar",
	"es":       "es",
	"fi":       "fi",
	"fr":       "fr",
	"ge":       "ka",
	"gr":       "el",
	"gt":       "es",
	"hk":       "en",
	"hr":       "hr",
	"hu":       "hu",
	"ie":       "en",
	"igo":      "en",
	"il":       "he",
	"in":       "en",
	"it":       "it",
	"jp":       "ja",
	"kr":       "ko",
	"lu":       "fr",
	"mk":       "mk",
	"mt":       "en",
	"mx":       "es",
	"my":       "ms",
	"nl":       "nl",
	"no":       "nb",
	"nz":       "en",
	"pe":       "es",
	"ph":       "en",
	"pl":       "pl",
	"pr":       "es",
	"pt":       "pt",
	"ro":       "ro",
	"rs":       "sr-latn",
	"scotland": "en",
	"se":       "sv",
	"sg":       "en",
	"si":       "sl",
	"th":       "th",
	"tw":       "zh-hant",
	"ug":       "en",
	"uk":       "en",
	"us":       "en",
	"ve":       "es",
	"vn":       "vi",
	"za":       "en",
}

// Pseudo jurisdiction codes for tools that are not ported.
const (
	JurisdictionPublicDomain10 = "=p10"
	JurisdictionLicenses40     = "=l40"
	JurisdictionLicenses30     = "=l30"
	JurisdictionLicenses25     = "<=l25"
)

// UndefinedJurisdictionName is returned for jurisdiction codes without a name.
const UndefinedJurisdictionName = "UNDEFINED"

// JurisdictionNames maps jurisdiction codes, including the pseudo codes
// above, to their English names.
var JurisdictionNames = map[string]string{
	JurisdictionPublicDomain10: "Universal",
	JurisdictionLicenses40:     "International",
	JurisdictionLicenses30:     "Unported",
	JurisdictionLicenses25:     "Generic",
	"am":                       "Armenia",
	"ar":                       "Argentina",
	"at":                       "Austria",
	"au":                       "Australia",
	"az":                       "Azerbaijan",
	"be":                       "Belgium",
	"bg":                       "Bulgaria",
	"br":                       "Brazil",
	"ca":                       "Canada",
	"ch":                       "Switzerland",
	"cl":                       "Chile",
	"cn":                       "China Mainland",
	"co":                       "Colombia",
	"cr":                       "Costa Rica",
	"cz":                       "Czech Republic",
	"de":                       "Germany",
	"dk":                       "Denmark",
	"ec":                       "Ecuador",
	"ee":                       "Estonia",
	"eg":                       "Egypt",
	"es":                       "Spain",
	"fi":                       "Finland",
	"fr":                       "France",
	"ge":                       "Georgia",
	"gr":                       "Greece",
	"gt":                       "Guatemala",
	"hk":                       "Hong Kong",
	"hr":                       "Croatia",
	"hu":                       "Hungary",
	"ie":                       "Ireland",
	"igo":                      "IGO",
	"il":                       "Israel",
	"in":                       "India",
	"it":                       "Italy",
	"jp":                       "Japan",
	"kr":                       "Korea",
	"lu":                       "Luxembourg",
	"mk":                       "Macedonia",
	"mt":                       "Malta",
	"mx":                       "Mexico",
	"my":                       "Malaysia",
	"nl":                       "Netherlands",
	"no":                       "Norway",
	"nz":                       "New Zealand",
	"pe":                       "Peru",
	"ph":                       "Philippines",
	"pl":                       "Poland",
	"pr":                       "Puerto Rico",
	"pt":                       "Portugal",
	"ro":                       "Romania",
	"rs":                       "Serbia",
	"scotland":                 "UK: Scotland",
	"se":                       "Sweden",
	"sg":                       "Singapore",
	"si":                       "Slovenia",
	"th":                       "Thailand",
	"tw":                       "Taiwan",
	"ug":                       "Uganda",
	"uk":                       "UK: England & Wales",
	"us":                       "United States",
	"ve":                       "Venezuela",
	"vn":                       "Vietnam",
	"za":                       "South Africa",
}

// legacyToDjango holds legacy codes that do not normalize to a Django code
// by lowercasing and separator replacement alone.
var legacyToDjango = map[string]string{
	"es-es":    "es",
	"oci":      "oc",
	"sr-latin": "sr-latn",
	"zh":       "zh-hans",
	"zh-cn":    "zh-hans",
	"zh-tw":    "zh-hant",
}

// djangoToTransifex holds Django codes whose Transifex code differs.
var djangoToTransifex = map[string]string{
	"en-gb":   "en_GB",
	"es-pe":   "es_PE",
	"nb":      "nb_NO",
	"nl":      "nl_NL",
	"pt-br":   "pt_BR",
	"sr-latn": "sr@latin",
	"zh-hans": "zh-Hans",
	"zh-hant": "zh-Hant",
}

// djangoToRedirects holds the legacy codes that should redirect to a
// Django code, beyond the casing variants of the code itself.
var djangoToRedirects = map[string][]string{
	"es":      {"es-es"},
	"oc":      {"oci"},
	"sr-latn": {"sr-latin"},
	"zh-hans": {"zh", "zh-cn"},
	"zh-hant": {"zh-tw"},
}

// categoryTitles maps a legal tool category to its display title.
var categoryTitles = map[string]string{
	"licenses":     "Licenses",
	"publicdomain": "Public Domain",
}
