// Package locale reads translation statistics from the deeds and UX gettext
// catalogs of the data repository.
package locale

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/chai2010/gettext-go/po"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/i18n"
)

// Domain is the gettext domain of the deeds and UX catalogs.
const Domain = "django"

// ErrLocaleDirNotFound indicates the locale directory does not exist.
var ErrLocaleDirNotFound = errors.New("locale directory not found")

// CatalogPath returns the path of the catalog of languageCode under dir:
// <dir>/<locale>/LC_MESSAGES/django.po.
func CatalogPath(dir, languageCode string) string {
	return filepath.Join(dir, i18n.ToLocale(languageCode), "LC_MESSAGES", Domain+".po")
}

// ReadStats counts the messages of every catalog under dir, sorted by
// language code. Locale directories without a catalog are skipped.
func ReadStats(dir string) ([]domain.TranslationStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLocaleDirNotFound, dir)
		}
		return nil, fmt.Errorf("read locale directory: %w", err)
	}

	stats := make([]domain.TranslationStats, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		languageCode := i18n.ToLanguage(entry.Name())
		path := CatalogPath(dir, languageCode)
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}

		s, err := ReadCatalogStats(path)
		if err != nil {
			return nil, err
		}
		s.LanguageCode = languageCode
		s.Locale = i18n.ToLocale(languageCode)
		s.TransifexCode = i18n.MapDjangoToTransifexLanguageCode(languageCode)
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].LanguageCode < stats[j].LanguageCode
	})
	return stats, nil
}

// ReadCatalogStats counts the messages of a single catalog. Only the counts
// are filled in.
func ReadCatalogStats(path string) (domain.TranslationStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TranslationStats{}, fmt.Errorf("read catalog: %w", err)
	}
	file, err := po.Load(data)
	if err != nil {
		return domain.TranslationStats{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	var stats domain.TranslationStats
	for _, msg := range file.Messages {
		// The header entry is not a message.
		if msg.MsgId == "" {
			continue
		}
		stats.Messages++
		switch {
		case isFuzzy(msg):
			stats.Fuzzy++
		case isTranslated(msg):
			stats.Translated++
		}
	}
	stats.PercentTranslated = percent(stats.Translated, stats.Messages)
	return stats, nil
}

// Percentages maps each language to its percent translated.
func Percentages(stats []domain.TranslationStats) map[string]float64 {
	percentages := make(map[string]float64, len(stats))
	for _, s := range stats {
		percentages[s.LanguageCode] = float64(s.PercentTranslated)
	}
	return percentages
}

func isFuzzy(msg po.Message) bool {
	return slices.Contains(msg.Flags, "fuzzy")
}

// isTranslated reports whether every form of msg has a translation.
func isTranslated(msg po.Message) bool {
	if msg.MsgStr != "" {
		return true
	}
	if len(msg.MsgStrPlural) == 0 {
		return false
	}
	for _, form := range msg.MsgStrPlural {
		if form == "" {
			return false
		}
	}
	return true
}

// percent truncates like an integer division. An empty catalog counts as
// fully translated.
func percent(translated, total int) int {
	if total == 0 {
		return 100
	}
	return translated * 100 / total
}
