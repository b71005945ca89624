package aggregate

import (
	"sort"

	"github.com/spiffcs/statcard/internal/model"
)

// OtherLanguage names the bucket holding languages beyond the top N.
const OtherLanguage = "Other"

// CalculateLanguageStats sums language bytes across repositories and returns
// them largest first with their share of the total.
func CalculateLanguageStats(perRepo []map[string]int64, colors map[string]string) []model.LanguageStats {
	totals := make(map[string]int64)
	var total int64
	for _, langs := range perRepo {
		for name, size := range langs {
			totals[name] += size
			total += size
		}
	}

	stats := make([]model.LanguageStats, 0, len(totals))
	for name, size := range totals {
		var pct float64
		if total > 0 {
			pct = float64(size) / float64(total) * 100
		}
		stats = append(stats, model.LanguageStats{
			Name:       name,
			Color:      model.LanguageColor(colors, name),
			Percentage: pct,
			Size:       size,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Size != stats[j].Size {
			return stats[i].Size > stats[j].Size
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// TopLanguages keeps the n largest languages and folds the remainder into an
// "Other" entry when its share exceeds threshold percent.
func TopLanguages(langs []model.LanguageStats, n int, threshold float64) []model.LanguageStats {
	if len(langs) <= n {
		out := make([]model.LanguageStats, len(langs))
		copy(out, langs)
		return out
	}

	out := make([]model.LanguageStats, n, n+1)
	copy(out, langs[:n])

	other := model.LanguageStats{Name: OtherLanguage, Color: model.OtherLanguageColor}
	for _, l := range langs[n:] {
		other.Size += l.Size
		other.Percentage += l.Percentage
	}
	if other.Percentage > threshold {
		out = append(out, other)
	}
	return out
}
