// Package algo ranks and grades aggregated audit data.
package algo

import (
	"sort"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

// RankChurn sorts files by total churn (added + deleted) in descending order,
// then by touches in descending order, then by path, and returns the top
// 'limit' files. A non-positive limit falls back to contract.DefaultChurnLimit.
func RankChurn(files []schema.FileChurnStat, limit int) []schema.FileChurnStat {
	if limit <= 0 {
		limit = contract.DefaultChurnLimit
	}
	ranked := make([]schema.FileChurnStat, len(files))
	copy(ranked, files)
	sort.Slice(ranked, func(i, j int) bool {
		ci, cj := ranked[i].Churn(), ranked[j].Churn()
		if ci != cj {
			return ci > cj
		}
		if ranked[i].Touches != ranked[j].Touches {
			return ranked[i].Touches > ranked[j].Touches
		}
		return ranked[i].Path < ranked[j].Path
	})
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// SeverityLabel grades an audit by its worst reported severity.
// A nil count or an audit without findings is Clean.
func SeverityLabel(counts *schema.SeverityCounts) string {
	switch {
	case counts == nil:
		return contract.CleanValue
	case counts.Critical > 0:
		return contract.CriticalValue
	case counts.High > 0:
		return contract.HighValue
	case counts.Moderate > 0:
		return contract.ModerateValue
	case counts.Low > 0 || counts.Info > 0 || counts.Total > 0:
		return contract.LowValue
	default:
		return contract.CleanValue
	}
}

// DebtLabel grades the debt section: secrets dominate, then committed env
// files, then large files, then the volume of TODO markers.
func DebtLabel(debt schema.DebtReport) string {
	switch {
	case len(debt.SecretHits) > 0:
		return contract.CriticalValue
	case len(debt.EnvFilesCommitted) > 0:
		return contract.HighValue
	case len(debt.LargeFiles) > 0 || len(debt.TodoFixme) >= 100:
		return contract.ModerateValue
	case len(debt.TodoFixme) > 0:
		return contract.LowValue
	default:
		return contract.CleanValue
	}
}
