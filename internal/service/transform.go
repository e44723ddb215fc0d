package service

import (
	"math"
	"mkworld-overlay/internal/api"
	"mkworld-overlay/internal/domain"
	"strings"
	"unicode"
)

const tableReason = "Table"

var rankIcons = map[string]string{
	"iron":         "/static/ranks/iron.webp",
	"bronze":       "/static/ranks/bronze.webp",
	"silver":       "/static/ranks/silver.webp",
	"gold":         "/static/ranks/gold.webp",
	"platinum":     "/static/ranks/platinum.webp",
	"sapphire":     "/static/ranks/sapphire.webp",
	"ruby":         "/static/ranks/ruby.webp",
	"diamond":      "/static/ranks/diamond.webp",
	"master":       "/static/ranks/master.webp",
	"grandmaster":  "/static/ranks/grandmaster.webp",
	"grand master": "/static/ranks/grandmaster.webp",
}

// ToPlayerRecord reshapes a lounge response. It never fails; unknown or
// missing values just leave the output field unset.
func ToPlayerRecord(p *api.PlayerDetailsResponse) domain.PlayerRecord {
	partnerAvg, lastDiff := tableStats(p.MmrChanges)

	return domain.PlayerRecord{
		Name:            p.Name,
		CountryCode:     p.CountryCode,
		CountryName:     p.CountryName,
		Mmr:             p.Mmr,
		MaxMmr:          p.MaxMmr,
		OverallRank:     p.OverallRank,
		EventsPlayed:    p.EventsPlayed,
		WinRate:         p.WinRate,
		WinLossLastTen:  p.WinLossLastTen,
		GainLossLastTen: p.GainLossLastTen,
		LargestGain:     p.LargestGain,
		AverageScore:    p.AverageScore,
		AverageLastTen:  p.AverageLastTen,
		Rank:            p.Rank,
		RankIconURL:     RankIconURL(p.Rank),
		PartnerAvg:      partnerAvg,
		LastDiff:        lastDiff,
	}
}

// tableStats averages partner scores over every table event and takes the
// delta of the most recent one. changes are most-recent-first.
func tableStats(changes []api.MmrChange) (*float64, *int) {
	var lastDiff *int
	seenTable := false
	sum, count := 0, 0

	for _, c := range changes {
		if c.Reason != tableReason {
			continue
		}
		if !seenTable {
			seenTable = true
			if c.MmrDelta != nil {
				d := *c.MmrDelta
				lastDiff = &d
			}
		}
		for _, s := range c.PartnerScores {
			sum += s
			count++
		}
	}

	if count == 0 {
		return nil, lastDiff
	}
	avg := math.Round(float64(sum)/float64(count)*100) / 100
	return &avg, lastDiff
}

// RankIconURL maps a lounge rank such as "Gold" or "Diamond 2" to its icon
// path, or nil for an unknown tier.
func RankIconURL(rank string) *string {
	tier := strings.ToLower(strings.TrimSpace(rank))
	if path, ok := rankIcons[tier]; ok {
		return &path
	}

	trimmed := strings.TrimRightFunc(tier, unicode.IsDigit)
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == tier {
		return nil
	}
	if path, ok := rankIcons[trimmed]; ok {
		return &path
	}
	return nil
}
