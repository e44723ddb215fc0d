package domain

import (
	"time"
)

type PlayerQuery struct {
	Name    string
	Variant Variant
}

// PlayerRecord is the reshaped lounge player served to clients. Pointer and
// omitempty fields are left out of the JSON when upstream had no value.
type PlayerRecord struct {
	Name            string   `json:"name"`
	CountryCode     string   `json:"countryCode,omitempty"`
	CountryName     string   `json:"countryName,omitempty"`
	Mmr             *float64 `json:"mmr,omitempty"`
	MaxMmr          *float64 `json:"maxMmr,omitempty"`
	OverallRank     *int     `json:"overallRank,omitempty"`
	EventsPlayed    *int     `json:"eventsPlayed,omitempty"`
	WinRate         *float64 `json:"winRate,omitempty"`
	WinLossLastTen  string   `json:"winLossLastTen,omitempty"`
	GainLossLastTen *int     `json:"gainLossLastTen,omitempty"`
	LargestGain     *int     `json:"largestGain,omitempty"`
	AverageScore    *float64 `json:"averageScore,omitempty"`
	AverageLastTen  *float64 `json:"averageLastTen,omitempty"`
	Rank            string   `json:"rank,omitempty"`
	RankIconURL     *string  `json:"rankIconUrl,omitempty"`
	PartnerAvg      *float64 `json:"partnerAvg,omitempty"`
	LastDiff        *int     `json:"lastDiff,omitempty"`
}

type MmrSnapshot struct {
	ID        string    `json:"id"` // nanoid
	CacheKey  string    `json:"-"`
	Name      string    `json:"name"`
	Variant   Variant   `json:"variant"`
	Mmr       *float64  `json:"mmr,omitempty"`
	Rank      string    `json:"rank,omitempty"`
	LastDiff  *int      `json:"lastDiff,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}
