package service

import (
	"encoding/json"
	"mkworld-overlay/internal/api"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestTableStats(t *testing.T) {
	p := &api.PlayerDetailsResponse{
		Name: "Foo",
		MmrChanges: []api.MmrChange{
			{Reason: "Table", MmrDelta: intp(10), PartnerScores: []int{4, 6}},
			{Reason: "Other", MmrDelta: intp(5), PartnerScores: []int{100}},
		},
	}

	rec := ToPlayerRecord(p)

	require.NotNil(t, rec.PartnerAvg)
	assert.Equal(t, 5.0, *rec.PartnerAvg)
	require.NotNil(t, rec.LastDiff)
	assert.Equal(t, 10, *rec.LastDiff)
}

func TestTableStatsUsesMostRecentTable(t *testing.T) {
	p := &api.PlayerDetailsResponse{
		MmrChanges: []api.MmrChange{
			{Reason: "Penalty", MmrDelta: intp(-50)},
			{Reason: "Table", MmrDelta: intp(-7), PartnerScores: []int{70}},
			{Reason: "Table", MmrDelta: intp(33), PartnerScores: []int{81, 90}},
		},
	}

	rec := ToPlayerRecord(p)

	assert.Equal(t, -7, *rec.LastDiff)
	// (70+81+90)/3 = 80.333...
	assert.Equal(t, 80.33, *rec.PartnerAvg)
}

func TestTableStatsNoTables(t *testing.T) {
	p := &api.PlayerDetailsResponse{
		MmrChanges: []api.MmrChange{
			{Reason: "Placement", MmrDelta: intp(2000)},
			{Reason: "Strike", MmrDelta: intp(-100), PartnerScores: []int{1}},
		},
	}

	rec := ToPlayerRecord(p)
	assert.Nil(t, rec.PartnerAvg)
	assert.Nil(t, rec.LastDiff)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "partnerAvg")
	assert.NotContains(t, string(out), "lastDiff")
	assert.NotContains(t, string(out), "null")
}

func TestTableStatsTableWithoutScores(t *testing.T) {
	p := &api.PlayerDetailsResponse{
		MmrChanges: []api.MmrChange{{Reason: "Table", MmrDelta: intp(12)}},
	}

	rec := ToPlayerRecord(p)
	assert.Nil(t, rec.PartnerAvg)
	assert.Equal(t, 12, *rec.LastDiff)
}

func TestTableStatsFirstTableMissingDelta(t *testing.T) {
	p := &api.PlayerDetailsResponse{
		MmrChanges: []api.MmrChange{
			{Reason: "Table", PartnerScores: []int{50}},
			{Reason: "Table", MmrDelta: intp(9), PartnerScores: []int{60}},
		},
	}

	rec := ToPlayerRecord(p)
	assert.Nil(t, rec.LastDiff)
	assert.Equal(t, 55.0, *rec.PartnerAvg)
}

func TestRankIconURL(t *testing.T) {
	gm := RankIconURL("Grandmaster")
	require.NotNil(t, gm)
	assert.Equal(t, gm, RankIconURL("grand master"))
	assert.Equal(t, "/static/ranks/grandmaster.webp", *gm)

	assert.Equal(t, "/static/ranks/gold.webp", *RankIconURL("GOLD"))
	assert.Equal(t, "/static/ranks/diamond.webp", *RankIconURL("Diamond 2"))
	assert.Equal(t, "/static/ranks/master.webp", *RankIconURL(" Master "))

	assert.Nil(t, RankIconURL("Legend"))
	assert.Nil(t, RankIconURL(""))
	assert.Nil(t, RankIconURL("42"))
}

func TestToPlayerRecordUnknownRankOmitsIcon(t *testing.T) {
	rec := ToPlayerRecord(&api.PlayerDetailsResponse{Name: "Foo", Rank: "Legend"})

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "rankIconUrl")
	assert.Contains(t, string(out), `"rank":"Legend"`)
}

func TestToPlayerRecordCopiesFields(t *testing.T) {
	mmr, maxMmr, wr := 9120.0, 9400.0, 0.55
	p := &api.PlayerDetailsResponse{
		Name:            "Foo",
		CountryCode:     "JP",
		CountryName:     "Japan",
		Mmr:             &mmr,
		MaxMmr:          &maxMmr,
		OverallRank:     intp(81),
		EventsPlayed:    intp(120),
		WinRate:         &wr,
		WinLossLastTen:  "6-4",
		GainLossLastTen: intp(132),
		LargestGain:     intp(210),
		Rank:            "Ruby",
	}

	rec := ToPlayerRecord(p)

	assert.Equal(t, "Foo", rec.Name)
	assert.Equal(t, "JP", rec.CountryCode)
	assert.Equal(t, "Japan", rec.CountryName)
	assert.Equal(t, 9120.0, *rec.Mmr)
	assert.Equal(t, 9400.0, *rec.MaxMmr)
	assert.Equal(t, 81, *rec.OverallRank)
	assert.Equal(t, 120, *rec.EventsPlayed)
	assert.Equal(t, 0.55, *rec.WinRate)
	assert.Equal(t, "6-4", rec.WinLossLastTen)
	assert.Equal(t, 132, *rec.GainLossLastTen)
	assert.Equal(t, 210, *rec.LargestGain)
	assert.Equal(t, "/static/ranks/ruby.webp", *rec.RankIconURL)
	assert.Nil(t, rec.AverageScore)
}
