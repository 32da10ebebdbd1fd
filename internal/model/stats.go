package model

import (
	"math"
	"time"
)

// PlayerStats holds the raw cumulative counters for one identity.
// One row exists per Identity, created alongside it at first login.
type PlayerStats struct {
	IdentityID    IdentityID
	Kills         int64
	Deaths        int64
	Assists       int64
	Headshots     int64
	MatchesPlayed int64
	MatchesWon    int64
	PlaytimeHours int64
	Level         int64
	Experience    int64

	// RankPosition is a denormalized projection, recomputed as a side
	// effect of every read. It is never client-writable and is only
	// authoritative at the instant of the last read.
	RankPosition int

	UpdatedAt time.Time
}

// StatFields is the allow-list of client-updatable counter fields.
// RankPosition is deliberately absent: it is server-derived only.
var StatFields = []string{
	"kills",
	"deaths",
	"assists",
	"headshots",
	"matches_played",
	"matches_won",
	"playtime_hours",
	"level",
	"experience",
}

// StatsView is the read model returned to callers: raw counters plus
// the derived ratios, which are never stored.
type StatsView struct {
	PlayerStats
	KDRatio      float64
	WinRate      float64
	HeadshotRate float64
	Rank         int
}

// View computes the derived ratios for a stats row.
// The rank is supplied by the caller since it depends on other players.
func (ps *PlayerStats) View(rank int) StatsView {
	v := StatsView{PlayerStats: *ps, Rank: rank}

	if ps.Deaths > 0 {
		v.KDRatio = round(float64(ps.Kills)/float64(ps.Deaths), 2)
	} else {
		v.KDRatio = float64(ps.Kills)
	}
	if ps.MatchesPlayed > 0 {
		v.WinRate = round(float64(ps.MatchesWon)/float64(ps.MatchesPlayed)*100, 1)
	}
	if ps.Kills > 0 {
		v.HeadshotRate = round(float64(ps.Headshots)/float64(ps.Kills)*100, 1)
	}
	return v
}

func round(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
