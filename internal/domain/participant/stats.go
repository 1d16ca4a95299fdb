package participant

import "math"

// Stats are the metrics derived from a participant's raw counters.
type Stats struct {
	KDA               float64
	KillParticipation float64
	CSPerMinute       float64
}

// ComputeStats derives KDA, kill participation and CS per minute. KDA and
// kill participation are rounded to two decimals.
func ComputeStats(kills, deaths, assists, teamKills, cs, durationSeconds int) Stats {
	takedowns := float64(kills + assists)

	kda := takedowns / float64(max(deaths, 1))

	var kp float64
	if teamKills > 0 {
		kp = takedowns / float64(teamKills)
	}

	var csPerMinute float64
	if durationSeconds > 0 {
		csPerMinute = float64(cs) / (float64(durationSeconds) / 60)
	}

	return Stats{
		KDA:               round2(kda),
		KillParticipation: round2(kp),
		CSPerMinute:       csPerMinute,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
