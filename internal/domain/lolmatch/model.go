package lolmatch

import (
	"strings"
	"time"
)

const (
	StatusStub      = "stub"
	StatusPopulated = "populated"
	StatusTrashed   = "trashed"
)

// Match is one played game. Detail fields stay zero while the row is a stub.
type Match struct {
	ID              int64
	MatchKey        string
	Platform        string
	Status          string
	QueueID         int
	MapID           int
	GameMode        string
	Version         string
	DurationSeconds int
	StartedAt       *time.Time
	EndedAt         *time.Time
}

// Detail carries what the ingestion pipeline learns about a stub match once
// its record has been fetched.
type Detail struct {
	MatchKey        string
	QueueID         int
	MapID           int
	GameMode        string
	Version         string
	DurationSeconds int
	StartedAt       time.Time
	EndedAt         time.Time
}

func IsTerminal(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusTrashed)
}

// PlatformFromKey returns the platform prefix of a match key, e.g. EUW1 for
// EUW1_6912345678. An empty string is returned for keys without a prefix.
func PlatformFromKey(matchKey string) string {
	prefix, _, ok := strings.Cut(strings.TrimSpace(matchKey), "_")
	if !ok || prefix == "" {
		return ""
	}
	return strings.ToUpper(prefix)
}

// VersionMajorMinor trims a game version such as 14.3.567.1234 to 14.3.
func VersionMajorMinor(version string) string {
	version = strings.TrimSpace(version)
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
