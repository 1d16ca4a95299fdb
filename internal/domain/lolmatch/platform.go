package lolmatch

import "strings"

const (
	RegionAmericas = "americas"
	RegionEurope   = "europe"
	RegionAsia     = "asia"
	RegionSEA      = "sea"
)

var platformRegions = map[string]string{
	"BR1":  RegionAmericas,
	"LA1":  RegionAmericas,
	"LA2":  RegionAmericas,
	"NA1":  RegionAmericas,
	"PBE1": RegionAmericas,
	"EUN1": RegionEurope,
	"EUW1": RegionEurope,
	"ME1":  RegionEurope,
	"RU":   RegionEurope,
	"TR1":  RegionEurope,
	"JP1":  RegionAsia,
	"KR":   RegionAsia,
	"OC1":  RegionSEA,
	"PH2":  RegionSEA,
	"SG2":  RegionSEA,
	"TH2":  RegionSEA,
	"TW2":  RegionSEA,
	"VN2":  RegionSEA,
}

func NormalizePlatform(platform string) string {
	return strings.ToUpper(strings.TrimSpace(platform))
}

func IsKnownPlatform(platform string) bool {
	_, ok := platformRegions[NormalizePlatform(platform)]
	return ok
}

// MatchRegion is the regional cluster serving match-v5 for a platform.
func MatchRegion(platform string) (string, bool) {
	region, ok := platformRegions[NormalizePlatform(platform)]
	return region, ok
}

// AccountRegion is the regional cluster serving account-v1. The account
// service has no sea cluster, so those platforms resolve to asia.
func AccountRegion(platform string) (string, bool) {
	region, ok := MatchRegion(platform)
	if !ok {
		return "", false
	}
	if region == RegionSEA {
		return RegionAsia, true
	}
	return region, true
}
