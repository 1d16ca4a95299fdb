package lolmatch

import "testing"

func TestPlatformFromKey(t *testing.T) {
	cases := map[string]string{
		"EUW1_6912345678": "EUW1",
		"kr_123":          "KR",
		"6912345678":      "",
		"_123":            "",
	}
	for key, want := range cases {
		if got := PlatformFromKey(key); got != want {
			t.Fatalf("PlatformFromKey(%q)=%q want %q", key, got, want)
		}
	}
}

func TestVersionMajorMinor(t *testing.T) {
	if got := VersionMajorMinor("14.3.567.1234"); got != "14.3" {
		t.Fatalf("unexpected version %q", got)
	}
	if got := VersionMajorMinor("14"); got != "14" {
		t.Fatalf("unexpected short version %q", got)
	}
	if got := VersionMajorMinor(""); got != "" {
		t.Fatalf("expected empty version, got %q", got)
	}
}

func TestRegions(t *testing.T) {
	if region, ok := MatchRegion("euw1"); !ok || region != RegionEurope {
		t.Fatalf("unexpected euw1 region %q %v", region, ok)
	}
	if region, ok := MatchRegion("VN2"); !ok || region != RegionSEA {
		t.Fatalf("unexpected vn2 match region %q", region)
	}
	if region, ok := AccountRegion("VN2"); !ok || region != RegionAsia {
		t.Fatalf("unexpected vn2 account region %q", region)
	}
	if _, ok := MatchRegion("XX9"); ok {
		t.Fatalf("expected unknown platform")
	}
	if IsTerminal(StatusStub) || !IsTerminal(StatusTrashed) {
		t.Fatalf("unexpected terminal status result")
	}
}
