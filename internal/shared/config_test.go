package shared_test

import (
	"testing"

	"github.com/JMuoc/DatavizPAC3/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := shared.Load()

	if cfg.HomeCountry != "PRT" {
		t.Fatalf("home country: %q", cfg.HomeCountry)
	}
	if cfg.MinGroupSize != 5 || cfg.TopN != 5 {
		t.Fatalf("group/topn defaults: %+v", cfg)
	}
	if cfg.CountryAliases["CN"] != "CHN" {
		t.Fatalf("default alias missing: %+v", cfg.CountryAliases)
	}
}

func TestLoad_AliasOverride(t *testing.T) {
	t.Setenv("COUNTRY_ALIASES", "CN=CHN, UK = GBR,broken")

	cfg := shared.Load()
	if cfg.CountryAliases["CN"] != "CHN" || cfg.CountryAliases["UK"] != "GBR" {
		t.Fatalf("aliases: %+v", cfg.CountryAliases)
	}
	if _, ok := cfg.CountryAliases["broken"]; ok {
		t.Fatalf("malformed pair should be skipped: %+v", cfg.CountryAliases)
	}
}
