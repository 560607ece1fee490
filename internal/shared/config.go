package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// source datasets
	BookingsCSV   string
	CountriesGeo  string
	ContinentsCSV string

	// pipeline parameters
	HomeCountry    string
	CountryAliases map[string]string
	MinGroupSize   int
	ShareFloorPct  float64
	TopN           int
	FramesPerSec   float64

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		BookingsCSV:    env("BOOKINGS_CSV", "resources/clean_hotel_data.csv"),
		CountriesGeo:   env("COUNTRIES_GEOJSON", "resources/ne_10m_admin_0_countries.geojson"),
		ContinentsCSV:  env("CONTINENTS_CSV", "resources/countries_with_continents.csv"),
		HomeCountry:    env("HOME_COUNTRY", "PRT"),
		CountryAliases: parseAliases(env("COUNTRY_ALIASES", "CN=CHN")),
		MinGroupSize:   atoi("MIN_GROUP_SIZE", 5),
		ShareFloorPct:  atof("SHARE_FLOOR_PCT", 0.8),
		TopN:           atoi("TOP_N", 5),
		FramesPerSec:   atof("PLAYBACK_FPS", 10),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.HomeCountry == "" {
		log.Warn().Msg("HOME_COUNTRY is empty; every booking will classify as international")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// parseAliases reads "FROM=TO,FROM=TO" pairs. The alias table maps
// non-standard country codes in the booking data onto the codes the geo
// source uses, so new anomalies are fixable without a code change.
func parseAliases(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		from, to, ok := strings.Cut(pair, "=")
		if !ok {
			log.Warn().Str("pair", pair).Msg("ignoring malformed country alias")
			continue
		}
		out[strings.TrimSpace(from)] = strings.TrimSpace(to)
	}
	return out
}
