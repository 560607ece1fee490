package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

/********** column alias registries (single source of truth) **********/

var bookingAliases = map[string][]string{
	"year":    {"arrival_date_year", "year"},
	"month":   {"arrival_date_month", "month"},
	"day":     {"arrival_date_day_of_month", "day_of_month", "day"},
	"country": {"country", "country_code", "origin"},
	"adr":     {"adr", "average_daily_rate"},
}

var continentAliases = map[string][]string{
	"country":   {"country", "country_name", "name"},
	"continent": {"continent", "region"},
}

// placeholders the booking data uses for a missing country code
var nullCodes = map[string]bool{"": true, "NULL": true, "NA": true, "NAN": true}

/********** tiny helpers **********/

func firstIntFlexible(m map[string]interface{}, paths ...string) (int, bool) {
	for _, k := range paths {
		switch v := m[k].(type) {
		case int:
			return v, true
		case float64:
			return int(v), true
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func firstFloatFlexible(m map[string]interface{}, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func firstStrFlexible(m map[string]interface{}, paths ...string) (string, bool) {
	for _, k := range paths {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		case int:
			return strconv.Itoa(v), true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

// monthNumber accepts numeric months and English month names; some exports
// of the booking data carry "July" instead of 7.
func monthNumber(m map[string]interface{}) (int, bool) {
	if n, ok := firstIntFlexible(m, bookingAliases["month"]...); ok {
		return n, true
	}
	if s, ok := firstStrFlexible(m, bookingAliases["month"]...); ok {
		names := []string{"january", "february", "march", "april", "may", "june",
			"july", "august", "september", "october", "november", "december"}
		low := strings.ToLower(s)
		for i, name := range names {
			if low == name || low == name[:3] {
				return i + 1, true
			}
		}
	}
	return 0, false
}

/********** booking mapper **********/

func mapBookings(rows []map[string]interface{}) ([]RawBooking, error) {
	out := make([]RawBooking, 0, len(rows))
	for i, r := range rows {
		year, okY := firstIntFlexible(r, bookingAliases["year"]...)
		month, okM := monthNumber(r)
		day, okD := firstIntFlexible(r, bookingAliases["day"]...)
		if !okY || !okM || !okD {
			return nil, fmt.Errorf("row %d: missing arrival date columns", i)
		}

		code := ""
		if s, ok := firstStrFlexible(r, bookingAliases["country"]...); ok {
			code = strings.ToUpper(strings.TrimSpace(s))
		}
		if nullCodes[code] {
			code = ""
		}

		adr, _ := firstFloatFlexible(r, bookingAliases["adr"]...)

		out = append(out, RawBooking{
			Year:    year,
			Month:   month,
			Day:     day,
			Country: code,
			ADR:     adr,
		})
	}
	return out, nil
}

/********** continent mapper **********/

func mapContinents(rows []map[string]interface{}) (domain.ContinentLookup, error) {
	lookup := make(domain.ContinentLookup, len(rows))
	for i, r := range rows {
		name, okN := firstStrFlexible(r, continentAliases["country"]...)
		cont, okC := firstStrFlexible(r, continentAliases["continent"]...)
		if !okN || !okC {
			return nil, fmt.Errorf("row %d: missing country or continent column", i)
		}
		lookup[name] = cont
	}
	if len(lookup) == 0 {
		return nil, fmt.Errorf("continent lookup is empty")
	}
	return lookup, nil
}
