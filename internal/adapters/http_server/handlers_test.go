package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	server "github.com/JMuoc/DatavizPAC3/internal/adapters/http_server"
	"github.com/JMuoc/DatavizPAC3/internal/app"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func testDataset() *domain.Dataset {
	mk := func(date, code, name, cont string, adr float64, class string) domain.Booking {
		d := day(date)
		return domain.Booking{
			ArrivalDate: d, ArrivalYear: d.Year(), ArrivalMonth: int(d.Month()), ArrivalDay: d.Day(),
			CountryCode: code, ADR: adr, Class: class,
			CountryName: ptr(name), Coords: &domain.Coords{Lat: 1, Lon: 2}, Continent: ptr(cont),
		}
	}
	bs := []domain.Booking{
		mk("2017-01-05", "PRT", "Portugal", "Europe", 80, domain.ClassDomestic),
		mk("2017-01-15", "CHN", "China", "Asia", 120, domain.ClassInternational),
	}
	return &domain.Dataset{
		Bookings:  bs,
		RawRows:   len(bs),
		Dates:     []time.Time{day("2017-01-05"), day("2017-01-15")},
		FirstDate: day("2017-01-05"),
		LastDate:  day("2017-01-15"),
	}
}

func newTestServer() *httptest.Server {
	q := app.NewQueryService(testDataset(), nil, 0)
	story := app.NewStoryService(q, 0.8, 5, 0)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Q: q, Story: story,
		ShareFloorPct: 0.8, TopN: 5, MinGroup: 0, FramesPerSec: 0,
	})
	return httptest.NewServer(srv.Mux())
}

func TestHealthz(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestClassShare_DefaultsToLatestYear(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/charts/class-share")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var share map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&share); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if share[domain.ClassDomestic] != 50 || share[domain.ClassInternational] != 50 {
		t.Fatalf("unexpected share: %+v", share)
	}
}

func TestClassShare_BadYear(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/charts/class-share?year=nineteen")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestSnapshot_RequiresDate(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for _, q := range []string{"", "?date=2017/01/05"} {
		resp, err := http.Get(ts.URL + "/v1/map/snapshot" + q)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("query %q: status %d", q, resp.StatusCode)
		}
	}
}

func TestSnapshot_OK(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/map/snapshot?date=2017-01-15")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Points) != 2 {
		t.Fatalf("points: %+v", snap.Points)
	}
}

func TestETag_NotModified(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/summary")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/summary", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("status: %d", resp2.StatusCode)
	}
}

func TestMapFrames_StreamsNDJSON(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/map/frames")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
		t.Fatalf("content type: %q", ct)
	}

	dec := json.NewDecoder(resp.Body)
	var frames []domain.Snapshot
	for dec.More() {
		var f domain.Snapshot
		if err := dec.Decode(&f); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		frames = append(frames, f)
	}
	if len(frames) != 2 {
		t.Fatalf("expected one frame per distinct date, got %d", len(frames))
	}
	if !frames[0].AsOf.Before(frames[1].AsOf) {
		t.Fatalf("frames out of order: %+v", frames)
	}
}

func TestStoryEndpoint(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/story")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var st app.Story
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(st.Sections) != 3 || !strings.Contains(st.Sections[0].Heading, "2017") {
		t.Fatalf("unexpected story: %+v", st)
	}
}
