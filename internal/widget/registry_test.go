package widget

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Widget generator tests (fixed clock, scripted fetcher)
// ─────────────────────────────────────────────────────────────

// fakeFetcher returns canned bodies per URL substring, or fails.
type fakeFetcher struct {
	responses map[string]string // URL substring → body
	calls     int
	failAfter int // fail once calls exceed this; 0 = never fail
}

func (f *fakeFetcher) Get(_ context.Context, url string, _ map[string]string) ([]byte, error) {
	f.calls++
	if f.failAfter > 0 && f.calls > f.failAfter {
		return nil, fmt.Errorf("scripted failure for %s", url)
	}
	for sub, body := range f.responses {
		if strings.Contains(url, sub) {
			return []byte(body), nil
		}
	}
	return nil, fmt.Errorf("no scripted response for %s", url)
}

type fakeResolver struct {
	content domain.CustomContent
	err     error
}

func (r *fakeResolver) GetRenderedContent(context.Context, string) (domain.CustomContent, error) {
	return r.content, r.err
}

func testRegistry(f *fakeFetcher, res Resolver) *Registry {
	r := NewRegistry(f, res, nil, nil, time.UTC)
	r.now = func() time.Time {
		return time.Date(2026, 3, 14, 13, 45, 30, 0, time.UTC)
	}
	return r
}

func TestClock_FormatsFixedTime(t *testing.T) {
	r := testRegistry(nil, nil)

	frag := r.clock(domain.Widget{Kind: domain.KindClock})
	if !strings.Contains(frag.HTML, "13:45") {
		t.Errorf("default layout: got %q, want to contain 13:45", frag.HTML)
	}

	frag = r.clock(domain.Widget{Kind: domain.KindClock, Config: `{"showSeconds":true}`})
	if !strings.Contains(frag.HTML, "13:45:30") {
		t.Errorf("seconds layout: got %q, want to contain 13:45:30", frag.HTML)
	}
}

func TestDate_DefaultFormat(t *testing.T) {
	r := testRegistry(nil, nil)
	frag := r.date(domain.Widget{Kind: domain.KindDate})
	if !strings.Contains(frag.HTML, "Saturday, March 14") {
		t.Errorf("got %q, want the default long date", frag.HTML)
	}
}

func TestZone_FallbackChain(t *testing.T) {
	r := testRegistry(nil, nil)
	if got := r.zone("definitely/not-a-zone"); got != time.UTC {
		t.Errorf("bad zone name must fall back to the default, got %v", got)
	}
	if got := r.zone(""); got != time.UTC {
		t.Errorf("empty zone must use the default, got %v", got)
	}
}

func TestWeather_UnavailableFallback(t *testing.T) {
	r := testRegistry(&fakeFetcher{}, nil) // no scripted responses: fetch fails
	frag := r.weather(context.Background(), domain.Widget{
		Kind:   domain.KindWeather,
		Config: `{"location":"Berlin"}`,
	})
	if !strings.Contains(frag.HTML, "Berlin") || !strings.Contains(frag.HTML, "unavailable") {
		t.Errorf("got %q, want location with unavailable marker", frag.HTML)
	}
}

func TestWeather_BucketIndexing(t *testing.T) {
	// dayOffset 1 at "noon" indexes hour 36 of the hourly arrays.
	temps := make([]string, 48)
	codes := make([]string, 48)
	for i := range temps {
		temps[i] = "0"
		codes[i] = "3"
	}
	temps[36] = "21"
	codes[36] = "0"
	body := fmt.Sprintf(
		`{"current_weather":{"temperature":-5,"weathercode":95},"hourly":{"temperature_2m":[%s],"weather_code":[%s]}}`,
		strings.Join(temps, ","), strings.Join(codes, ","))

	r := testRegistry(&fakeFetcher{responses: map[string]string{"open-meteo": body}}, nil)
	frag := r.weather(context.Background(), domain.Widget{
		Kind:   domain.KindWeather,
		Config: `{"location":"Oslo","dayOffset":1,"timeOfDay":"noon"}`,
	})
	if !strings.Contains(frag.HTML, "21&deg;") {
		t.Errorf("got %q, want the hour-36 temperature", frag.HTML)
	}
	if !strings.Contains(frag.HTML, "Clear") {
		t.Errorf("got %q, want the hour-36 weather description", frag.HTML)
	}
}

func TestWeather_NegativeDayOffsetClampedToToday(t *testing.T) {
	// an out-of-range offset in the open config map must not index
	// before the hourly arrays; it clamps to today's bucket
	temps := make([]string, 24)
	codes := make([]string, 24)
	for i := range temps {
		temps[i] = "0"
		codes[i] = "3"
	}
	temps[12] = "17"
	codes[12] = "0"
	body := fmt.Sprintf(
		`{"current_weather":{"temperature":-5,"weathercode":95},"hourly":{"temperature_2m":[%s],"weather_code":[%s]}}`,
		strings.Join(temps, ","), strings.Join(codes, ","))

	r := testRegistry(&fakeFetcher{responses: map[string]string{"open-meteo": body}}, nil)
	frag := r.Generate(context.Background(), domain.Widget{
		ID:     "w1",
		Kind:   domain.KindWeather,
		Config: `{"location":"Oslo","dayOffset":-1,"timeOfDay":"noon"}`,
	}, nil)
	if !strings.Contains(frag.HTML, "17&deg;") {
		t.Errorf("got %q, want today's noon temperature", frag.HTML)
	}
}

func TestGitHub_CachesAndServesStale(t *testing.T) {
	f := &fakeFetcher{
		responses: map[string]string{"api.github.com/repos/acme/widgets": `{"stargazers_count":1500}`},
		failAfter: 1, // only the first lookup succeeds
	}
	r := testRegistry(f, nil)
	// negative TTL: entries expire immediately, exercising the stale path
	r.lookups = cache.NewTTL(-time.Second)

	w := domain.Widget{Kind: domain.KindGitHub, Config: `{"repo":"acme/widgets"}`}

	frag := r.github(context.Background(), w)
	if !strings.Contains(frag.HTML, "★ 1.5k") {
		t.Fatalf("first lookup: got %q, want formatted star count", frag.HTML)
	}

	frag = r.github(context.Background(), w)
	if !strings.Contains(frag.HTML, "★ 1.5k") {
		t.Errorf("failed refresh: got %q, want stale cached count", frag.HTML)
	}
	if f.calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", f.calls)
	}
}

func TestGitHub_InvalidRepoPlaceholder(t *testing.T) {
	r := testRegistry(nil, nil)
	frag := r.github(context.Background(), domain.Widget{Kind: domain.KindGitHub, Config: `{"repo":"no-slash"}`})
	if !strings.Contains(frag.HTML, "w-placeholder") {
		t.Errorf("got %q, want placeholder for malformed repo", frag.HTML)
	}
}

func TestCountdown_Expired(t *testing.T) {
	r := testRegistry(nil, nil)
	frag := r.countdown(domain.Widget{
		Kind:   domain.KindCountdown,
		Config: `{"target":"2020-01-01","label":"launch"}`,
	})
	if !strings.Contains(frag.HTML, "expired") {
		t.Errorf("got %q, want expired marker for past target", frag.HTML)
	}
}

func TestCountdown_DaysAndHours(t *testing.T) {
	r := testRegistry(nil, nil)
	// fixed now is 2026-03-14 13:45:30 UTC, so 49h59m30s remain
	frag := r.countdown(domain.Widget{
		Kind:   domain.KindCountdown,
		Config: `{"target":"2026-03-16T15:45"}`,
	})
	if !strings.Contains(frag.HTML, "2d 1h") {
		t.Errorf("got %q, want 2d 1h", frag.HTML)
	}
}

func TestDaysUntil_PastAndFuture(t *testing.T) {
	r := testRegistry(nil, nil)

	frag := r.daysUntil(domain.Widget{Kind: domain.KindDaysUntil, Config: `{"target":"2026-03-17"}`})
	if !strings.Contains(frag.HTML, "3 days") {
		t.Errorf("future: got %q, want 3 days", frag.HTML)
	}

	frag = r.daysUntil(domain.Widget{Kind: domain.KindDaysUntil, Config: `{"target":"2026-03-11"}`})
	if !strings.Contains(frag.HTML, "3 days ago") {
		t.Errorf("past: got %q, want 3 days ago", frag.HTML)
	}
}

func TestBattery_MissingStateShowsPlaceholderValue(t *testing.T) {
	r := testRegistry(nil, nil)
	frag := r.battery(domain.Widget{Kind: domain.KindBattery}, nil)
	if !strings.Contains(frag.HTML, "--%") {
		t.Errorf("got %q, want --%% without device context", frag.HTML)
	}

	pct := 85
	frag = r.battery(domain.Widget{Kind: domain.KindBattery}, &domain.DeviceContext{Battery: &pct})
	if !strings.Contains(frag.HTML, "85%") {
		t.Errorf("got %q, want the battery percentage", frag.HTML)
	}
}

func TestGenerate_FailureDegradesToPlaceholder(t *testing.T) {
	r := testRegistry(nil, nil)
	// qrcode with no content is a generator error
	frag := r.Generate(context.Background(), domain.Widget{ID: "w1", Kind: domain.KindQRCode}, nil)
	if !strings.Contains(frag.HTML, "w-placeholder") {
		t.Errorf("got %q, want placeholder fragment", frag.HTML)
	}
}

func TestCustom_ResolverErrorDegradesToPlaceholder(t *testing.T) {
	r := testRegistry(nil, &fakeResolver{err: fmt.Errorf("gone")})
	frag := r.Generate(context.Background(), domain.Widget{
		ID:     "w1",
		Kind:   domain.KindCustom,
		Config: `{"widgetId":"cw-1"}`,
	}, nil)
	if !strings.Contains(frag.HTML, "w-placeholder") {
		t.Errorf("got %q, want placeholder when resolver fails", frag.HTML)
	}
}

func TestCustom_ContentShapes(t *testing.T) {
	w := domain.Widget{ID: "w1", Kind: domain.KindCustom, Config: `{"widgetId":"cw-1"}`}

	r := testRegistry(nil, &fakeResolver{content: domain.CustomContent{Text: "hello"}})
	frag := r.Generate(context.Background(), w, nil)
	if !strings.Contains(frag.HTML, "hello") {
		t.Errorf("text shape: got %q", frag.HTML)
	}

	r = testRegistry(nil, &fakeResolver{content: domain.CustomContent{List: []string{"a", "b"}}})
	frag = r.Generate(context.Background(), w, nil)
	if !strings.Contains(frag.HTML, "<ul") || !strings.Contains(frag.HTML, "<li") {
		t.Errorf("list shape: got %q", frag.HTML)
	}

	r = testRegistry(nil, &fakeResolver{content: domain.CustomContent{
		Grid: &domain.Grid{Cols: 2, Cells: []domain.GridCell{
			{Row: 0, Col: 0, Label: "CPU", Value: "42%"},
			{Row: 0, Col: 1, Label: "RAM", Value: "71%"},
		}},
	}})
	frag = r.Generate(context.Background(), w, nil)
	if !strings.Contains(frag.HTML, "w-grid") || !strings.Contains(frag.HTML, "CPU") {
		t.Errorf("grid shape: got %q", frag.HTML)
	}
}

func TestCustom_GridImageCellFallsBackToPlaceholder(t *testing.T) {
	// the image cell's source is unreachable; it renders a placeholder
	// tile while the sibling cell is unaffected
	r := testRegistry(&fakeFetcher{}, &fakeResolver{content: domain.CustomContent{
		Grid: &domain.Grid{Cols: 2, Cells: []domain.GridCell{
			{Row: 0, Col: 0, Field: "cover", FieldType: "image", Label: "Cover", Value: "https://example.invalid/cover.png"},
			{Row: 0, Col: 1, Label: "Pages", Value: "312"},
		}},
	}})
	frag := r.Generate(context.Background(), domain.Widget{
		ID:     "w1",
		Kind:   domain.KindCustom,
		Config: `{"widgetId":"cw-1"}`,
	}, nil)

	if !strings.Contains(frag.HTML, `src="data:image/png;base64,`) {
		t.Errorf("got %q, want an inlined placeholder tile for the failed image", frag.HTML)
	}
	if !strings.Contains(frag.HTML, "Cover") {
		t.Errorf("got %q, want the image cell's label preserved", frag.HTML)
	}
	if !strings.Contains(frag.HTML, "Pages") || !strings.Contains(frag.HTML, "312") {
		t.Errorf("got %q, want the sibling cell rendered normally", frag.HTML)
	}
}
