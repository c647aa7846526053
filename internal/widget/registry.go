package widget

import (
	"context"
	"log"
	"time"

	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/fetch"
	"github.com/wojo-o/inker-sub001/internal/secret"
)

// Resolver supplies pre-rendered content for custom widgets.
type Resolver interface {
	GetRenderedContent(ctx context.Context, customWidgetID string) (domain.CustomContent, error)
}

// LookupTTL is how long external lookup results (GitHub stars) stay fresh.
const LookupTTL = 5 * time.Minute

// Registry holds the collaborators shared by all widget generators and
// dispatches on widget kind.
type Registry struct {
	fetcher  fetch.Fetcher
	resolver Resolver
	secrets  secret.SecretStore
	lookups  *cache.TTLCache

	defaultZone *time.Location
	now         func() time.Time // injectable for tests
}

// NewRegistry creates a Registry. lookups may be shared with the
// scheduler for periodic sweeping; pass nil to let the registry own one.
func NewRegistry(fetcher fetch.Fetcher, resolver Resolver, secrets secret.SecretStore, lookups *cache.TTLCache, defaultZone *time.Location) *Registry {
	if lookups == nil {
		lookups = cache.NewTTL(LookupTTL)
	}
	return &Registry{
		fetcher:     fetcher,
		resolver:    resolver,
		secrets:     secrets,
		lookups:     lookups,
		defaultZone: defaultZone,
		now:         time.Now,
	}
}

// Generate produces the fragment for one widget. Generator failures are
// logged and degraded to a placeholder; they never propagate.
func (r *Registry) Generate(ctx context.Context, w domain.Widget, dev *domain.DeviceContext) Fragment {
	frag, err := r.generate(ctx, w, dev)
	if err != nil {
		log.Printf("widget: %s %s degraded to placeholder: %v", w.Kind, w.ID, err)
		return placeholderFragment(string(w.Kind))
	}
	return frag
}

func (r *Registry) generate(ctx context.Context, w domain.Widget, dev *domain.DeviceContext) (Fragment, error) {
	switch w.Kind {
	case domain.KindClock:
		return r.clock(w), nil
	case domain.KindDate:
		return r.date(w), nil
	case domain.KindWeather:
		return r.weather(ctx, w), nil
	case domain.KindQRCode:
		return r.qrcode(w)
	case domain.KindBattery:
		return r.battery(w, dev), nil
	case domain.KindWiFi:
		return r.wifi(w, dev), nil
	case domain.KindDeviceInfo:
		return r.deviceInfo(w, dev), nil
	case domain.KindImage:
		return r.image(ctx, w), nil
	case domain.KindCountdown:
		return r.countdown(w), nil
	case domain.KindDaysUntil:
		return r.daysUntil(w), nil
	case domain.KindDivider:
		return r.divider(w), nil
	case domain.KindRectangle:
		return r.rectangle(w), nil
	case domain.KindGitHub:
		return r.github(ctx, w), nil
	case domain.KindCustom:
		return r.custom(ctx, w)
	default:
		return placeholderFragment(string(w.Kind)), nil
	}
}

// zone resolves the effective time zone: explicit config zone, else the
// process-wide default, else UTC. Unrecognized names fall back silently.
func (r *Registry) zone(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if r.defaultZone != nil {
		return r.defaultZone
	}
	return time.UTC
}
