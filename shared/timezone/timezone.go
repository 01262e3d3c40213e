// Package timezone pins every wall-clock decision (today's date, the night
// boundaries of a stay, rendered timestamps) to the zone named by APP_TIMEZONE.
// Sites operate on Indian Standard Time, so that is the default.
package timezone

import (
	"sync"
	"time"

	"sporti/config"

	"github.com/rs/zerolog/log"
)

const DefaultZone = "Asia/Kolkata"

var (
	once     sync.Once
	mu       sync.RWMutex
	location *time.Location
)

func load() {
	name := config.Get().App.Timezone
	if name == "" {
		name = DefaultZone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		loc = time.UTC
	}

	mu.Lock()
	if location == nil {
		location = loc
	}
	mu.Unlock()

	log.Debug().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// GetLocation returns the application zone, loading it on first use.
func GetLocation() *time.Location {
	once.Do(load)

	mu.RLock()
	defer mu.RUnlock()

	return location
}

// SetLocation overrides the application zone. Tests use it to pin the clock's zone.
func SetLocation(loc *time.Location) {
	once.Do(func() {})

	mu.Lock()
	location = loc
	mu.Unlock()
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// StartOfDay is local midnight of the calendar day t falls on.
func StartOfDay(t time.Time) time.Time {
	t = ToAppTime(t)

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Parse reads value as a wall-clock time in the application zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
