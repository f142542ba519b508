package timemath

import (
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo
)

var (
	zoneMu    sync.Mutex
	zoneCache = map[string]*time.Location{}
)

// LoadZone resolves an IANA zone name. The empty string and "UTC" resolve
// to time.UTC. "Local" is rejected because it is not portable between
// machines.
func LoadZone(zone string) (*time.Location, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" || zone == "UTC" {
		return time.UTC, nil
	}
	if zone == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}

	zoneMu.Lock()
	defer zoneMu.Unlock()

	if loc, ok := zoneCache[zone]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}
	zoneCache[zone] = loc
	return loc, nil
}

// ToZoned returns t expressed in the named zone.
func ToZoned(t time.Time, zone string) (time.Time, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// ValidZone reports whether zone resolves.
func ValidZone(zone string) bool {
	_, err := LoadZone(zone)
	return err == nil
}
