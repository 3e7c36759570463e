package schedule

import "fmt"

// Profile is the day/night brightness pair applicable to one monitor in one
// season. Values are percentages; night <= day is expected but not enforced,
// an inverted profile simply produces an inverted ramp.
type Profile struct {
	Day   float64
	Night float64
}

// SeasonalProfile holds one Profile per season. A nil season slot means the
// configuration never defined it.
type SeasonalProfile struct {
	Summer *Profile
	Winter *Profile
}

// forSeason returns the profile for the given season, or nil if undefined.
func (sp SeasonalProfile) forSeason(season Season) *Profile {
	switch season {
	case SeasonWinter:
		return sp.Winter
	default:
		return sp.Summer
	}
}

// ProfileTable maps a display serial number to its seasonal profiles.
// The serial is the identifying key; the display model plays no part in
// matching.
type ProfileTable map[string]SeasonalProfile

// ResolveProfile selects the brightness profile for a monitor.
//
// Lookup is by serial only. A serial with no table entry resolves to the
// default profile for the season, which is not an error. A serial with an
// entry that lacks the resolved season's sub-profile is a configuration
// error (ErrMissingSeasonProfile): per-monitor overrides must be complete
// for both seasons, and that requirement is also enforced at config load
// time, so hitting the error here means the table was built by hand.
//
// Parameters:
//   - serial: The display serial number
//   - season: The resolved season
//   - table: Per-monitor overrides keyed by serial
//   - def: The default seasonal profile, assumed complete
//
// Returns:
//   - Profile: The day/night pair to feed the curve
//   - error: ErrMissingSeasonProfile when an override exists but is partial
func ResolveProfile(serial string, season Season, table ProfileTable, def SeasonalProfile) (Profile, error) {
	if entry, ok := table[serial]; ok {
		p := entry.forSeason(season)
		if p == nil {
			return Profile{}, fmt.Errorf("%w: monitor %q has no %s profile",
				ErrMissingSeasonProfile, serial, season)
		}
		return *p, nil
	}

	p := def.forSeason(season)
	if p == nil {
		return Profile{}, fmt.Errorf("%w: default has no %s profile",
			ErrMissingSeasonProfile, season)
	}
	return *p, nil
}
