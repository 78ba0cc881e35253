// Package tesstime converts TESS mission times (BTJD) to and from calendar time.
// Conversions treat BJD as a plain Julian Date: the barycentric correction and
// the TDB-UTC offset (about a minute) are not applied, which is well below the
// precision of a transit epoch taken from a period search.
package tesstime

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// BTJDOffset is subtracted from BJD to give the TESS Barycentric Julian Date
const BTJDOffset = 2457000.0

// ToJD returns the Julian Date for a BTJD value
func ToJD(btjd float64) float64 {
	return btjd + BTJDOffset
}

// FromJD returns the BTJD value for a Julian Date
func FromJD(jd float64) float64 {
	return jd - BTJDOffset
}

// ToTime converts a BTJD value to UTC
func ToTime(btjd float64) time.Time {
	return julian.JDToTime(ToJD(btjd)).UTC()
}

// FromTime converts a calendar time to BTJD
func FromTime(t time.Time) float64 {
	return FromJD(julian.TimeToJD(t.UTC()))
}
