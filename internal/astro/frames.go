package astro

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Obliquity is the Earth's axial tilt (J2000 epoch) in radians.
const Obliquity = 23.439291 * math.Pi / 180

// Equatorial returns the unit vector for a right ascension and declination
// in the equatorial frame: X toward the vernal equinox, Z toward the north
// celestial pole.
func Equatorial(raDeg, decDeg float64) mgl64.Vec3 {
	ra := mgl64.DegToRad(raDeg)
	dec := mgl64.DegToRad(decDeg)
	return mgl64.Vec3{
		math.Cos(dec) * math.Cos(ra),
		math.Cos(dec) * math.Sin(ra),
		math.Sin(dec),
	}
}

// EquatorialToEcliptic converts equatorial XYZ to ecliptic XYZ.
// Input is in any units; output is in the same units.
func EquatorialToEcliptic(eq mgl64.Vec3) mgl64.Vec3 {
	// Rotation matrix around X-axis by obliquity
	cosE := math.Cos(Obliquity)
	sinE := math.Sin(Obliquity)

	return mgl64.Vec3{
		eq[0],
		eq[1]*cosE + eq[2]*sinE,
		-eq[1]*sinE + eq[2]*cosE,
	}
}

// EclipticToScene maps ecliptic XYZ into the Y-up scene, whose orbital plane
// is XZ: ecliptic north becomes +Y.
func EclipticToScene(ecl mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{ecl[0], ecl[2], -ecl[1]}
}
