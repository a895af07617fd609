package astro

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const obliquityDeg = 23.439291

func vecNear(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}

func TestEquatorial(t *testing.T) {
	tests := []struct {
		name    string
		ra, dec float64
		want    mgl64.Vec3
	}{
		{"equinox", 0, 0, mgl64.Vec3{1, 0, 0}},
		{"RA 90", 90, 0, mgl64.Vec3{0, 1, 0}},
		{"RA 180", 180, 0, mgl64.Vec3{-1, 0, 0}},
		{"north pole", 0, 90, mgl64.Vec3{0, 0, 1}},
		{"south pole", 0, -90, mgl64.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equatorial(tt.ra, tt.dec); !vecNear(got, tt.want) {
				t.Errorf("Equatorial(%v, %v) = %v, want %v", tt.ra, tt.dec, got, tt.want)
			}
		})
	}
}

func TestEquatorialToEcliptic_PreservesLength(t *testing.T) {
	vectors := []mgl64.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0.3, -0.7, 0.2},
		{-1.5e8, 2.1e7, 4.4e6},
	}

	for _, v := range vectors {
		ecl := EquatorialToEcliptic(v)
		if math.Abs(ecl.Len()-v.Len()) > 1e-9*math.Max(1, v.Len()) {
			t.Errorf("rotation changed length of %v: %v", v, ecl.Len())
		}
		if ecl[0] != v[0] {
			t.Errorf("rotation about X changed x of %v: %v", v, ecl[0])
		}
	}
}

func TestEquatorialToEcliptic_Poles(t *testing.T) {
	// The ecliptic pole sits at RA 18h, Dec 90° - obliquity.
	pole := Equatorial(270, 90-obliquityDeg)
	if got := EquatorialToEcliptic(pole); !vecNear(got, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("ecliptic pole = %v, want (0, 0, 1)", got)
	}

	// The celestial pole is tilted by the obliquity.
	ncp := EquatorialToEcliptic(mgl64.Vec3{0, 0, 1})
	lat := mgl64.RadToDeg(math.Asin(ncp[2]))
	if math.Abs(lat-(90-obliquityDeg)) > 1e-9 {
		t.Errorf("celestial pole latitude = %v, want %v", lat, 90-obliquityDeg)
	}
}

func TestEclipticToScene(t *testing.T) {
	tests := []struct {
		name string
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{"equinox", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{"north", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}},
		{"ecliptic Y", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EclipticToScene(tt.in); !vecNear(got, tt.want) {
				t.Errorf("EclipticToScene(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
