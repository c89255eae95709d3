package domain

// Class is an earthquake-size band derived from magnitude.
type Class string

const (
	ClassMinor    Class = "minor"
	ClassLight    Class = "light"
	ClassModerate Class = "moderate"
	ClassStrong   Class = "strong"
	ClassMajor    Class = "major"
)

// missingMagnitude is the cutoff for sentinel "not measured" values.
// GSI historical exports encode absent scales as large negatives (-999).
const missingMagnitude = -900.0

// classScale defines the ordered taxonomy. Each band is half-open and
// lower-inclusive: [Min, next Min), with the last band unbounded above.
var classScale = []struct {
	Class Class
	Min   float64
}{
	{ClassMinor, 0.0},
	{ClassLight, 3.0},
	{ClassModerate, 4.0},
	{ClassStrong, 5.0},
	{ClassMajor, 6.0},
}

// Classes returns the taxonomy in ascending order, for UI checkbox layout
// and deterministic iteration.
func Classes() []Class {
	out := make([]Class, len(classScale))
	for i, b := range classScale {
		out[i] = b.Class
	}
	return out
}

// ClassifyMagnitude maps a magnitude to exactly one class. A boundary value
// belongs to the upper band (4.0 is moderate, not light). Values below the
// scale, including the unmeasured 0 default, land in the lowest band.
func ClassifyMagnitude(m float64) Class {
	for i := len(classScale) - 1; i >= 0; i-- {
		if m >= classScale[i].Min {
			return classScale[i].Class
		}
	}
	return classScale[0].Class
}
