package token

// UnitKind is the suffix family fused onto a numeric literal by the lexer.
type UnitKind uint8

const (
	UnitNone UnitKind = iota
	UnitSeconds
	UnitMinutes
	UnitHours
	UnitDays
	UnitDegrees
	UnitRadians
	UnitCelsius
	UnitFahrenheit
	UnitKelvin
)

func (u UnitKind) String() string {
	switch u {
	case UnitSeconds:
		return "s"
	case UnitMinutes:
		return "min"
	case UnitHours:
		return "h"
	case UnitDays:
		return "d"
	case UnitDegrees:
		return "deg"
	case UnitRadians:
		return "rad"
	case UnitCelsius:
		return "c"
	case UnitFahrenheit:
		return "f"
	case UnitKelvin:
		return "k"
	default:
		return "none"
	}
}

// Family identifies the quantity family a unit belongs to.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyDuration
	FamilyAngle
	FamilyTemperature
)

// Family reports which semantic quantity family the unit belongs to.
func (u UnitKind) Family() Family {
	switch u {
	case UnitSeconds, UnitMinutes, UnitHours, UnitDays:
		return FamilyDuration
	case UnitDegrees, UnitRadians:
		return FamilyAngle
	case UnitCelsius, UnitFahrenheit, UnitKelvin:
		return FamilyTemperature
	default:
		return FamilyNone
	}
}

// UnitSuffixes maps every known unit suffix spelling to its Kind, both the
// short and long forms. Lexer lookup tries the longest match first
// (UnitSuffixMaxLen covers "fahrenheit").
var UnitSuffixes = map[string]UnitKind{
	"s":          UnitSeconds,
	"seconds":    UnitSeconds,
	"min":        UnitMinutes,
	"minutes":    UnitMinutes,
	"h":          UnitHours,
	"hours":      UnitHours,
	"d":          UnitDays,
	"days":       UnitDays,
	"deg":        UnitDegrees,
	"degrees":    UnitDegrees,
	"rad":        UnitRadians,
	"radians":    UnitRadians,
	"c":          UnitCelsius,
	"celsius":    UnitCelsius,
	"f":          UnitFahrenheit,
	"fahrenheit": UnitFahrenheit,
	"k":          UnitKelvin,
	"kelvin":     UnitKelvin,
}

// UnitSuffixMaxLen is the length in bytes of the longest known unit suffix.
const UnitSuffixMaxLen = 10
