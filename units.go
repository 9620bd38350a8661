package main

// Height and weight conversions between metric and imperial inputs. All
// functions are pure and keep full float precision — rounding happens only at
// the presentation boundary, never here.

const (
	cmPerFoot = 30.48
	cmPerInch = 2.54
	lbsPerKG  = 2.20462
)

// heightToCM normalizes a height input to centimeters.
// For unit "cm" the value itself must be > 0 (feet/inches are ignored).
// For unit "ft_in" at least one of feet/inches must be present, neither may be
// negative, and the combined height must be strictly positive.
func heightToCM(value float64, unit string, feet, inches *float64) (float64, error) {
	switch unit {
	case "cm":
		if value <= 0 {
			return 0, &FieldError{Field: "height", Message: "height must be greater than zero"}
		}
		return value, nil
	case "ft_in":
		if feet == nil && inches == nil {
			return 0, &FieldError{Field: "height", Message: "feet or inches is required"}
		}
		var ft, in float64
		if feet != nil {
			ft = *feet
		}
		if inches != nil {
			in = *inches
		}
		if ft < 0 || in < 0 {
			return 0, &FieldError{Field: "height", Message: "feet and inches must not be negative"}
		}
		cm := ft*cmPerFoot + in*cmPerInch
		if cm <= 0 {
			return 0, &FieldError{Field: "height", Message: "height must be greater than zero"}
		}
		return cm, nil
	default:
		return 0, &FieldError{Field: "height_unit", Message: "unit must be cm or ft_in"}
	}
}

// weightToKG normalizes a weight input to kilograms. "kg" passes through,
// "lbs" divides by 2.20462; either way the value must be strictly positive.
func weightToKG(value float64, unit string) (float64, error) {
	if value <= 0 {
		return 0, &FieldError{Field: "weight", Message: "weight must be greater than zero"}
	}
	switch unit {
	case "kg":
		return value, nil
	case "lbs":
		return value / lbsPerKG, nil
	default:
		return 0, &FieldError{Field: "weight_unit", Message: "unit must be kg or lbs"}
	}
}

// kgToLBS converts kilograms to pounds for display. No validation — callers
// only pass values that were already normalized through weightToKG.
func kgToLBS(kg float64) float64 {
	return kg * lbsPerKG
}
