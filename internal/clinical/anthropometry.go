package clinical

// BMI returns weight (kg) over height (m) squared, or zero when either
// input is not positive. Callers must suppress display of a zero BMI.
func BMI(weight, height float64) float64 {
	if weight <= 0 || height <= 0 {
		return 0
	}
	return weight / (height * height)
}

// ClassifyBMI maps a BMI value onto the WHO obesity bands used on the intake
// form. Band edges use strict less-than, so a value equal to an edge falls
// into the band above it. A non-positive BMI yields an empty string.
func ClassifyBMI(bmi float64) string {
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return "Abaixo do peso"
	case bmi < 24.9:
		return "Peso normal"
	case bmi < 29.9:
		return "Sobrepeso"
	case bmi < 34.9:
		return "Obesidade Grau I"
	case bmi < 39.9:
		return "Obesidade Grau II"
	default:
		return "Obesidade Grau III"
	}
}
