package clinical

import (
	"math"
	"testing"
)

func TestBMI(t *testing.T) {
	t.Parallel()

	if got := BMI(80, 1.8); math.Abs(got-80/(1.8*1.8)) > 1e-12 {
		t.Fatalf("expected BMI %.6f, got %.6f", 80/(1.8*1.8), got)
	}
	if got := BMI(0, 1.8); got != 0 {
		t.Fatalf("expected zero BMI for zero weight, got %.6f", got)
	}
	if got := BMI(80, 0); got != 0 {
		t.Fatalf("expected zero BMI for zero height, got %.6f", got)
	}
	if got := BMI(80, -1.8); got != 0 {
		t.Fatalf("expected zero BMI for negative height, got %.6f", got)
	}
}

func TestClassifyBMI(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		bmi  float64
		want string
	}{
		{name: "undefined", bmi: 0, want: ""},
		{name: "underweight", bmi: 17.0, want: "Abaixo do peso"},
		{name: "boundary 18.5 falls into normal", bmi: 18.5, want: "Peso normal"},
		{name: "normal", bmi: 22.0, want: "Peso normal"},
		{name: "boundary 24.9 falls into overweight", bmi: 24.9, want: "Sobrepeso"},
		{name: "overweight", bmi: 27.5, want: "Sobrepeso"},
		{name: "boundary 29.9 falls into obese I", bmi: 29.9, want: "Obesidade Grau I"},
		{name: "obese I", bmi: 32.0, want: "Obesidade Grau I"},
		{name: "boundary 34.9 falls into obese II", bmi: 34.9, want: "Obesidade Grau II"},
		{name: "obese II", bmi: 37.0, want: "Obesidade Grau II"},
		{name: "boundary 39.9 falls into obese III", bmi: 39.9, want: "Obesidade Grau III"},
		{name: "obese III", bmi: 45.0, want: "Obesidade Grau III"},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			if got := ClassifyBMI(testCase.bmi); got != testCase.want {
				t.Fatalf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}
