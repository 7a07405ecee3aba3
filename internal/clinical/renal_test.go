package clinical

import (
	"math"
	"testing"
)

func TestEGFRReferenceValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		creatinine float64
		age        int
		female     bool
		want       float64
	}{
		{name: "female above kappa", creatinine: 0.8, age: 60, female: true, want: 84.298154},
		{name: "male above kappa", creatinine: 1.2, age: 50, female: false, want: 73.673530},
		{name: "female below kappa", creatinine: 0.6, age: 30, female: true, want: 123.757864},
		{name: "male below kappa", creatinine: 0.7, age: 40, female: false, want: 119.456468},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			got := EGFR(testCase.creatinine, testCase.age, testCase.female)
			if math.Abs(got-testCase.want) > 1e-4 {
				t.Fatalf("expected eGFR %.6f, got %.6f", testCase.want, got)
			}
		})
	}
}

func TestEGFRUndefinedInputs(t *testing.T) {
	t.Parallel()

	if got := EGFR(0, 60, true); got != 0 {
		t.Fatalf("expected zero eGFR for zero creatinine, got %.6f", got)
	}
	if got := EGFR(0.8, 0, true); got != 0 {
		t.Fatalf("expected zero eGFR for zero age, got %.6f", got)
	}
	if got := EGFR(-1, -5, false); got != 0 {
		t.Fatalf("expected zero eGFR for negative inputs, got %.6f", got)
	}
}
