package clinical

import (
	"testing"
	"time"
)

func TestAgeFromDOB(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		dob  string
		ref  string
		want int
	}{
		{name: "day before birthday", dob: "1990-06-15", ref: "2024-06-14", want: 33},
		{name: "on birthday", dob: "1990-06-15", ref: "2024-06-15", want: 34},
		{name: "day after birthday", dob: "1990-06-15", ref: "2024-06-16", want: 34},
		{name: "month before birthday", dob: "1990-06-15", ref: "2024-05-20", want: 33},
		{name: "month after birthday", dob: "1990-06-15", ref: "2024-07-01", want: 34},
		{name: "end of year rollover", dob: "1999-12-31", ref: "2024-12-30", want: 24},
		{name: "invalid date string", dob: "not-a-date", ref: "2024-06-15", want: 0},
		{name: "birth after reference clamps to zero", dob: "2030-01-01", ref: "2024-06-15", want: 0},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			ref, err := time.Parse("2006-01-02", testCase.ref)
			if err != nil {
				t.Fatalf("bad reference date in test: %v", err)
			}
			if got := AgeFromDOB(testCase.dob, ref); got != testCase.want {
				t.Fatalf("expected age %d, got %d", testCase.want, got)
			}
		})
	}
}
