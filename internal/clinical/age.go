package clinical

import "time"

// Age returns the age in completed years at ref for the given birth date,
// decrementing when the birthday has not happened yet in ref's year.
func Age(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}

// AgeFromDOB parses an ISO "YYYY-MM-DD" date of birth and returns the age at
// ref, clamped at zero. Invalid input yields zero; validating the string is
// the caller's responsibility.
func AgeFromDOB(dob string, ref time.Time) int {
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0
	}
	if age := Age(birth, ref); age > 0 {
		return age
	}
	return 0
}
