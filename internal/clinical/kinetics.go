package clinical

import (
	"math"
	"regexp"

	"github.com/carcarahealth/glica/internal/domain"
)

// Per-type activity parameters in hours. These approximate onset/peak/
// duration profiles for display, not a pharmacokinetic simulation.
type insulinKinetics struct {
	Onset    float64
	Peak     float64
	Duration float64
}

var kineticsByType = map[domain.InsulinType]insulinKinetics{
	domain.InsulinNPH:     {Onset: 2, Peak: 6, Duration: 16},
	domain.InsulinRegular: {Onset: 0.5, Peak: 2.5, Duration: 5},
}

// CurveSegment is one plottable quadratic Bézier arc for the 24-hour
// activity chart: from (StartHour, baseline) through the control point
// (PeakHour, baseline - PeakHeight) to (EndHour, baseline). Hours may be
// negative for wrapped segments representing action spilling past midnight.
type CurveSegment struct {
	Type       domain.InsulinType `json:"type"`
	Dose       float64            `json:"dose"`
	StartHour  float64            `json:"startHour"`
	PeakHour   float64            `json:"peakHour"`
	EndHour    float64            `json:"endHour"`
	PeakHeight float64            `json:"peakHeight"`
	Wrapped    bool               `json:"wrapped"`
}

var scheduleTimeRe = regexp.MustCompile(`(\d{2}):(\d{2})`)

// ScheduleToHours extracts the first "HH:mm" occurrence from a schedule
// string like "Manhã (07:00)" and returns it as fractional hours. Strings
// without a time yield zero.
func ScheduleToHours(schedule string) float64 {
	match := scheduleTimeRe.FindStringSubmatch(schedule)
	if match == nil {
		return 0
	}
	hours := float64(match[1][0]-'0')*10 + float64(match[1][1]-'0')
	minutes := float64(match[2][0]-'0')*10 + float64(match[2][1]-'0')
	return hours + minutes/60
}

// ProjectCurves converts recommended doses into activity-curve segments.
// Peak height is relative to the largest dose in the current set:
// 0.6 * scale * log(dose+1) / log(maxDose+1). Doses of unknown type, zero
// dose or negative time are excluded. Segments whose action extends past
// hour 24 get a wrapped copy shifted 24 hours earlier.
func ProjectCurves(insulins []domain.RecommendedInsulin, scale float64) []CurveSegment {
	type action struct {
		insulinType domain.InsulinType
		dose        float64
		time        float64
	}

	actions := make([]action, 0, len(insulins))
	maxDose := 1.0
	for _, ins := range insulins {
		if _, ok := kineticsByType[ins.Type]; !ok {
			continue
		}
		t := ScheduleToHours(ins.Schedule)
		if ins.Dose <= 0 || t < 0 {
			continue
		}
		actions = append(actions, action{insulinType: ins.Type, dose: ins.Dose, time: t})
		maxDose = math.Max(maxDose, ins.Dose)
	}

	segments := make([]CurveSegment, 0, len(actions))
	for _, a := range actions {
		k := kineticsByType[a.insulinType]
		peakHeight := scale * 0.6 * math.Log(a.dose+1) / math.Log(maxDose+1)

		segment := func(start float64, wrapped bool) CurveSegment {
			return CurveSegment{
				Type:       a.insulinType,
				Dose:       a.dose,
				StartHour:  start,
				PeakHour:   start + k.Peak,
				EndHour:    start + k.Duration,
				PeakHeight: peakHeight,
				Wrapped:    wrapped,
			}
		}

		segments = append(segments, segment(a.time, false))
		if a.time+k.Duration > 24 {
			segments = append(segments, segment(a.time-24, true))
		}
	}
	return segments
}
