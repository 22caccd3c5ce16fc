package multiverse

import (
	"fmt"
	"math"
	"math/rand"
)

// timelineFractions place events across the horizon. Offsets are forced
// strictly increasing after rounding.
var timelineFractions = []float64{0.1, 0.3, 0.5, 0.7, 0.9}

// eventConfidenceDecay is the per-event confidence multiplier: later events
// are harder to predict.
const eventConfidenceDecay = 0.88

// buildTimeline projects events for one universe at increasing day offsets
// with decaying confidence.
func buildTimeline(p posture, u Universe, horizonDays int, rng *rand.Rand) []TimelineEvent {
	risky := p.riskBase >= 40

	events := make([]TimelineEvent, 0, len(timelineFractions))
	lastOffset := 0
	for i, frac := range timelineFractions {
		offset := int(math.Round(frac * float64(horizonDays)))
		if offset <= lastOffset {
			offset = lastOffset + 1
		}
		lastOffset = offset

		ev := TimelineEvent{
			DayOffset:  offset,
			Confidence: round3(clamp(u.Probability*math.Pow(eventConfidenceDecay, float64(i)), 0.05, 0.99)),
		}

		switch i {
		case 0:
			ev.Category = "checkpoint"
			ev.Impact = "neutral"
			ev.Title = fmt.Sprintf("%s kickoff review", u.Name)
			ev.Description = fmt.Sprintf("Confirm the %s path still matches day-0 assumptions", p.id)
		case 1:
			ev.Category = "milestone"
			ev.Impact = "positive"
			ev.Title = "First measurable outcome"
			ev.Description = fmt.Sprintf("Leading metrics under %s begin separating from baseline", u.Name)
		case 2:
			if risky {
				ev.Category = "risk"
				ev.Impact = "negative"
				ev.Title = "Exposure window peaks"
				ev.Description = fmt.Sprintf("The %s path carries its highest downside concentration here", p.id)
			} else {
				ev.Category = "opportunity"
				ev.Impact = "positive"
				ev.Title = "Compounding window opens"
				ev.Description = fmt.Sprintf("The %s path can absorb additional investment here", p.id)
			}
		case 3:
			if rng.Float64() < 0.5 {
				ev.Category = "pivot"
				ev.Impact = "neutral"
				ev.Title = "Course-correction point"
				ev.Description = "Last practical moment to adjust scope without restarting"
			} else {
				ev.Category = "cascade"
				ev.Impact = "negative"
				ev.Title = "Second-order effects surface"
				ev.Description = "Downstream teams and metrics begin reflecting the decision"
			}
		default:
			ev.Category = "checkpoint"
			ev.Impact = "neutral"
			ev.Title = "Horizon review"
			ev.Description = "Compare projected metrics against actuals and close the loop"
		}

		events = append(events, ev)
	}
	return events
}
