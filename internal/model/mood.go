package model

// Mood is the categorical bucket of an MMI reading.
type Mood string

const (
	ExtremeFear  Mood = "Extreme Fear"
	Fear         Mood = "Fear"
	Greed        Mood = "Greed"
	ExtremeGreed Mood = "Extreme Greed"
)

// Zone is the [Lower, Upper) score range that maps to a Mood.
type Zone struct {
	Mood  Mood
	Lower float64
	Upper float64
}

// Zones are ordered from the most fearful to the most greedy and cover 0-100.
var zones = []Zone{
	{Mood: ExtremeFear, Lower: 0, Upper: 30},
	{Mood: Fear, Lower: 30, Upper: 50},
	{Mood: Greed, Lower: 50, Upper: 70},
	{Mood: ExtremeGreed, Lower: 70, Upper: 100},
}

func Zones() []Zone {
	rtn := make([]Zone, len(zones))
	copy(rtn, zones)
	return rtn
}

// Classify maps a score to its mood. Lower bounds are inclusive, so 30, 50
// and 70 resolve to the upper category. Anything not below 70 (NaN included)
// is Extreme Greed.
func Classify(value float64) Mood {
	switch {
	case value < 30:
		return ExtremeFear
	case value < 50:
		return Fear
	case value < 70:
		return Greed
	}
	return ExtremeGreed
}

func (m Mood) String() string {
	return string(m)
}

func (m Mood) IsValid() bool {
	for _, z := range zones {
		if z.Mood == m {
			return true
		}
	}
	return false
}
