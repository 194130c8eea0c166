package model

// Payload is the `data` object of the upstream MMI envelope.
type Payload struct {
	Date         string   `json:"date" validate:"required"`
	CurrentValue *float64 `json:"currentValue" validate:"required"`
	Nifty        *float64 `json:"nifty"`
	Fma          *float64 `json:"fma"`
	Sma          *float64 `json:"sma"`
}

// Record is one persisted history entry.
type Record struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
	Mood      Mood    `json:"mood"`
	RawData   RawData `json:"raw_data"`
}

type RawData struct {
	Nifty *float64 `json:"nifty"`
	Fma   *float64 `json:"fma"`
	Sma   *float64 `json:"sma"`
}

// NewRecord derives a Record from a payload. Mood is always recomputed from the value.
func NewRecord(p Payload) Record {
	var v float64
	if p.CurrentValue != nil {
		v = *p.CurrentValue
	}
	return Record{
		Timestamp: p.Date,
		Value:     v,
		Mood:      Classify(v),
		RawData: RawData{
			Nifty: p.Nifty,
			Fma:   p.Fma,
			Sma:   p.Sma,
		},
	}
}
