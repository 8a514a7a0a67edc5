package dto

import "encoding/json"

// RecordValue is the result of reading a stored blob: either the parsed JSON
// value or, when the stored text is not valid JSON, the raw string unchanged.
// A degraded read never fails the request.
type RecordValue struct {
	Parsed bool            `json:"-"`
	JSON   json.RawMessage `json:"-"`
	Raw    string          `json:"-"`
}

func ParseRecordValue(data string) RecordValue {
	if len(data) > 0 && json.Valid([]byte(data)) {
		return RecordValue{Parsed: true, JSON: json.RawMessage(data)}
	}
	return RecordValue{Raw: data}
}

func (v RecordValue) MarshalJSON() ([]byte, error) {
	if v.Parsed {
		return v.JSON, nil
	}
	return json.Marshal(v.Raw)
}

// WeightPoint is one sample of the weight time series.
type WeightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// ImportRequest maps date -> category -> arbitrary JSON value.
type ImportRequest map[string]map[string]json.RawMessage

// Default-day structures, synthesized at read time for dates with no rows.
// The shapes (and the Korean meal labels) are what the tracker UI expects.

type WaterSlot struct {
	Amount    string `json:"amount"`
	Completed bool   `json:"completed"`
	Time      string `json:"time"`
}

type WaterData struct {
	Count        int         `json:"count"`
	TargetAmount int         `json:"targetAmount"`
	Records      []WaterSlot `json:"records"`
}

type MealSlot struct {
	Food      string  `json:"food"`
	Completed bool    `json:"completed"`
	Time      string  `json:"time"`
	Photo     *string `json:"photo"`
}

type MealsData struct {
	Count   int        `json:"count"`
	Labels  []string   `json:"labels"`
	Records []MealSlot `json:"records"`
}

type ExerciseData struct {
	Type      string `json:"type"`
	Duration  string `json:"duration"`
	Completed bool   `json:"completed"`
}

// DefaultDay returns the structure served for a date with no stored records:
// 8 water slots targeting 2000ml, 4 labeled meal slots, one empty exercise
// slot and an empty weight. It is never persisted.
func DefaultDay() map[string]interface{} {
	return map[string]interface{}{
		"water": WaterData{
			Count:        8,
			TargetAmount: 2000,
			Records:      make([]WaterSlot, 8),
		},
		"meals": MealsData{
			Count:   4,
			Labels:  []string{"아침", "점심", "간식", "저녁"},
			Records: make([]MealSlot, 4),
		},
		"exercise": ExerciseData{},
		"weight":   "",
	}
}
