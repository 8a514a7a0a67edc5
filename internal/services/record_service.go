package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/haeun-dev/health-tracker-backend/internal/dto"
	"github.com/haeun-dev/health-tracker-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidPayload = errors.New("request body must be valid JSON")
	ErrEmptyPayload   = errors.New("payload must not be null")
)

const weightChartLimit = 30

// RecordService performs pass-through CRUD on health_records. Saves are
// upserts on (user_id, date, category); stored blobs are opaque strings.
type RecordService struct {
	db *gorm.DB
}

func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{db: db}
}

// GetDay returns category -> value for every row on the given date. When the
// date has no rows the fixed default day is synthesized instead; it is never
// written back.
func (s *RecordService) GetDay(userID uint, date string) (map[string]interface{}, error) {
	var rows []models.HealthRecord
	if err := s.db.Where("user_id = ? AND date = ?", userID, date).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	if len(rows) == 0 {
		return dto.DefaultDay(), nil
	}

	day := make(map[string]interface{}, len(rows))
	for _, r := range rows {
		day[r.Category] = dto.ParseRecordValue(r.Data)
	}
	return day, nil
}

// Save upserts one payload under (user, date, category). Last write wins.
func (s *RecordService) Save(userID uint, date, category string, body []byte) error {
	data, err := serializeBody(body)
	if err != nil {
		return err
	}
	return s.upsert(s.db, userID, date, category, data)
}

// WeightChart returns the user's weight series: the 30 most recent non-empty
// weight rows, numeric ones only, re-sorted ascending so the latest window
// reads chronologically.
func (s *RecordService) WeightChart(userID uint) ([]dto.WeightPoint, error) {
	var rows []models.HealthRecord
	err := s.db.Where("user_id = ? AND category = ? AND data <> ''", userID, models.CategoryWeight).
		Order("date DESC").
		Limit(weightChartLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weight records: %w", err)
	}

	points := make([]dto.WeightPoint, 0, len(rows))
	for _, r := range rows {
		w, ok := parseWeight(r.Data)
		if !ok {
			continue
		}
		points = append(points, dto.WeightPoint{Date: r.Date, Weight: w})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// Export returns the user's full record set as date -> category -> value,
// with the same degrade-to-raw policy as GetDay.
func (s *RecordService) Export(userID uint) (map[string]map[string]dto.RecordValue, error) {
	var rows []models.HealthRecord
	err := s.db.Where("user_id = ?", userID).
		Order("date, category").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	out := make(map[string]map[string]dto.RecordValue)
	for _, r := range rows {
		if out[r.Date] == nil {
			out[r.Date] = make(map[string]dto.RecordValue)
		}
		out[r.Date][r.Category] = dto.ParseRecordValue(r.Data)
	}
	return out, nil
}

// Import upserts every (date, category) entry of the payload inside a single
// transaction: either the whole import lands or none of it does. All keys are
// validated up front so malformed input is rejected before any write.
func (s *RecordService) Import(userID uint, req dto.ImportRequest) error {
	type entry struct {
		date, category, data string
	}

	entries := make([]entry, 0, len(req))
	for date, categories := range req {
		d, err := models.ParseDate(date)
		if err != nil {
			return err
		}
		for category, raw := range categories {
			c, err := models.ParseCategory(category)
			if err != nil {
				return err
			}
			data, err := serializeBody(raw)
			if err != nil {
				return err
			}
			entries = append(entries, entry{date: d, category: c, data: data})
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			if err := s.upsert(tx, userID, e.date, e.category, e.data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RecordService) upsert(db *gorm.DB, userID uint, date, category, data string) error {
	record := models.HealthRecord{
		UserID:   userID,
		Date:     date,
		Category: category,
		Data:     data,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// serializeBody turns an arbitrary JSON payload into the stored text form:
// composites keep their compact JSON encoding, scalars degrade to their raw
// text (a bare 70.5 rather than a quoted string).
func serializeBody(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", ErrInvalidPayload
	}
	// exactly one value: trailing content is garbage, not a payload
	if _, err := dec.Token(); err != io.EOF {
		return "", ErrInvalidPayload
	}

	switch t := v.(type) {
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return "", ErrInvalidPayload
		}
		return string(b), nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default: // JSON null
		return "", ErrEmptyPayload
	}
}

// parseWeight tolerates both raw scalar text (70.5) and a JSON-quoted number
// ("70.5"); anything else is dropped from the chart. NaN and the infinities
// parse as floats but have no JSON encoding, so they are dropped too.
func parseWeight(data string) (float64, bool) {
	s := strings.TrimSpace(data)
	if w, err := strconv.ParseFloat(s, 64); err == nil {
		return w, isFinite(w)
	}
	var quoted string
	if err := json.Unmarshal([]byte(s), &quoted); err == nil {
		if w, err := strconv.ParseFloat(strings.TrimSpace(quoted), 64); err == nil {
			return w, isFinite(w)
		}
	}
	return 0, false
}

func isFinite(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0)
}
