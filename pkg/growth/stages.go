// Package growth derives a sugarcane growth stage from days since
// planting. Thresholds ship with sensible defaults and can be overridden
// from a StageConfig-style CSV.
package growth

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Stage struct {
	Key     string // germination|tillering|grand-growth|maturation|ripening
	Name    string
	MaxDays int // inclusive upper bound; the last stage is open-ended
}

type Stages struct{ rows []Stage }

// Defaults returns the built-in sugarcane stage boundaries.
func Defaults() *Stages {
	return &Stages{rows: []Stage{
		{Key: "germination", Name: "Germination", MaxDays: 30},
		{Key: "tillering", Name: "Tillering", MaxDays: 120},
		{Key: "grand-growth", Name: "Grand Growth", MaxDays: 270},
		{Key: "maturation", Name: "Maturation", MaxDays: 360},
		{Key: "ripening", Name: "Ripening", MaxDays: 1 << 30},
	}}
}

// LoadCSV reads stage thresholds from a CSV with headers Stage,Days
// (aliases accepted, matching the planner config conventions). Rows are
// cumulative day boundaries in file order.
func LoadCSV(path string) (*Stages, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	head, err := cr.Read()
	if err != nil {
		return nil, err
	}
	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "\uFEFF")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "_", "")
		return s
	}
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}
	cStage := findAny("Stage", "stage", "phase")
	cDays := findAny("Days", "max_days", "upto", "boundary")
	if cStage == -1 || cDays == -1 {
		return nil, errors.New("stage csv missing Stage/Days columns")
	}

	s := &Stages{}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if cStage >= len(rec) || cDays >= len(rec) {
			continue
		}
		days, _ := strconv.Atoi(strings.TrimSpace(rec[cDays]))
		if days <= 0 {
			continue
		}
		name := strings.TrimSpace(rec[cStage])
		s.rows = append(s.rows, Stage{Key: keyFor(name), Name: name, MaxDays: days})
	}
	if len(s.rows) == 0 {
		return nil, errors.New("no stage rows loaded")
	}
	sort.SliceStable(s.rows, func(i, j int) bool { return s.rows[i].MaxDays < s.rows[j].MaxDays })
	// Last configured stage stays open-ended.
	s.rows[len(s.rows)-1].MaxDays = 1 << 30
	return s, nil
}

func keyFor(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// StageFor returns the stage key for a number of days since planting.
func (s *Stages) StageFor(daysSincePlanting int) string {
	for _, row := range s.rows {
		if daysSincePlanting <= row.MaxDays {
			return row.Key
		}
	}
	return s.rows[len(s.rows)-1].Key
}

// DisplayName maps a stage key to its display name.
func (s *Stages) DisplayName(key string) string {
	for _, row := range s.rows {
		if row.Key == key {
			return row.Name
		}
	}
	return key
}

// DaysSince counts whole days from start to now, never negative.
func DaysSince(start, now time.Time) int {
	d := int(now.Sub(start).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
