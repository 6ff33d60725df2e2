package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

// JSONFile imports records from a JSON array, such as discovery search output
// or a hand-maintained secondary list.
type JSONFile struct {
	path string
}

// NewJSONFile creates a collector reading path on every run.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Name() string {
	return "import:" + strings.TrimSuffix(filepath.Base(j.path), filepath.Ext(j.path))
}

// importRecord accepts both raw records and previously canonical output, so an
// old shows.json can be merged back in.
type importRecord struct {
	Name           string   `json:"name"`
	DateString     string   `json:"dateString"`
	LocationString string   `json:"locationString"`
	Link           string   `json:"link"`
	VendorInfo     string   `json:"vendorInfo"`
	State          string   `json:"state"`
	Category       string   `json:"category"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

// Collect reads and decodes the file.
func (j *JSONFile) Collect(_ context.Context) ([]domain.RawEvent, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	var records []importRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode import file %s: %w", j.path, err)
	}

	events := make([]domain.RawEvent, 0, len(records))
	for _, r := range records {
		e := domain.RawEvent{
			Name:           r.Name,
			DateString:     r.DateString,
			LocationString: r.LocationString,
			Link:           r.Link,
			VendorInfo:     r.VendorInfo,
			State:          r.State,
			Category:       domain.Category(r.Category),
		}
		if r.Latitude != nil && r.Longitude != nil {
			e.Geo = &domain.Geo{Lat: *r.Latitude, Lon: *r.Longitude}
		}
		events = append(events, e)
	}
	return events, nil
}
