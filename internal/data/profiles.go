// Package data loads participant-profile files that seed answer
// generation. Profile fields become template variables, so a schema can
// reference ${email} or ${age} instead of synthesizing every value.
package data

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"formsmith/internal/template"
)

// Mode defines how profile rows are handed out across submissions.
type Mode string

const (
	// ModeSequential iterates rows in order, wrapping around.
	ModeSequential Mode = "sequential"
	// ModeRandom selects a random row per submission.
	ModeRandom Mode = "random"
)

// Profiles is a loaded set of participant rows.
type Profiles struct {
	rows []template.MapVariables
	mode Mode

	mu      sync.Mutex
	counter int
	rng     *rand.Rand
}

// New creates a profile set from rows.
func New(rows []template.MapVariables, mode Mode) *Profiles {
	if mode == "" {
		mode = ModeRandom
	}
	return &Profiles{
		rows: rows,
		mode: mode,
		rng:  rand.New(rand.NewSource(rand.Int63())),
	}
}

// Len returns the number of profile rows.
func (p *Profiles) Len() int {
	return len(p.rows)
}

// Next returns the variables for the next submission.
// Thread-safe for concurrent use by multiple workers.
func (p *Profiles) Next() template.Variables {
	if len(p.rows) == 0 {
		return template.NoVariables
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var idx int
	switch p.mode {
	case ModeSequential:
		idx = p.counter % len(p.rows)
		p.counter++
	default: // ModeRandom
		idx = p.rng.Intn(len(p.rows))
	}
	return p.rows[idx]
}

// Load reads a profile file (.csv or .json) into a Profiles set.
func Load(path string, mode Mode) (*Profiles, error) {
	var rows []template.MapVariables
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = loadCSV(path)
	case ".json":
		rows, err = loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported profile format %q (use .csv or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("profile file %s is empty", path)
	}

	return New(rows, mode), nil
}

// loadCSV expects a header row followed by one row per profile.
func loadCSV(path string) ([]template.MapVariables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV needs a header row and at least one profile row")
	}

	headers := records[0]
	rows := make([]template.MapVariables, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(template.MapVariables, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// loadJSON expects an array of flat objects.
func loadJSON(path string) ([]template.MapVariables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid JSON")
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("JSON must be an array of objects")
	}

	var rows []template.MapVariables
	var badRow error
	parsed.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			badRow = fmt.Errorf("JSON array elements must be objects")
			return false
		}
		row := template.MapVariables{}
		item.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = value.Value()
			return true
		})
		rows = append(rows, row)
		return true
	})
	if badRow != nil {
		return nil, badRow
	}
	return rows, nil
}
