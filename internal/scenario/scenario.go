// Package scenario defines saved hero/villain range pairs and the storage
// contract used by the server and CLI.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lox/rangelab/internal/ranges"
)

// ErrNotFound is returned when a scenario id does not exist.
var ErrNotFound = errors.New("scenario not found")

// Scenario is a named pair of ranges.
type Scenario struct {
	ID           string
	Name         string
	HeroRange    ranges.Range
	VillainRange ranges.Range
	CreatedAt    time.Time
}

type scenarioJSON struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	HeroRange    ranges.Range `json:"heroRange"`
	VillainRange ranges.Range `json:"villainRange"`
	Timestamp    int64        `json:"timestamp"`
}

// MarshalJSON encodes the creation time in Unix milliseconds. Ranges use
// ranges.Range's own encoding.
func (s Scenario) MarshalJSON() ([]byte, error) {
	return json.Marshal(scenarioJSON{
		ID:           s.ID,
		Name:         s.Name,
		HeroRange:    s.HeroRange,
		VillainRange: s.VillainRange,
		Timestamp:    s.CreatedAt.UnixMilli(),
	})
}

func (s *Scenario) UnmarshalJSON(data []byte) error {
	var v scenarioJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Scenario{
		ID:           v.ID,
		Name:         v.Name,
		HeroRange:    v.HeroRange,
		VillainRange: v.VillainRange,
		CreatedAt:    time.UnixMilli(v.Timestamp).UTC(),
	}
	return nil
}

// Store persists scenarios. List returns newest first.
type Store interface {
	List(ctx context.Context) ([]Scenario, error)
	Save(ctx context.Context, name string, hero, villain ranges.Range) (Scenario, error)
	Delete(ctx context.Context, id string) error
}

// DisplayName trims name, substituting a timestamped default when it is blank.
func DisplayName(name string, now time.Time) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "Untitled Scenario " + now.Format("15:04:05")
}

// ExportFilename is the suggested download name for a backup taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("rangelab-backup-%s.json", now.Format(time.DateOnly))
}

// Export writes every stored scenario to w as an indented JSON array.
func Export(ctx context.Context, store Store, w io.Writer) error {
	scenarios, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list scenarios: %w", err)
	}
	if scenarios == nil {
		scenarios = []Scenario{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scenarios); err != nil {
		return fmt.Errorf("encode scenarios: %w", err)
	}
	return nil
}
