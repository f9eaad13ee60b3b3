// Package importer reads a plan file back into board tactics. It accepts the
// JSON and YAML reports written by the export package, so a board can be
// exported, edited by hand and imported again.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/planboard/internal/domain"
)

// PlanImport is the top-level structure of a plan file. Report fields the
// importer does not need (totals, timestamps, ids) are ignored.
type PlanImport struct {
	Title    string          `json:"title" yaml:"title"`
	Sections []SectionImport `json:"sections" yaml:"sections"`
}

// SectionImport names a lane by id or title.
type SectionImport struct {
	LaneID string         `json:"lane_id" yaml:"lane_id"`
	Title  string         `json:"title" yaml:"title"`
	Items  []TacticImport `json:"items" yaml:"items"`
}

// TacticImport is one tactic to add.
type TacticImport struct {
	Title   string        `json:"title" yaml:"title"`
	Budget  domain.Amount `json:"budget" yaml:"budget"`
	Content string        `json:"content" yaml:"content"`
}

// LoadPlan reads a plan file. The extension picks the decoder.
func LoadPlan(path string) (*PlanImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan PlanImport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &plan)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &plan)
	default:
		return nil, fmt.Errorf("unsupported plan file %q (want .json, .yaml or .yml)", filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}
