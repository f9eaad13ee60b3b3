package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planboard/internal/board"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/export"
	"github.com/alexanderramin/planboard/internal/testutil"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPlan_YAMLWithStringBudgets(t *testing.T) {
	path := writeFile(t, "plan.yaml", `
title: Spring launch
sections:
  - lane_id: awareness
    items:
      - title: Podcast ads
        budget: "$1,200"
      - title: Flyers
        budget: 80
  - title: Retention
    items:
      - title: Loyalty card
        budget: -5
        content: Stamp per visit
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, plan.Sections, 2)
	assert.Equal(t, domain.Amount(1200), plan.Sections[0].Items[0].Budget)
	assert.Equal(t, domain.Amount(80), plan.Sections[0].Items[1].Budget)
	assert.Equal(t, domain.Amount(0), plan.Sections[1].Items[0].Budget)
}

func TestLoadPlan_JSON(t *testing.T) {
	path := writeFile(t, "plan.json", `{"sections":[{"lane_id":"conversion","items":[{"title":"Demo day","budget":"lots"},{"title":"Coupons","budget":250.5}]}]}`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	items := plan.Sections[0].Items
	assert.Equal(t, domain.Amount(0), items[0].Budget)
	assert.Equal(t, domain.Amount(250.5), items[1].Budget)
}

func TestLoadPlan_Errors(t *testing.T) {
	_, err := LoadPlan(writeFile(t, "plan.csv", "a,b"))
	assert.ErrorContains(t, err, "unsupported plan file")

	_, err = LoadPlan(writeFile(t, "plan.json", "{not json"))
	assert.ErrorContains(t, err, "parsing plan file")

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidatePlan(t *testing.T) {
	lanes := testutil.DefaultLanes()

	tests := []struct {
		name    string
		plan    PlanImport
		wantErr []string
	}{
		{
			name: "valid by id and title",
			plan: PlanImport{Sections: []SectionImport{
				{LaneID: "awareness", Items: []TacticImport{{Title: "A"}}},
				{Title: "conversion", Items: []TacticImport{{Title: "B"}}},
			}},
		},
		{
			name:    "no sections",
			plan:    PlanImport{},
			wantErr: []string{"plan has no sections"},
		},
		{
			name: "unknown lane and blank title",
			plan: PlanImport{Sections: []SectionImport{
				{LaneID: "loyalty", Items: []TacticImport{{Title: "A"}}},
				{LaneID: "retention", Items: []TacticImport{{Title: "  "}}},
			}},
			wantErr: []string{`sections[0]: unknown lane "loyalty"`, "sections[1].items[0].title is required"},
		},
		{
			name: "lane_id wins over title",
			plan: PlanImport{Sections: []SectionImport{
				{LaneID: "nope", Title: "Awareness"},
			}},
			wantErr: []string{`unknown lane "nope"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePlan(&tt.plan, lanes)
			require.Len(t, errs, len(tt.wantErr))
			for i, want := range tt.wantErr {
				assert.Contains(t, errs[i].Error(), want)
			}
		})
	}
}

func TestConvert_KeepsFileOrder(t *testing.T) {
	plan := &PlanImport{Sections: []SectionImport{
		{Title: "Retention", Items: []TacticImport{{Title: " Survey ", Budget: 40, Content: "NPS"}}},
		{LaneID: "bogus", Items: []TacticImport{{Title: "skipped"}}},
		{LaneID: "awareness", Items: []TacticImport{{Title: "Ads", Budget: 900}, {Title: "PR"}}},
	}}

	entries := Convert(plan, testutil.DefaultLanes())
	assert.Equal(t, []Entry{
		{LaneID: domain.LaneRetention, Title: "Survey", Budget: 40, Content: "NPS"},
		{LaneID: domain.LaneAwareness, Title: "Ads", Budget: 900},
		{LaneID: domain.LaneAwareness, Title: "PR"},
	}, entries)
}

func TestRoundTrip_ExportedReportImportsBack(t *testing.T) {
	b := board.New(testutil.DefaultLanes())
	b.Insert(testutil.NewTestTactic(domain.LaneAwareness, "SEO Sprint", testutil.WithBudget(2000)), -1)
	b.Insert(testutil.NewTestTactic(domain.LaneRetention, "Newsletter", testutil.WithBudget(150), testutil.WithContent("Monthly")), -1)
	report := export.Build(b, export.Options{IncludeContent: true, Now: func() time.Time { return time.Unix(0, 0) }})

	for _, f := range []export.Format{export.FormatJSON, export.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, export.Write(&buf, report, f))
			path := writeFile(t, "plan."+string(f), buf.String())

			plan, err := LoadPlan(path)
			require.NoError(t, err)
			require.Empty(t, ValidatePlan(plan, b.Lanes))
			assert.Equal(t, []Entry{
				{LaneID: domain.LaneAwareness, Title: "SEO Sprint", Budget: 2000},
				{LaneID: domain.LaneRetention, Title: "Newsletter", Budget: 150, Content: "Monthly"},
			}, Convert(plan, b.Lanes))
		})
	}
}
