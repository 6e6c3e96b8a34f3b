package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/oarlock/boatplan-api/internal/models"
	"github.com/oarlock/boatplan-api/pkg/export"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

type planGetter interface {
	Get(ctx context.Context, id string) (*models.AllocationPlan, error)
}

type personNamer interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

type boatNamer interface {
	FindByID(ctx context.Context, id string) (*models.Boat, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type gridRenderer interface {
	RenderGrid(doc export.GridDocument, title string) ([]byte, error)
}

// ExportResult carries a rendered artefact ready to be served.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportConfig tunes export rendering.
type ExportConfig struct {
	PDFTitle string
}

// ExportService renders stored allocation plans as CSV tables and
// weekly grid PDFs.
type ExportService struct {
	plans  planGetter
	people personNamer
	boats  boatNamer
	csv    csvRenderer
	pdf    gridRenderer
	logger *zap.Logger
	cfg    ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(plans planGetter, people personNamer, boats boatNamer, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf gridRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if cfg.PDFTitle == "" {
		cfg.PDFTitle = "Weekly boat allocation"
	}
	return &ExportService{plans: plans, people: people, boats: boats, csv: csv, pdf: pdf, logger: logger, cfg: cfg}
}

var dayLabels = [8]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// CSV renders the plan's slots and fairness table as one CSV document.
func (s *ExportService) CSV(ctx context.Context, planID string) (*ExportResult, error) {
	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != models.PlanStatusOptimal {
		return nil, appErrors.Clone(appErrors.ErrConflict, "plan has no assignment grid to export")
	}

	names, boatNames, err := s.lookupNames(ctx, plan)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"person", "day", "period", "boat", "rank", "nb_asked", "nb_first", "nb_second", "diff"},
	}

	fairness := make(map[string]models.FairnessRow, len(plan.Fairness))
	for _, row := range plan.Fairness {
		fairness[row.PersonID] = row
	}

	for _, slot := range plan.Slots {
		fr := fairness[slot.PersonID]
		dataset.Rows = append(dataset.Rows, map[string]string{
			"person":    names[slot.PersonID],
			"day":       dayLabel(slot.Day),
			"period":    slot.Period,
			"boat":      boatNames[slot.BoatID],
			"rank":      string(slot.Rank),
			"nb_asked":  fmt.Sprintf("%d", fr.NbAsked),
			"nb_first":  fmt.Sprintf("%d", fr.NbFirst),
			"nb_second": fmt.Sprintf("%d", fr.NbSecond),
			"diff":      fmt.Sprintf("%d", fr.Diff),
		})
	}

	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("plan-%s.csv", plan.ID),
		ContentType: "text/csv",
		Data:        data,
	}, nil
}

// PDF renders the plan as a landscape weekly grid: people down, time
// slots across, boat names in the cells.
func (s *ExportService) PDF(ctx context.Context, planID string) (*ExportResult, error) {
	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != models.PlanStatusOptimal {
		return nil, appErrors.Clone(appErrors.ErrConflict, "plan has no assignment grid to export")
	}

	names, boatNames, err := s.lookupNames(ctx, plan)
	if err != nil {
		return nil, err
	}

	type column struct {
		day    int
		period string
	}
	colSet := make(map[column]bool)
	cells := make(map[string]map[column]string)
	for _, slot := range plan.Slots {
		col := column{day: slot.Day, period: slot.Period}
		colSet[col] = true
		if cells[slot.PersonID] == nil {
			cells[slot.PersonID] = make(map[column]string)
		}
		label := boatNames[slot.BoatID]
		if slot.Rank == models.RankSecond {
			label += " *"
		}
		cells[slot.PersonID][col] = label
	}

	columns := make([]column, 0, len(colSet))
	for col := range colSet {
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool {
		if columns[i].day != columns[j].day {
			return columns[i].day < columns[j].day
		}
		return columns[i].period < columns[j].period
	})

	doc := export.GridDocument{
		RowHeader: "Rower",
		Footer: []string{
			"* second choice outing",
			fmt.Sprintf("fairness floor %d, objective %.0f", plan.FairnessFloor, plan.Objective),
		},
	}
	for _, col := range columns {
		doc.Columns = append(doc.Columns, fmt.Sprintf("%s %s", dayLabel(col.day), col.period))
	}

	personIDs := make([]string, 0, len(cells))
	for id := range cells {
		personIDs = append(personIDs, id)
	}
	sort.Slice(personIDs, func(i, j int) bool {
		return strings.ToLower(names[personIDs[i]]) < strings.ToLower(names[personIDs[j]])
	})

	for _, id := range personIDs {
		row := export.GridRow{Label: names[id]}
		for _, col := range columns {
			row.Cells = append(row.Cells, cells[id][col])
		}
		doc.Rows = append(doc.Rows, row)
	}

	data, err := s.pdf.RenderGrid(doc, fmt.Sprintf("%s (%s)", s.cfg.PDFTitle, plan.Cohort))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("plan-%s.pdf", plan.ID),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *ExportService) lookupNames(ctx context.Context, plan *models.AllocationPlan) (map[string]string, map[string]string, error) {
	people := make(map[string]string)
	boats := make(map[string]string)
	for _, slot := range plan.Slots {
		people[slot.PersonID] = slot.PersonID
		boats[slot.BoatID] = slot.BoatID
	}
	for _, row := range plan.Fairness {
		people[row.PersonID] = row.PersonID
	}

	for id := range people {
		person, err := s.people.FindByID(ctx, id)
		if err != nil {
			s.logger.Warn("person missing for export, falling back to id", zap.String("person_id", id))
			continue
		}
		people[id] = person.FullName
	}
	for id := range boats {
		boat, err := s.boats.FindByID(ctx, id)
		if err != nil {
			s.logger.Warn("boat missing for export, falling back to id", zap.String("boat_id", id))
			continue
		}
		boats[id] = boat.Name
	}
	return people, boats, nil
}

func dayLabel(day int) string {
	if day >= 1 && day <= 7 {
		return dayLabels[day]
	}
	return fmt.Sprintf("Day%d", day)
}
