package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/models"
	"github.com/noah-isme/classroom-client/pkg/export"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

var (
	classroomExportHeaders = []string{"ID", "Name", "Section", "Year/Term", "Term", "Lecturer", "Room", "Day", "Time", "Code"}
	rosterExportHeaders    = []string{"No", "ID", "Name", "Email"}
)

type rosterSource interface {
	Load(ctx context.Context) []models.Classroom
	Detail(ctx context.Context, id string) (*models.ClassroomDetail, error)
}

// ExportResult is a rendered file ready to be written.
type ExportResult struct {
	Filename string
	Format   string
	Data     []byte
}

// ExportService renders joined classrooms and rosters to CSV, PDF or YAML.
type ExportService struct {
	source rosterSource
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(source rosterSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{source: source, logger: logger, now: time.Now}
}

// Classrooms renders the joined classroom list.
func (s *ExportService) Classrooms(ctx context.Context, format string) (*ExportResult, error) {
	items := s.source.Load(ctx)
	dataset := export.Dataset{
		Title:   "Joined Classrooms",
		Headers: classroomExportHeaders,
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, c := range items {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":        c.ID,
			"Name":      c.Name,
			"Section":   c.Section,
			"Year/Term": c.YearTerm,
			"Term":      c.Term,
			"Lecturer":  c.Lecturer,
			"Room":      c.Room,
			"Day":       c.Day,
			"Time":      c.Time,
			"Code":      c.Code,
		})
	}
	return s.render(dataset, format, "classrooms")
}

// Roster renders the student list of one classroom.
func (s *ExportService) Roster(ctx context.Context, id, format string) (*ExportResult, error) {
	detail, err := s.source.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{
		Title:   fmt.Sprintf("%s Roster", detail.Classroom.Name),
		Headers: rosterExportHeaders,
		Rows:    make([]map[string]string, 0, len(detail.Students)),
	}
	for i, student := range detail.Students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"No":    fmt.Sprintf("%d", i+1),
			"ID":    student.ID,
			"Name":  student.Name,
			"Email": student.Email,
		})
	}
	if detail.Stale {
		s.logger.Warn("exporting roster from cached classroom", zap.String("id", id))
	}
	return s.render(dataset, format, "roster-"+slug(detail.Classroom.Name))
}

func (s *ExportService) render(dataset export.Dataset, format, base string) (*ExportResult, error) {
	renderer, err := export.New(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("%s-%s.%s", base, s.now().UTC().Format("20060102-150405"), renderer.Extension())
	return &ExportResult{Filename: filename, Format: renderer.Extension(), Data: data}, nil
}

func slug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	dash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "classroom"
	}
	return out
}
