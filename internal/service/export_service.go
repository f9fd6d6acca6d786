package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
	"github.com/noah-isme/exam-planner-api/pkg/export"
	"github.com/noah-isme/exam-planner-api/pkg/jobs"
)

const jobTypeSeatingRender = "seating_pdf_render"

type seatingRenderPayload struct {
	DepartmentID string `json:"department_id"`
	EventID      string `json:"event_id"`
}

// ExportConfig tunes the export pipeline.
type ExportConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
	CacheTTL          time.Duration
}

// ExportService renders schedules to CSV and seating plans to PDF. PDF
// rendering also runs in the background right after seat assignment so
// the first download is usually a cache hit.
type ExportService struct {
	events   plannerEventRepository
	seats    seatingSeatRepository
	rooms    plannerRoomRepository
	cache    plannerCache
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	queue    *jobs.Queue
	logger   *zap.Logger
	metrics  *MetricsService
	cacheTTL time.Duration
}

// NewExportService constructs an ExportService with its render queue.
func NewExportService(
	events plannerEventRepository,
	seats seatingSeatRepository,
	rooms plannerRoomRepository,
	cache plannerCache,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg ExportConfig,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	s := &ExportService{
		events:   events,
		seats:    seats,
		rooms:    rooms,
		cache:    cache,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		metrics:  metrics,
		cacheTTL: cfg.CacheTTL,
	}
	s.queue = jobs.NewQueue("exports", s.handleRenderJob, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Queue exposes the render queue so the server can start and stop it.
func (s *ExportService) Queue() *jobs.Queue {
	return s.queue
}

func seatingPDFCacheKey(eventID string) string {
	return fmt.Sprintf("export:seating-pdf:%s", eventID)
}

// ScheduleCSV renders the department's schedule for one exam type.
func (s *ExportService) ScheduleCSV(ctx context.Context, departmentID, examType string) ([]byte, error) {
	if !validExamType(examType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown exam type")
	}

	events, err := s.events.ListByType(ctx, departmentID, examType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	roomCodes, err := s.roomCodeIndex(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	headers := []string{"Course", "Title", "Instructor", "Date", "Start", "End", "Rooms"}
	dataset := export.Dataset{Headers: headers}
	for _, event := range events {
		instructor := ""
		if event.Instructor != nil {
			instructor = *event.Instructor
		}
		rooms := ""
		for i, roomID := range event.RoomIDs {
			if i > 0 {
				rooms += ", "
			}
			if code, ok := roomCodes[roomID]; ok {
				rooms += code
			} else {
				rooms += roomID
			}
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Course":     event.CourseCode,
			"Title":      event.CourseTitle,
			"Instructor": instructor,
			"Date":       event.StartAt.Format("2006-01-02"),
			"Start":      event.StartAt.Format("15:04"),
			"End":        event.EndAt.Format("15:04"),
			"Rooms":      rooms,
		})
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule csv")
	}
	return payload, nil
}

// SeatingPDF returns the seating plan PDF for one event, rendering on
// a cache miss.
func (s *ExportService) SeatingPDF(ctx context.Context, departmentID, eventID string) ([]byte, error) {
	var cached []byte
	if err := s.cache.Get(ctx, seatingPDFCacheKey(eventID), &cached); err == nil && len(cached) > 0 {
		s.metrics.RecordCacheOperation("seating_pdf", "hit")
		return cached, nil
	}
	s.metrics.RecordCacheOperation("seating_pdf", "miss")
	return s.renderSeatingPDF(ctx, departmentID, eventID)
}

// EnqueueSeatingRender schedules a background render so the PDF is
// already cached by the time it is first requested. Failures only cost
// the pre-warm; the download path renders inline on a cache miss.
func (s *ExportService) EnqueueSeatingRender(departmentID, eventID string) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeSeatingRender,
		Payload: seatingRenderPayload{DepartmentID: departmentID, EventID: eventID},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue seating render", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *ExportService) handleRenderJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(seatingRenderPayload)
	if !ok {
		s.logger.Error("unexpected payload on render job", zap.String("job_id", job.ID))
		return nil
	}
	_, err := s.renderSeatingPDF(ctx, payload.DepartmentID, payload.EventID)
	return err
}

func (s *ExportService) renderSeatingPDF(ctx context.Context, departmentID, eventID string) ([]byte, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam event")
	}
	if event.DepartmentID != departmentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "event belongs to another department")
	}

	details, err := s.seats.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seat assignments")
	}
	if len(details) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no seat assignments for this event")
	}

	grids := make([]export.SeatingGrid, 0, len(event.RoomIDs))
	gridByRoom := make(map[string]int, len(event.RoomIDs))
	for _, roomID := range event.RoomIDs {
		room, err := s.rooms.FindByID(ctx, roomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "event room no longer exists")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
		gridByRoom[room.ID] = len(grids)
		grids = append(grids, export.SeatingGrid{
			RoomCode:  room.Code,
			RoomName:  room.Name,
			Width:     room.Width,
			Depth:     room.Depth,
			Occupants: make(map[string]string),
		})
	}

	for _, seat := range details {
		idx, ok := gridByRoom[seat.RoomID]
		if !ok {
			continue
		}
		grids[idx].Occupants[export.SeatKey(seat.Row, seat.Column)] = seat.StudentNumber
	}

	title := fmt.Sprintf("%s seating %s", event.ExamType, event.StartAt.Format("2006-01-02 15:04"))
	payload, err := s.pdf.RenderSeatingGrids(title, grids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render seating pdf")
	}

	if err := s.cache.Set(ctx, seatingPDFCacheKey(eventID), payload, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache seating pdf", zap.Error(err))
	}
	return payload, nil
}

func (s *ExportService) roomCodeIndex(ctx context.Context, departmentID string) (map[string]string, error) {
	rooms, err := s.rooms.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	index := make(map[string]string, len(rooms))
	for _, room := range rooms {
		index[room.ID] = room.Code
	}
	return index, nil
}
