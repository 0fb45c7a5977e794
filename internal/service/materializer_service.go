package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/events"
	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/notify"
	"github.com/snowpro-school/schedule-service/internal/repository"
)

// MaterializationResult — итог одного прогона материализации
type MaterializationResult struct {
	RunID         uuid.UUID                 `json:"run_id"`
	From          time.Time                 `json:"from"`
	To            time.Time                 `json:"to"`
	SlotsCreated  int64                     `json:"slots_created"`
	SuccessCount  int                       `json:"success_count"`
	ConflictCount int                       `json:"conflict_count"`
	Conflicts     []MaterializationConflict `json:"conflicts"`
}

// TemplatePreview — даты, которые шаблон произвёл бы за месяц, без записи в БД
type TemplatePreview struct {
	TemplateID int64                     `json:"template_id"`
	Dates      []string                  `json:"dates"`
	Conflicts  []MaterializationConflict `json:"conflicts"`
}

// MaterializerService разворачивает активные шаблоны в конкретные тренировки.
// Генерация слотов и вставка тренировок идут в одной транзакции: ошибка БД
// откатывает весь прогон целиком. Конфликты дат ошибками не считаются.
type MaterializerService struct {
	pool         *pgxpool.Pool
	calendar     *CalendarService
	templateRepo *repository.TemplateRepository
	sessionRepo  *repository.SessionRepository
	rateRepo     *repository.RateRepository
	notify       *notify.Service
	events       *events.Publisher
	logger       *zap.Logger
}

func NewMaterializerService(
	pool *pgxpool.Pool,
	calendar *CalendarService,
	templateRepo *repository.TemplateRepository,
	sessionRepo *repository.SessionRepository,
	rateRepo *repository.RateRepository,
	notifySvc *notify.Service,
	publisher *events.Publisher,
	logger *zap.Logger,
) *MaterializerService {
	return &MaterializerService{
		pool:         pool,
		calendar:     calendar,
		templateRepo: templateRepo,
		sessionRepo:  sessionRepo,
		rateRepo:     rateRepo,
		notify:       notifySvc,
		events:       publisher,
		logger:       logger,
	}
}

// slotBooker — кусок SlotRepository, нужный материализации
type slotBooker interface {
	MarkRange(ctx context.Context, resourceID int64, date time.Time, start, end string, booked bool) (int64, error)
}

// bookPlannedRanges занимает календарные слоты под каждую запланированную
// тренировку. Без этого сетка показывала бы занятое шаблоном время свободным.
func bookPlannedRanges(ctx context.Context, slots slotBooker, planned []PlannedSession) (int64, error) {
	var booked int64
	for _, p := range planned {
		n, err := slots.MarkRange(ctx, p.Template.ResourceID, p.Date, p.StartTime, p.EndTime, true)
		if err != nil {
			return booked, err
		}
		booked += n
	}

	return booked, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthBounds(target time.Time) (time.Time, time.Time) {
	start := time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// MaterializeMonth генерирует слоты месяца и материализует шаблоны в тренировки
func (s *MaterializerService) MaterializeMonth(ctx context.Context, target time.Time) (*MaterializationResult, error) {
	from, to := monthBounds(target)
	return s.materialize(ctx, from, to, true)
}

// ApplyCurrentRange применяет шаблоны к уже сгенерированному горизонту слотов,
// начиная с сегодняшнего дня. Используется админом после добавления шаблона
// посреди месяца.
func (s *MaterializerService) ApplyCurrentRange(ctx context.Context) (*MaterializationResult, error) {
	horizon, err := s.calendar.slotRepo.HorizonMaxDate(ctx)
	if err != nil {
		return nil, err
	}

	from := dateOnly(time.Now())
	if horizon == nil || horizon.Before(from) {
		return nil, validationErrorf("расписание ещё не сгенерировано, применять шаблоны не к чему")
	}

	return s.materialize(ctx, from, dateOnly(*horizon), false)
}

func (s *MaterializerService) materialize(ctx context.Context, from, to time.Time, generateSlots bool) (*MaterializationResult, error) {
	runID := uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var slotsCreated int64
	if generateSlots {
		slotsCreated, err = s.calendar.GenerateRange(ctx, tx, from, to)
		if err != nil {
			return nil, err
		}
	}

	templates, err := s.templateRepo.WithTx(tx).GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.sessionRepo.WithTx(tx).GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	planned, conflicts := PlanRange(templates, existing, from, to)

	sessionRepo := s.sessionRepo.WithTx(tx)
	rateRepo := s.rateRepo.WithTx(tx)
	for _, p := range planned {
		price, err := rateRepo.GetPrice(ctx, true, p.Template.WithTrainer(), p.Template.MaxParticipants, templateSessionMinutes)
		if err != nil {
			return nil, err
		}
		if price == nil {
			// отсутствие тарифа не фатально: тренировка создаётся с нулевой ценой
			s.logger.Warn("no rate found for template, price set to 0",
				zap.Int64("template_id", p.Template.ID),
				zap.Int("participants", p.Template.MaxParticipants),
			)
			zero := 0.0
			price = &zero
		}

		templateID := p.Template.ID
		session := &model.Session{
			ResourceID:      p.Template.ResourceID,
			TrainerID:       p.Template.TrainerID,
			GroupID:         p.Template.GroupID,
			TemplateID:      &templateID,
			SessionDate:     p.Date,
			StartTime:       p.StartTime,
			EndTime:         p.EndTime,
			DurationMinutes: templateSessionMinutes,
			IsGroup:         true,
			MaxParticipants: p.Template.MaxParticipants,
			SkillLevel:      p.Template.SkillLevel,
			Price:           *price,
			Status:          model.SessionStatusScheduled,
		}
		if err := sessionRepo.Create(ctx, session); err != nil {
			return nil, err
		}
	}

	slotsBooked, err := bookPlannedRanges(ctx, s.calendar.slotRepo.WithTx(tx), planned)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	result := &MaterializationResult{
		RunID:         runID,
		From:          from,
		To:            to,
		SlotsCreated:  slotsCreated,
		SuccessCount:  len(planned),
		ConflictCount: len(conflicts),
		Conflicts:     conflicts,
	}

	s.logger.Info("Materialization completed",
		zap.String("run_id", runID.String()),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("slots_created", slotsCreated),
		zap.Int64("slots_booked", slotsBooked),
		zap.Int("sessions_created", result.SuccessCount),
		zap.Int("conflicts", result.ConflictCount),
	)

	s.report(ctx, result, generateSlots)

	return result, nil
}

// report рассылает админские сводки и доменное событие уже после COMMIT
func (s *MaterializerService) report(ctx context.Context, r *MaterializationResult, slotsGenerated bool) {
	go func() {
		ctx := context.WithoutCancel(ctx)

		if slotsGenerated {
			s.notify.NotifyAdmins(ctx, notify.ScheduleCreatedMessage(r.From, r.To, r.SlotsCreated))
		}
		s.notify.NotifyAdmins(ctx, notify.RecurringTrainingsCreatedMessage(r.From, r.To, r.SuccessCount))

		if len(r.Conflicts) > 0 {
			infos := make([]notify.ConflictInfo, 0, len(r.Conflicts))
			for _, c := range r.Conflicts {
				infos = append(infos, notify.ConflictInfo{
					TemplateName: c.TemplateName,
					Date:         c.Date,
					StartTime:    c.StartTime,
					ResourceID:   c.ResourceID,
					ConflictWith: c.ConflictWith,
				})
			}
			s.notify.NotifyAdmins(ctx, notify.ConflictsMessage(infos))
		}

		s.events.Publish(ctx, events.QueueScheduleMaterialized, events.ScheduleMaterializedEvent{
			RunID:         r.RunID.String(),
			From:          r.From.Format("2006-01-02"),
			To:            r.To.Format("2006-01-02"),
			SlotsCreated:  r.SlotsCreated,
			SuccessCount:  r.SuccessCount,
			ConflictCount: r.ConflictCount,
			OccurredAt:    time.Now().UTC(),
		})
	}()
}

// Rates возвращает тарифную таблицу
func (s *MaterializerService) Rates(ctx context.Context) ([]*model.TrainingRate, error) {
	return s.rateRepo.GetAll(ctx)
}

// PreviewTemplate показывает какие даты шаблон произвёл бы за месяц
func (s *MaterializerService) PreviewTemplate(ctx context.Context, templateID int64, target time.Time) (*TemplatePreview, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrNotFound
	}

	from, to := monthBounds(target)
	existing, err := s.sessionRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// предпросмотр игнорирует is_active: админ хочет видеть будущий эффект
	preview := *template
	preview.IsActive = true
	planned, conflicts := PlanRange([]*model.RecurringTemplate{&preview}, existing, from, to)

	dates := make([]string, 0, len(planned))
	for _, p := range planned {
		dates = append(dates, p.Date.Format("2006-01-02"))
	}

	return &TemplatePreview{
		TemplateID: templateID,
		Dates:      dates,
		Conflicts:  conflicts,
	}, nil
}
