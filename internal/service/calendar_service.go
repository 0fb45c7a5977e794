package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/cache"
	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository"
)

// Шаг сетки расписания
const slotStepMinutes = 30

// CalendarService отвечает за сетку 30-минутных слотов и её отображение
// с учётом броней и блокировок
type CalendarService struct {
	resourceRepo *repository.ResourceRepository
	slotRepo     *repository.SlotRepository
	blockRepo    *repository.BlockRepository
	cache        *cache.ScheduleCache
	logger       *zap.Logger
}

func NewCalendarService(
	resourceRepo *repository.ResourceRepository,
	slotRepo *repository.SlotRepository,
	blockRepo *repository.BlockRepository,
	scheduleCache *cache.ScheduleCache,
	logger *zap.Logger,
) *CalendarService {
	return &CalendarService{
		resourceRepo: resourceRepo,
		slotRepo:     slotRepo,
		blockRepo:    blockRepo,
		cache:        scheduleCache,
		logger:       logger,
	}
}

// GenerateRange создаёт слоты всех активных тренажёров на диапазон дат внутри
// переданной транзакции. Повторный запуск для заполненного диапазона ничего
// не дублирует (upsert по resource+date+start_time).
func (s *CalendarService) GenerateRange(ctx context.Context, tx pgx.Tx, from, to time.Time) (int64, error) {
	resources, err := s.resourceRepo.WithTx(tx).GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("get active resources: %w", err)
	}

	slotRepo := s.slotRepo.WithTx(tx)
	var created int64
	for _, res := range resources {
		n, err := slotRepo.BulkGenerate(ctx, res.ID, from, to, res.WorkStart, res.WorkEnd, slotStepMinutes)
		if err != nil {
			return created, fmt.Errorf("generate slots for resource %d: %w", res.ID, err)
		}
		created += n
	}

	s.logger.Info("Calendar slots generated",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("created", created),
	)

	return created, nil
}

// DaySchedule возвращает слоты на дату с эффективным статусом.
// Представление без фильтра по тренажёру кэшируется.
func (s *CalendarService) DaySchedule(ctx context.Context, date time.Time, resourceID *int64) ([]*model.SlotView, error) {
	if resourceID == nil {
		if views, ok := s.cache.GetDay(ctx, date); ok {
			return views, nil
		}
	}

	slots, err := s.slotRepo.GetByDate(ctx, date, resourceID)
	if err != nil {
		return nil, err
	}

	views, err := s.decorate(ctx, slots, date, date)
	if err != nil {
		return nil, err
	}

	if resourceID == nil {
		s.cache.SetDay(ctx, date, views)
	}

	return views, nil
}

// WeekSchedule возвращает слоты семи дней начиная с start
func (s *CalendarService) WeekSchedule(ctx context.Context, start time.Time, resourceID *int64) (map[string][]*model.SlotView, error) {
	end := start.AddDate(0, 0, 6)

	slots, err := s.slotRepo.GetByDateRange(ctx, start, end, resourceID)
	if err != nil {
		return nil, err
	}

	views, err := s.decorate(ctx, slots, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*model.SlotView, 7)
	for _, v := range views {
		key := v.Date.Format("2006-01-02")
		byDate[key] = append(byDate[key], v)
	}

	return byDate, nil
}

// decorate накладывает на слоты активные блокировки с их исключениями
func (s *CalendarService) decorate(ctx context.Context, slots []*model.CalendarSlot, from, to time.Time) ([]*model.SlotView, error) {
	blocks, err := s.blockRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	exceptions, err := s.blockRepo.GetExceptionsByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	views := make([]*model.SlotView, 0, len(slots))
	for _, slot := range slots {
		status, blockID := EffectiveStatus(slot, blocks, exceptions)
		views = append(views, &model.SlotView{
			CalendarSlot: *slot,
			Status:       status,
			BlockID:      blockID,
		})
	}

	return views, nil
}

// Resources возвращает список тренажёров
func (s *CalendarService) Resources(ctx context.Context) ([]*model.Resource, error) {
	return s.resourceRepo.GetAll(ctx)
}
