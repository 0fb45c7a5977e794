package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/cache"
	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository"
)

// BlockInput — данные блокировки из запроса админа
type BlockInput struct {
	Name       string     `json:"name"`
	BlockType  string     `json:"block_type"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	DayOfWeek  *int       `json:"day_of_week"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	ResourceID *int64     `json:"resource_id"`
	Reason     string     `json:"reason"`
}

// ApplyAllResult — итог ручной синхронизации блокировок в таблицу расписания
type ApplyAllResult struct {
	BlocksProcessed int   `json:"blocks_processed"`
	SlotsUpdated    int64 `json:"slots_updated"`
}

// BlockService управляет административными блокировками расписания.
// Обычно блокировки накладываются лениво при чтении; apply-all существует
// для легаси-потребителей, читающих только сырой флаг из таблицы.
type BlockService struct {
	pool      *pgxpool.Pool
	blockRepo *repository.BlockRepository
	cache     *cache.ScheduleCache
	logger    *zap.Logger
}

func NewBlockService(
	pool *pgxpool.Pool,
	blockRepo *repository.BlockRepository,
	scheduleCache *cache.ScheduleCache,
	logger *zap.Logger,
) *BlockService {
	return &BlockService{
		pool:      pool,
		blockRepo: blockRepo,
		cache:     scheduleCache,
		logger:    logger,
	}
}

func validateBlockInput(in *BlockInput) (*model.ScheduleBlock, error) {
	if in.Name == "" {
		return nil, validationErrorf("название блокировки обязательно")
	}

	start, err := model.ParseDayTime(in.StartTime)
	if err != nil {
		return nil, validationErrorf("некорректное время начала: %v", err)
	}
	end, err := model.ParseDayTime(in.EndTime)
	if err != nil {
		return nil, validationErrorf("некорректное время окончания: %v", err)
	}
	if end <= start {
		return nil, validationErrorf("время окончания должно быть позже времени начала")
	}

	block := &model.ScheduleBlock{
		Name:       in.Name,
		StartTime:  start,
		EndTime:    end,
		ResourceID: in.ResourceID,
		Reason:     in.Reason,
		IsActive:   true,
	}

	switch model.BlockType(in.BlockType) {
	case model.BlockTypeSpecific:
		if in.StartDate == nil || in.EndDate == nil {
			return nil, validationErrorf("для разовой блокировки обязательны даты начала и окончания")
		}
		if in.EndDate.Before(*in.StartDate) {
			return nil, validationErrorf("дата окончания раньше даты начала")
		}
		block.BlockType = model.BlockTypeSpecific
		block.StartDate = in.StartDate
		block.EndDate = in.EndDate
	case model.BlockTypeRecurring:
		if in.DayOfWeek == nil || *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
			return nil, validationErrorf("для еженедельной блокировки нужен день недели от 0 до 6")
		}
		block.BlockType = model.BlockTypeRecurring
		block.DayOfWeek = in.DayOfWeek
	default:
		return nil, validationErrorf("неизвестный тип блокировки %q", in.BlockType)
	}

	return block, nil
}

// Create создаёт блокировку
func (s *BlockService) Create(ctx context.Context, in *BlockInput) (*model.ScheduleBlock, error) {
	block, err := validateBlockInput(in)
	if err != nil {
		return nil, err
	}

	if err := s.blockRepo.Create(ctx, block); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)

	s.logger.Info("Schedule block created",
		zap.Int64("block_id", block.ID),
		zap.String("name", block.Name),
		zap.String("type", string(block.BlockType)),
	)

	return block, nil
}

// Update обновляет блокировку
func (s *BlockService) Update(ctx context.Context, id int64, in *BlockInput) (*model.ScheduleBlock, error) {
	existing, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	block, err := validateBlockInput(in)
	if err != nil {
		return nil, err
	}
	block.ID = id
	block.IsActive = existing.IsActive
	block.CreatedAt = existing.CreatedAt

	if err := s.blockRepo.Update(ctx, block); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)

	return block, nil
}

// Toggle включает/выключает блокировку; исключения при этом не трогаются
func (s *BlockService) Toggle(ctx context.Context, id int64) (*model.ScheduleBlock, error) {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, ErrNotFound
	}

	block.IsActive = !block.IsActive
	if err := s.blockRepo.SetActive(ctx, id, block.IsActive); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)

	return block, nil
}

// Delete удаляет блокировку вместе с исключениями
func (s *BlockService) Delete(ctx context.Context, id int64) error {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if block == nil {
		return ErrNotFound
	}

	if err := s.blockRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidateAll(ctx)

	return nil
}

// List возвращает все блокировки
func (s *BlockService) List(ctx context.Context) ([]*model.ScheduleBlock, error) {
	return s.blockRepo.GetAll(ctx)
}

// AddException точечно отменяет действие блокировки для одного слота
func (s *BlockService) AddException(ctx context.Context, blockID int64, date time.Time, startTime string, resourceID int64) (*model.ScheduleBlockException, error) {
	start, err := model.ParseDayTime(startTime)
	if err != nil {
		return nil, validationErrorf("некорректное время: %v", err)
	}

	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, ErrNotFound
	}

	exception := &model.ScheduleBlockException{
		BlockID:    blockID,
		Date:       date,
		StartTime:  start,
		ResourceID: resourceID,
	}
	if err := s.blockRepo.CreateException(ctx, exception); err != nil {
		return nil, err
	}

	s.cache.InvalidateDates(ctx, date)

	s.logger.Info("Block exception added",
		zap.Int64("block_id", blockID),
		zap.Time("date", date),
		zap.String("start_time", start),
		zap.Int64("resource_id", resourceID),
	)

	return exception, nil
}

// RemoveException удаляет исключение, блокировка снова действует на слот
func (s *BlockService) RemoveException(ctx context.Context, blockID int64, date time.Time, startTime string, resourceID int64) error {
	start, err := model.ParseDayTime(startTime)
	if err != nil {
		return validationErrorf("некорректное время: %v", err)
	}

	found, err := s.blockRepo.DeleteException(ctx, blockID, date, start, resourceID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	s.cache.InvalidateDates(ctx, date)

	return nil
}

// ApplyAll проставляет is_blocked всем слотам горизонта, накрытым активными
// блокировками без исключений. Ручная админская операция, одна транзакция.
func (s *BlockService) ApplyAll(ctx context.Context) (*ApplyAllResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	blockRepo := s.blockRepo.WithTx(tx)
	blocks, err := blockRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &ApplyAllResult{}
	for _, block := range blocks {
		updated, err := blockRepo.ApplyToSchedule(ctx, block)
		if err != nil {
			return nil, err
		}
		result.BlocksProcessed++
		result.SlotsUpdated += updated
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.cache.InvalidateAll(ctx)

	s.logger.Info("Blocks applied to schedule",
		zap.Int("blocks_processed", result.BlocksProcessed),
		zap.Int64("slots_updated", result.SlotsUpdated),
	)

	return result, nil
}

// cannedBlocks — готовые наборы еженедельных блокировок
var cannedBlocks = map[string][]BlockInput{
	"lunch": blockSet("Обед", "13:00", "14:00", "обеденный перерыв", 1, 2, 3, 4, 5),
	"tech_break": blockSet("Техперерыв", "15:00", "15:30", "обслуживание тренажёров",
		0, 1, 2, 3, 4, 5, 6),
	"morning_break": blockSet("Утренний перерыв", "10:00", "10:30", "подготовка зала",
		0, 1, 2, 3, 4, 5, 6),
	"evening_break": blockSet("Вечерний перерыв", "20:30", "21:00", "закрытие зала",
		0, 1, 2, 3, 4, 5, 6),
}

func blockSet(name, start, end, reason string, days ...int) []BlockInput {
	inputs := make([]BlockInput, 0, len(days))
	for _, day := range days {
		d := day
		inputs = append(inputs, BlockInput{
			Name:      name,
			BlockType: string(model.BlockTypeRecurring),
			DayOfWeek: &d,
			StartTime: start,
			EndTime:   end,
			Reason:    reason,
		})
	}
	return inputs
}

// CreateFromTemplate разворачивает готовый набор блокировок одним вызовом
func (s *BlockService) CreateFromTemplate(ctx context.Context, templateName string) ([]*model.ScheduleBlock, error) {
	inputs, ok := cannedBlocks[templateName]
	if !ok {
		return nil, validationErrorf("неизвестный шаблон блокировок %q", templateName)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	blockRepo := s.blockRepo.WithTx(tx)
	blocks := make([]*model.ScheduleBlock, 0, len(inputs))
	for i := range inputs {
		block, err := validateBlockInput(&inputs[i])
		if err != nil {
			return nil, err
		}
		if err := blockRepo.Create(ctx, block); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.cache.InvalidateAll(ctx)

	s.logger.Info("Canned blocks created",
		zap.String("template", templateName),
		zap.Int("count", len(blocks)),
	)

	return blocks, nil
}
