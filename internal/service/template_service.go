package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

// TemplateInput — данные шаблона из запроса админа
type TemplateInput struct {
	Name            string `json:"name"`
	DayOfWeek       int    `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	ResourceID      int64  `json:"resource_id"`
	TrainerID       *int64 `json:"trainer_id"`
	GroupID         *int64 `json:"group_id"`
	SkillLevel      string `json:"skill_level"`
	MaxParticipants int    `json:"max_participants"`
	EquipmentType   string `json:"equipment_type"`
}

// TemplateService — CRUD шаблонов с одним защищаемым инвариантом:
// не больше одного активного шаблона на тройку (день недели, время, тренажёр)
type TemplateService struct {
	templateRepo *repository.TemplateRepository
	resourceRepo *repository.ResourceRepository
	logger       *zap.Logger
}

func NewTemplateService(
	templateRepo *repository.TemplateRepository,
	resourceRepo *repository.ResourceRepository,
	logger *zap.Logger,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// validateTemplateInput нормализует и проверяет ввод до обращения к БД
func validateTemplateInput(in *TemplateInput) error {
	if in.Name == "" {
		return validationErrorf("название шаблона обязательно")
	}
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return validationErrorf("день недели должен быть от 0 до 6, получено %d", in.DayOfWeek)
	}

	start, err := model.ParseDayTime(in.StartTime)
	if err != nil {
		return validationErrorf("некорректное время начала: %v", err)
	}
	in.StartTime = start

	if model.DayTimeMinutes(start)+templateSessionMinutes >= 24*60 {
		return validationErrorf("тренировка не может пересекать полночь")
	}
	if in.ResourceID <= 0 {
		return validationErrorf("тренажёр обязателен")
	}
	if in.MaxParticipants <= 0 {
		return validationErrorf("число участников должно быть положительным")
	}

	return nil
}

// checkConflict отклоняет шаблон, если тройка (день, время, тренажёр) уже занята
// другим активным шаблоном. В ошибке называется конфликтующий шаблон.
func (s *TemplateService) checkConflict(ctx context.Context, in *TemplateInput, excludeID int64) error {
	conflict, err := s.templateRepo.FindActiveConflict(ctx, in.DayOfWeek, in.StartTime, in.ResourceID, excludeID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &ConflictError{
			Msg:          fmt.Sprintf("время уже занято активным шаблоном %q", conflict.Name),
			ConflictWith: conflict.Name,
		}
	}
	return nil
}

// Create создаёт активный шаблон
func (s *TemplateService) Create(ctx context.Context, in *TemplateInput) (*model.RecurringTemplate, error) {
	if err := validateTemplateInput(in); err != nil {
		return nil, err
	}

	resource, err := s.resourceRepo.GetByID(ctx, in.ResourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, validationErrorf("тренажёр %d не существует", in.ResourceID)
	}

	if err := s.checkConflict(ctx, in, 0); err != nil {
		return nil, err
	}

	template := &model.RecurringTemplate{
		Name:            in.Name,
		DayOfWeek:       in.DayOfWeek,
		StartTime:       in.StartTime,
		ResourceID:      in.ResourceID,
		TrainerID:       in.TrainerID,
		GroupID:         in.GroupID,
		SkillLevel:      in.SkillLevel,
		MaxParticipants: in.MaxParticipants,
		EquipmentType:   in.EquipmentType,
		IsActive:        true,
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	s.logger.Info("Template created",
		zap.Int64("template_id", template.ID),
		zap.String("name", template.Name),
		zap.Int("day_of_week", template.DayOfWeek),
		zap.String("start_time", template.StartTime),
	)

	return template, nil
}

// Update обновляет шаблон, сохраняя инвариант уникальности тройки
func (s *TemplateService) Update(ctx context.Context, id int64, in *TemplateInput) (*model.RecurringTemplate, error) {
	if err := validateTemplateInput(in); err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrNotFound
	}

	if template.IsActive {
		if err := s.checkConflict(ctx, in, id); err != nil {
			return nil, err
		}
	}

	template.Name = in.Name
	template.DayOfWeek = in.DayOfWeek
	template.StartTime = in.StartTime
	template.ResourceID = in.ResourceID
	template.TrainerID = in.TrainerID
	template.GroupID = in.GroupID
	template.SkillLevel = in.SkillLevel
	template.MaxParticipants = in.MaxParticipants
	template.EquipmentType = in.EquipmentType

	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

// Toggle включает/выключает шаблон. Влияет только на будущую материализацию,
// уже созданные тренировки не трогаются.
func (s *TemplateService) Toggle(ctx context.Context, id int64) (*model.RecurringTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrNotFound
	}

	if !template.IsActive {
		// включение тоже обязано соблюдать уникальность тройки
		in := &TemplateInput{
			DayOfWeek:  template.DayOfWeek,
			StartTime:  template.StartTime,
			ResourceID: template.ResourceID,
		}
		if err := s.checkConflict(ctx, in, id); err != nil {
			return nil, err
		}
	}

	template.IsActive = !template.IsActive
	if err := s.templateRepo.SetActive(ctx, id, template.IsActive); err != nil {
		if base.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.logger.Info("Template toggled",
		zap.Int64("template_id", id),
		zap.Bool("is_active", template.IsActive),
	)

	return template, nil
}

// List возвращает все шаблоны
func (s *TemplateService) List(ctx context.Context) ([]*model.RecurringTemplate, error) {
	return s.templateRepo.GetAll(ctx)
}

// Get возвращает шаблон по ID
func (s *TemplateService) Get(ctx context.Context, id int64) (*model.RecurringTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrNotFound
	}
	return template, nil
}
