package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/notify"
	"github.com/snowpro-school/schedule-service/internal/repository"
	"github.com/snowpro-school/schedule-service/internal/service"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	materializer *service.MaterializerService
	slotRepo     *repository.SlotRepository
	sessionRepo  *repository.SessionRepository
	partRepo     *repository.ParticipantRepository
	resourceRepo *repository.ResourceRepository
	notify       *notify.Service
	logger       *zap.Logger
	stopChan     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(
	materializer *service.MaterializerService,
	slotRepo *repository.SlotRepository,
	sessionRepo *repository.SessionRepository,
	partRepo *repository.ParticipantRepository,
	resourceRepo *repository.ResourceRepository,
	notifySvc *notify.Service,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		materializer: materializer,
		slotRepo:     slotRepo,
		sessionRepo:  sessionRepo,
		partRepo:     partRepo,
		resourceRepo: resourceRepo,
		notify:       notifySvc,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runMaterializationTask(ctx)
	go s.runDailyDigestTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runMaterializationTask раз в сутки проверяет горизонт расписания
// и в конце месяца материализует следующий
func (s *Scheduler) runMaterializationTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.materializeNextMonth(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.materializeNextMonth(ctx)
		case <-s.stopChan:
			s.logger.Info("Materialization task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Materialization task cancelled")
			return
		}
	}
}

// materializeNextMonth генерирует слоты и тренировки на следующий месяц,
// если до конца текущего осталось меньше недели и слоты ещё не созданы
func (s *Scheduler) materializeNextMonth(ctx context.Context) {
	now := time.Now()
	if now.Day() < 25 {
		return
	}

	nextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	monthEnd := nextMonth.AddDate(0, 1, -1)

	exists, err := s.slotRepo.ExistsForRange(ctx, nextMonth, monthEnd)
	if err != nil {
		s.logger.Error("Failed to check schedule horizon", zap.Error(err))
		return
	}
	if exists {
		return
	}

	s.logger.Info("Materializing next month schedule",
		zap.String("month", nextMonth.Format("2006-01")))

	result, err := s.materializer.MaterializeMonth(ctx, nextMonth)
	if err != nil {
		s.logger.Error("Failed to materialize next month", zap.Error(err))
		return
	}

	s.logger.Info("Next month schedule materialized",
		zap.Int64("slots_created", result.SlotsCreated),
		zap.Int("sessions_created", result.SuccessCount),
		zap.Int("conflicts", result.ConflictCount))
}

// runDailyDigestTask раз в сутки отправляет администраторам сводку
// тренировок на завтра
func (s *Scheduler) runDailyDigestTask(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendDailyDigest(ctx)
		case <-s.stopChan:
			s.logger.Info("Daily digest task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Daily digest task cancelled")
			return
		}
	}
}

// sendDailyDigest собирает тренировки на завтра и шлёт сводку администраторам
func (s *Scheduler) sendDailyDigest(ctx context.Context) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	tomorrow = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)

	sessions, err := s.sessionRepo.GetByDate(ctx, tomorrow, nil)
	if err != nil {
		s.logger.Error("Failed to load sessions for digest", zap.Error(err))
		return
	}
	if len(sessions) == 0 {
		return
	}

	resources, err := s.resourceRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load resources for digest", zap.Error(err))
		return
	}
	resourceNames := make(map[int64]string, len(resources))
	for _, r := range resources {
		resourceNames[r.ID] = r.Name
	}

	digest := make([]notify.DigestSession, 0, len(sessions))
	for _, sess := range sessions {
		count, err := s.partRepo.CountConfirmed(ctx, sess.ID)
		if err != nil {
			s.logger.Warn("Failed to count participants for digest",
				zap.Int64("session_id", sess.ID), zap.Error(err))
		}
		digest = append(digest, notify.DigestSession{
			ResourceName: resourceNames[sess.ResourceID],
			StartTime:    sess.StartTime,
			EndTime:      sess.EndTime,
			Participants: count,
		})
	}

	s.notify.NotifyAdmins(ctx, notify.DailyDigestMessage(tomorrow, digest))
	s.logger.Info("Daily digest sent", zap.Int("sessions", len(digest)))
}
