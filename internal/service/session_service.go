package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/cache"
	"github.com/snowpro-school/schedule-service/internal/events"
	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/notify"
	"github.com/snowpro-school/schedule-service/internal/repository"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

// SessionInput — параметры создания/обновления тренировки админом
type SessionInput struct {
	ResourceID      int64
	TrainerID       *int64
	GroupID         *int64
	Date            time.Time
	StartTime       string
	DurationMinutes int
	IsGroup         bool
	MaxParticipants int
	SkillLevel      string
	Price           float64
}

// RefundResult — итог возврата одному участнику
type RefundResult struct {
	SessionID  int64   `json:"session_id"`
	ClientID   int64   `json:"client_id"`
	ClientName string  `json:"client_name"`
	WalletID   int64   `json:"wallet_id"`
	Amount     float64 `json:"amount"`
	Credited   bool    `json:"credited"` // false — возврат уже был сделан раньше
	chatID     *int64
}

// CancellationResult — итог отмены одной тренировки
type CancellationResult struct {
	Session     *model.Session `json:"session"`
	Refunds     []RefundResult `json:"refunds"`
	TotalRefund float64        `json:"total_refund"`
}

// TemplateCancellationResult — итог каскадной отмены шаблона
type TemplateCancellationResult struct {
	TemplateID   int64            `json:"template_id"`
	TemplateName string           `json:"template_name"`
	DeletedCount int              `json:"deleted_count"`
	TotalRefund  float64          `json:"total_refund"`
	Refunds      []RefundResult   `json:"refunds"`
	Sessions     []*model.Session `json:"sessions"`
}

// AdminScheduleView — тренировки одного тренажёра для сводного вида
type AdminScheduleView struct {
	Resource *model.Resource  `json:"resource"`
	Sessions []*model.Session `json:"sessions"`
}

// SessionService управляет жизненным циклом тренировок: создание и обновление
// с бронированием слотов, отмена с возвратами подтверждённым участникам.
// Отмена мягкая: тренировка переводится в cancelled, строка остаётся для истории.
type SessionService struct {
	pool            *pgxpool.Pool
	sessionRepo     *repository.SessionRepository
	slotRepo        *repository.SlotRepository
	participantRepo *repository.ParticipantRepository
	walletRepo      *repository.WalletRepository
	templateRepo    *repository.TemplateRepository
	resourceRepo    *repository.ResourceRepository
	clientRepo      *repository.ClientRepository
	notify          *notify.Service
	events          *events.Publisher
	cache           *cache.ScheduleCache
	logger          *zap.Logger
}

func NewSessionService(
	pool *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	slotRepo *repository.SlotRepository,
	participantRepo *repository.ParticipantRepository,
	walletRepo *repository.WalletRepository,
	templateRepo *repository.TemplateRepository,
	resourceRepo *repository.ResourceRepository,
	clientRepo *repository.ClientRepository,
	notifySvc *notify.Service,
	publisher *events.Publisher,
	scheduleCache *cache.ScheduleCache,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		pool:            pool,
		sessionRepo:     sessionRepo,
		slotRepo:        slotRepo,
		participantRepo: participantRepo,
		walletRepo:      walletRepo,
		templateRepo:    templateRepo,
		resourceRepo:    resourceRepo,
		clientRepo:      clientRepo,
		notify:          notifySvc,
		events:          publisher,
		cache:           scheduleCache,
		logger:          logger,
	}
}

// validateSessionInput нормализует времена и проверяет ввод
func validateSessionInput(in *SessionInput) error {
	start, err := model.ParseDayTime(in.StartTime)
	if err != nil {
		return validationErrorf("некорректное время начала: %v", err)
	}
	in.StartTime = start

	if in.ResourceID <= 0 {
		return validationErrorf("тренажёр обязателен")
	}
	if in.Date.IsZero() {
		return validationErrorf("дата обязательна")
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = templateSessionMinutes
	}
	if in.DurationMinutes < slotStepMinutes || in.DurationMinutes%slotStepMinutes != 0 {
		return validationErrorf("длительность должна быть кратна %d минутам", slotStepMinutes)
	}
	if in.MaxParticipants <= 0 {
		return validationErrorf("число участников должно быть положительным")
	}
	if in.Price < 0 {
		return validationErrorf("цена не может быть отрицательной")
	}
	// конец дня непредставим в "HH:MM:SS", тренировка обязана кончаться до полуночи
	if model.DayTimeMinutes(in.StartTime)+in.DurationMinutes >= 24*60 {
		return validationErrorf("тренировка не может пересекать полночь")
	}

	return nil
}

// refundDescription кодирует контекст тренировки в описании транзакции
// для последующей сверки журнала
func refundDescription(s *model.Session) string {
	desc := fmt.Sprintf("Возврат за тренировку %s %s–%s (%d мин)",
		s.SessionDate.Format("02.01.2006"), s.StartTime[:5], s.EndTime[:5], s.DurationMinutes)
	if s.GroupID != nil {
		desc += fmt.Sprintf(", группа %d", *s.GroupID)
	}
	return desc
}

// Create создаёт разовую тренировку: проверяет слот и пересечения,
// бронирует диапазон слотов, после COMMIT рассылает анонс
func (s *SessionService) Create(ctx context.Context, in *SessionInput) (*model.Session, error) {
	if err := validateSessionInput(in); err != nil {
		return nil, err
	}

	resource, err := s.resourceRepo.GetByID(ctx, in.ResourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil || !resource.IsActive {
		return nil, validationErrorf("тренажёр %d не существует или выключен", in.ResourceID)
	}

	endTime := model.AddMinutes(in.StartTime, in.DurationMinutes)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	slotRepo := s.slotRepo.WithTx(tx)

	exists, err := slotRepo.SlotExists(ctx, in.ResourceID, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, validationErrorf("слот %s %s не существует в расписании",
			in.Date.Format("2006-01-02"), in.StartTime[:5])
	}

	// строчная блокировка слотов закрывает гонку двух одновременных бронирований
	if err := slotRepo.LockRange(ctx, in.ResourceID, in.Date, in.StartTime, endTime); err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, tx, in.ResourceID, in.Date, in.StartTime, endTime, 0); err != nil {
		return nil, err
	}

	session := &model.Session{
		ResourceID:      in.ResourceID,
		TrainerID:       in.TrainerID,
		GroupID:         in.GroupID,
		SessionDate:     in.Date,
		StartTime:       in.StartTime,
		EndTime:         endTime,
		DurationMinutes: in.DurationMinutes,
		IsGroup:         in.IsGroup,
		MaxParticipants: in.MaxParticipants,
		SkillLevel:      in.SkillLevel,
		Price:           in.Price,
		Status:          model.SessionStatusScheduled,
	}

	if err := s.sessionRepo.WithTx(tx).Create(ctx, session); err != nil {
		// частичный уникальный индекс по активным тренировкам — последний рубеж
		// против гонки, которую не поймал FindOverlapping
		if base.IsUniqueViolation(err) {
			return nil, &ConflictError{Msg: "время уже занято другой тренировкой"}
		}
		return nil, err
	}

	if _, err := slotRepo.MarkRange(ctx, in.ResourceID, in.Date, in.StartTime, endTime, true); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.cache.InvalidateDates(ctx, session.SessionDate)

	s.logger.Info("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("resource_id", session.ResourceID),
		zap.Time("date", session.SessionDate),
		zap.String("start_time", session.StartTime),
	)

	s.broadcastCreated(ctx, session, resource.Name)

	return session, nil
}

// Update переносит тренировку: старый диапазон слотов освобождается,
// новый бронируется, обе записи в одной транзакции
func (s *SessionService) Update(ctx context.Context, id int64, in *SessionInput) (*model.Session, error) {
	if err := validateSessionInput(in); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.Status != model.SessionStatusScheduled {
		return nil, validationErrorf("тренировка %d не в статусе scheduled", id)
	}

	endTime := model.AddMinutes(in.StartTime, in.DurationMinutes)
	oldDate := session.SessionDate

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	slotRepo := s.slotRepo.WithTx(tx)

	exists, err := slotRepo.SlotExists(ctx, in.ResourceID, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, validationErrorf("слот %s %s не существует в расписании",
			in.Date.Format("2006-01-02"), in.StartTime[:5])
	}

	if err := slotRepo.LockRange(ctx, in.ResourceID, in.Date, in.StartTime, endTime); err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, tx, in.ResourceID, in.Date, in.StartTime, endTime, id); err != nil {
		return nil, err
	}

	// освобождаем старый диапазон, бронируем новый
	if _, err := slotRepo.MarkRange(ctx, session.ResourceID, session.SessionDate, session.StartTime, session.EndTime, false); err != nil {
		return nil, err
	}
	if _, err := slotRepo.MarkRange(ctx, in.ResourceID, in.Date, in.StartTime, endTime, true); err != nil {
		return nil, err
	}

	session.ResourceID = in.ResourceID
	session.TrainerID = in.TrainerID
	session.GroupID = in.GroupID
	session.SessionDate = in.Date
	session.StartTime = in.StartTime
	session.EndTime = endTime
	session.DurationMinutes = in.DurationMinutes
	session.IsGroup = in.IsGroup
	session.MaxParticipants = in.MaxParticipants
	session.SkillLevel = in.SkillLevel
	session.Price = in.Price

	if err := s.sessionRepo.WithTx(tx).Update(ctx, session); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.cache.InvalidateDates(ctx, oldDate, session.SessionDate)

	s.logger.Info("Session updated",
		zap.Int64("session_id", session.ID),
		zap.Time("date", session.SessionDate),
		zap.String("start_time", session.StartTime),
	)

	return session, nil
}

// Cancel отменяет тренировку: каждому подтверждённому участнику возвращается
// полная цена тренировки ровно один раз, слоты освобождаются, после COMMIT
// участники получают уведомления
func (s *SessionService) Cancel(ctx context.Context, id int64, reason string) (*CancellationResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.sessionRepo.WithTx(tx).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.Status == model.SessionStatusCancelled {
		return nil, validationErrorf("тренировка %d уже отменена", id)
	}

	refunds, err := s.refundSession(ctx, tx, session)
	if err != nil {
		return nil, err
	}

	if err := s.cancelSessionRow(ctx, tx, session); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.cache.InvalidateDates(ctx, session.SessionDate)

	result := &CancellationResult{
		Session:     session,
		Refunds:     refunds,
		TotalRefund: totalCredited(refunds),
	}

	s.logger.Info("Session cancelled",
		zap.Int64("session_id", session.ID),
		zap.Int("refunds", len(refunds)),
		zap.Float64("total_refund", result.TotalRefund),
	)

	s.dispatchCancellation(ctx, session, refunds, reason)

	return result, nil
}

// CancelTemplate каскадно отменяет шаблон: все его будущие запланированные
// тренировки отменяются с возвратами, шаблон удаляется, админы получают одну
// консолидированную сводку
func (s *SessionService) CancelTemplate(ctx context.Context, templateID int64) (*TemplateCancellationResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	templateRepo := s.templateRepo.WithTx(tx)
	template, err := templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrNotFound
	}

	sessions, err := s.sessionRepo.WithTx(tx).GetFutureScheduledByTemplate(ctx, templateID, dateOnly(time.Now()))
	if err != nil {
		return nil, err
	}

	result := &TemplateCancellationResult{
		TemplateID:   templateID,
		TemplateName: template.Name,
		Sessions:     sessions,
	}

	for _, session := range sessions {
		refunds, err := s.refundSession(ctx, tx, session)
		if err != nil {
			return nil, err
		}
		if err := s.cancelSessionRow(ctx, tx, session); err != nil {
			return nil, err
		}

		result.Refunds = append(result.Refunds, refunds...)
		result.DeletedCount++
	}
	result.TotalRefund = totalCredited(result.Refunds)

	// история тренировок (включая только что отменённые) держит FK на шаблон,
	// перед удалением ссылки обнуляются
	if err := s.sessionRepo.WithTx(tx).DetachTemplate(ctx, templateID); err != nil {
		return nil, err
	}
	if err := templateRepo.Delete(ctx, templateID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	dates := make([]time.Time, 0, len(sessions))
	for _, session := range sessions {
		dates = append(dates, session.SessionDate)
	}
	s.cache.InvalidateDates(ctx, dates...)

	s.logger.Info("Template cancelled with cascade",
		zap.Int64("template_id", templateID),
		zap.String("template_name", template.Name),
		zap.Int("sessions_cancelled", result.DeletedCount),
		zap.Float64("total_refund", result.TotalRefund),
	)

	s.dispatchTemplateCancellation(ctx, result)

	return result, nil
}

// ListByDate возвращает тренировки на дату
func (s *SessionService) ListByDate(ctx context.Context, date time.Time, resourceID *int64) ([]*model.Session, error) {
	return s.sessionRepo.GetByDate(ctx, date, resourceID)
}

// AdminView возвращает тренировки даты, сгруппированные по тренажёрам
func (s *SessionService) AdminView(ctx context.Context, date time.Time) ([]*AdminScheduleView, error) {
	resources, err := s.resourceRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.GetByDate(ctx, date, nil)
	if err != nil {
		return nil, err
	}

	byResource := make(map[int64][]*model.Session)
	for _, session := range sessions {
		byResource[session.ResourceID] = append(byResource[session.ResourceID], session)
	}

	views := make([]*AdminScheduleView, 0, len(resources))
	for _, res := range resources {
		views = append(views, &AdminScheduleView{
			Resource: res,
			Sessions: byResource[res.ID],
		})
	}

	return views, nil
}

// checkOverlap отклоняет интервал, пересекающийся с неотменённой тренировкой
func (s *SessionService) checkOverlap(ctx context.Context, tx pgx.Tx, resourceID int64, date time.Time, start, end string, excludeID int64) error {
	overlapping, err := s.sessionRepo.WithTx(tx).FindOverlapping(ctx, resourceID, date, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		first := overlapping[0]
		return &ConflictError{
			Msg: fmt.Sprintf("время занято тренировкой #%d (%s–%s)",
				first.ID, first.StartTime[:5], first.EndTime[:5]),
			ConflictWith: fmt.Sprintf("session:%d", first.ID),
		}
	}
	return nil
}

// refundSession возвращает полную цену тренировки каждому подтверждённому
// участнику. Идемпотентность обеспечивает журнал: вставка транзакции возврата
// с refund_of_session_id либо проходит (и тогда кошелёк пополняется), либо
// молча пропускается, если возврат за эту тренировку уже был.
func (s *SessionService) refundSession(ctx context.Context, tx pgx.Tx, session *model.Session) ([]RefundResult, error) {
	participants, err := s.participantRepo.WithTx(tx).GetConfirmedWithWallets(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	walletRepo := s.walletRepo.WithTx(tx)
	description := refundDescription(session)

	refunds := make([]RefundResult, 0, len(participants))
	for _, p := range participants {
		credited, err := walletRepo.InsertRefund(ctx, p.WalletID, session.Price, description, session.ID)
		if err != nil {
			return nil, err
		}
		if credited {
			if err := walletRepo.Credit(ctx, p.WalletID, session.Price); err != nil {
				return nil, err
			}
		} else {
			s.logger.Warn("refund already exists, skipping",
				zap.Int64("wallet_id", p.WalletID),
				zap.Int64("session_id", session.ID),
			)
		}

		refunds = append(refunds, RefundResult{
			SessionID:  session.ID,
			ClientID:   p.ClientID,
			ClientName: p.ClientName,
			WalletID:   p.WalletID,
			Amount:     session.Price,
			Credited:   credited,
			chatID:     p.TelegramChatID,
		})
	}

	return refunds, nil
}

// cancelSessionRow переводит тренировку и её участников в cancelled
// и освобождает слоты
func (s *SessionService) cancelSessionRow(ctx context.Context, tx pgx.Tx, session *model.Session) error {
	if err := s.sessionRepo.WithTx(tx).SetStatus(ctx, session.ID, model.SessionStatusCancelled); err != nil {
		return err
	}
	if err := s.participantRepo.WithTx(tx).CancelBySession(ctx, session.ID); err != nil {
		return err
	}
	if _, err := s.slotRepo.WithTx(tx).MarkRange(ctx, session.ResourceID, session.SessionDate, session.StartTime, session.EndTime, false); err != nil {
		return err
	}
	session.Status = model.SessionStatusCancelled
	return nil
}

func totalCredited(refunds []RefundResult) float64 {
	var total float64
	for _, r := range refunds {
		if r.Credited {
			total += r.Amount
		}
	}
	return total
}

// broadcastCreated анонсирует новую тренировку всем клиентам с каналом
// уведомлений и всем админам, уже после COMMIT
func (s *SessionService) broadcastCreated(ctx context.Context, session *model.Session, resourceName string) {
	go func() {
		ctx := context.WithoutCancel(ctx)
		text := notify.SessionCreatedBroadcastMessage(session.SessionDate, session.StartTime, session.EndTime, resourceName)

		clients, err := s.clientRepo.GetNotifiable(ctx)
		if err != nil {
			s.logger.Warn("broadcast: get notifiable clients failed", zap.Error(err))
		}
		for _, c := range clients {
			s.notify.NotifyClient(ctx, *c.TelegramChatID, text)
		}
		s.notify.NotifyAdmins(ctx, text)
	}()
}

// dispatchCancellation уведомляет участников о возврате и публикует событие
func (s *SessionService) dispatchCancellation(ctx context.Context, session *model.Session, refunds []RefundResult, reason string) {
	go func() {
		ctx := context.WithoutCancel(ctx)

		entries := make([]events.RefundEntry, 0, len(refunds))
		for _, r := range refunds {
			if r.chatID != nil {
				text := notify.SessionCancelledClientMessage(session.SessionDate, session.StartTime, r.Amount, reason)
				s.notify.NotifyClient(ctx, *r.chatID, text)
			}
			entries = append(entries, events.RefundEntry{
				ClientID: r.ClientID,
				WalletID: r.WalletID,
				Amount:   r.Amount,
				Credited: r.Credited,
			})
		}

		s.events.Publish(ctx, events.QueueSessionCancelled, events.SessionCancelledEvent{
			SessionID:   session.ID,
			ResourceID:  session.ResourceID,
			SessionDate: session.SessionDate.Format("2006-01-02"),
			StartTime:   session.StartTime,
			Reason:      reason,
			Refunds:     entries,
			TotalRefund: totalCredited(refunds),
			OccurredAt:  time.Now().UTC(),
		})
	}()
}

// dispatchTemplateCancellation уведомляет участников, затем отправляет админам
// одну консолидированную сводку с результатами возвратов и доставки
func (s *SessionService) dispatchTemplateCancellation(ctx context.Context, result *TemplateCancellationResult) {
	go func() {
		ctx := context.WithoutCancel(ctx)

		sessionByID := make(map[int64]*model.Session, len(result.Sessions))
		for _, session := range result.Sessions {
			sessionByID[session.ID] = session
		}

		infos := make([]notify.RefundInfo, 0, len(result.Refunds))
		entries := make([]events.RefundEntry, 0, len(result.Refunds))
		for _, r := range result.Refunds {
			notified := false
			if session := sessionByID[r.SessionID]; r.chatID != nil && session != nil {
				text := notify.SessionCancelledClientMessage(session.SessionDate, session.StartTime, r.Amount, "отмена регулярной тренировки")
				notified = s.notify.NotifyClient(ctx, *r.chatID, text)
			}
			infos = append(infos, notify.RefundInfo{
				ClientName: r.ClientName,
				Amount:     r.Amount,
				Credited:   r.Credited,
				Notified:   notified,
			})
			entries = append(entries, events.RefundEntry{
				ClientID: r.ClientID,
				WalletID: r.WalletID,
				Amount:   r.Amount,
				Credited: r.Credited,
			})
		}

		s.notify.NotifyAdmins(ctx, notify.TemplateCancellationMessage(notify.TemplateCancellationInfo{
			TemplateName: result.TemplateName,
			DeletedCount: result.DeletedCount,
			TotalRefund:  result.TotalRefund,
			Refunds:      infos,
		}))

		s.events.Publish(ctx, events.QueueTemplateCancelled, events.TemplateCancelledEvent{
			TemplateID:   result.TemplateID,
			TemplateName: result.TemplateName,
			DeletedCount: result.DeletedCount,
			TotalRefund:  result.TotalRefund,
			Refunds:      entries,
			OccurredAt:   time.Now().UTC(),
		})
	}()
}
