package notify

import (
	"context"

	"go.uber.org/zap"
)

// Service рассылает уведомления клиентам и админам.
// Все методы fire-and-forget: сбой доставки логируется и глотается,
// бизнес-операция из-за уведомления не падает и не откатывается.
type Service struct {
	notifier     Notifier
	adminChatIDs []int64
	logger       *zap.Logger
}

func NewService(notifier Notifier, adminChatIDs []int64, logger *zap.Logger) *Service {
	return &Service{
		notifier:     notifier,
		adminChatIDs: adminChatIDs,
		logger:       logger,
	}
}

// NotifyClient отправляет личное сообщение. Возвращает true при успехе —
// сводки отмен включают факт доставки.
func (s *Service) NotifyClient(ctx context.Context, chatID int64, text string) bool {
	if err := s.notifier.Notify(ctx, chatID, text); err != nil {
		s.logger.Warn("client notification failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return false
	}
	return true
}

// NotifyAdmins отправляет сообщение всем админам
func (s *Service) NotifyAdmins(ctx context.Context, text string) {
	for _, chatID := range s.adminChatIDs {
		if err := s.notifier.Notify(ctx, chatID, text); err != nil {
			s.logger.Warn("admin notification failed",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}
}
