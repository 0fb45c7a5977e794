package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository"
)

// WalletView — кошелёк с журналом для админской сверки
type WalletView struct {
	Wallet       *model.Wallet        `json:"wallet"`
	Transactions []*model.Transaction `json:"transactions"`
}

// WalletService — read-only доступ к кошелькам. Пополнения и списания делает
// внешняя CRM; этот сервис лишь показывает журнал, который пишут возвраты.
type WalletService struct {
	walletRepo *repository.WalletRepository
	logger     *zap.Logger
}

func NewWalletService(walletRepo *repository.WalletRepository, logger *zap.Logger) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		logger:     logger,
	}
}

// GetByClient возвращает кошелёк клиента с журналом транзакций
func (s *WalletService) GetByClient(ctx context.Context, clientID int64) (*WalletView, error) {
	wallet, err := s.walletRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrNotFound
	}

	transactions, err := s.walletRepo.GetTransactions(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	return &WalletView{
		Wallet:       wallet,
		Transactions: transactions,
	}, nil
}
