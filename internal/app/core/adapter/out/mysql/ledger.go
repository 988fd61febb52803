package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-wallet-ledger/pkg/mysql"
)

// sqlTransaction 對應資料庫的 transactions 表
// type / status 的字串值必須與 domain 常數一致，round-trip 不可變形
type sqlTransaction struct {
	ID          string `gorm:"primaryKey;type:char(36)"`
	Type        string `gorm:"type:varchar(16)"`
	SenderID    int64  `gorm:"index"`
	ReceiverID  int64  `gorm:"index"`
	Amount      int64
	Status      string `gorm:"type:varchar(16)"`
	Description string
	Timestamp   time.Time `gorm:"index"`
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

type Ledger struct {
	client *mysql.Client
}

func NewLedger(client *mysql.Client) *Ledger {
	return &Ledger{
		client: client,
	}
}

// Append 指派 ID 與 completed 狀態後寫入一次
// 只插入、永不更新: 帳本是稽核的 system of record
func (l *Ledger) Append(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error) {
	stored := *tran
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Status = domain.TransactionStatusCompleted
	stored.Timestamp = time.Now()

	row := toSQLTransaction(&stored)
	if err := l.client.DB().WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("%w: insert transaction: %v", domain.ErrInternal, err)
	}
	return &stored, nil
}

// FindByParticipant 回傳帳戶作為 sender 或 receiver 的交易，新的在前
func (l *Ledger) FindByParticipant(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	var rows []sqlTransaction
	err := l.client.DB().WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", accountID, accountID).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: select transactions: %v", domain.ErrInternal, err)
	}

	result := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		tran, err := toDomainTransaction(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, tran)
	}
	return result, nil
}

// FindByID 依交易 ID 查詢
func (l *Ledger) FindByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error) {
	var row sqlTransaction
	err := l.client.DB().WithContext(ctx).
		Where("id = ?", transactionID.String()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select transaction: %v", domain.ErrInternal, err)
	}
	return toDomainTransaction(&row)
}

func toSQLTransaction(tran *domain.Transaction) *sqlTransaction {
	return &sqlTransaction{
		ID:          tran.ID.String(),
		Type:        string(tran.Type),
		SenderID:    tran.SenderID,
		ReceiverID:  tran.ReceiverID,
		Amount:      tran.Amount,
		Status:      string(tran.Status),
		Description: tran.Description,
		Timestamp:   tran.Timestamp,
	}
}

func toDomainTransaction(row *sqlTransaction) (*domain.Transaction, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed transaction id %q: %v", domain.ErrInternal, row.ID, err)
	}
	return &domain.Transaction{
		ID:          id,
		Type:        domain.TransactionType(row.Type),
		SenderID:    row.SenderID,
		ReceiverID:  row.ReceiverID,
		Amount:      row.Amount,
		Status:      domain.TransactionStatus(row.Status),
		Description: row.Description,
		Timestamp:   row.Timestamp,
	}, nil
}

var _ usecase.TransactionLedger = (*Ledger)(nil)
