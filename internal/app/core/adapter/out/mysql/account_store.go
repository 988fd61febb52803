package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-wallet-ledger/pkg/mysql"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        int64 `gorm:"primaryKey"`
	Balance   int64
	Version   uint64
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

type AccountStore struct {
	client *mysql.Client
}

func NewAccountStore(client *mysql.Client) *AccountStore {
	return &AccountStore{
		client: client,
	}
}

// Get 取得帳戶目前狀態
func (s *AccountStore) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	var row sqlAccount
	err := s.client.DB().WithContext(ctx).Where("id = ?", accountID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select account: %v", domain.ErrInternal, err)
	}
	return toDomainAccount(&row), nil
}

// ApplyDelta 以單一條件式 UPDATE 實作 CAS 契約
//
// UPDATE accounts SET balance = balance + ?, version = version + 1
// WHERE id = ? AND version = ? [AND balance + ? >= 0]
//
// 整個 compare-and-swap 在資料庫端一個語句內完成，沒有 read-then-write 的空窗。
// RowsAffected = 0 時再讀一次帳戶，分類是 NotFound、VersionConflict 還是餘額不足。
func (s *AccountStore) ApplyDelta(ctx context.Context, accountID int64, delta int64, expectedVersion uint64) (*domain.Account, error) {
	query := s.client.DB().WithContext(ctx).Model(&sqlAccount{}).
		Where("id = ? AND version = ?", accountID, expectedVersion)
	if delta < 0 {
		query = query.Where("balance + ? >= 0", delta)
	}

	result := query.Updates(map[string]any{
		"balance":    gorm.Expr("balance + ?", delta),
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("%w: update account: %v", domain.ErrInternal, result.Error)
	}

	if result.RowsAffected == 0 {
		account, err := s.Get(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if account.Version != expectedVersion {
			return nil, domain.ErrVersionConflict
		}
		return nil, domain.ErrInsufficientBalance
	}

	return s.Get(ctx, accountID)
}

// CreateAccount 建立帳戶 (啟動 seeding 用，已存在時不覆蓋)
func (s *AccountStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	row := sqlAccount{
		ID:        account.ID,
		Balance:   account.Balance,
		Version:   account.Version,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	var existing sqlAccount
	result := s.client.DB().WithContext(ctx).
		Where(&sqlAccount{ID: account.ID}).
		Attrs(&row).
		FirstOrCreate(&existing)
	if result.Error != nil {
		return fmt.Errorf("%w: create account: %v", domain.ErrInternal, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountAlreadyExists
	}
	return nil
}

// Migrate 建立資料表結構
func Migrate(client *mysql.Client) error {
	return client.DB().AutoMigrate(&sqlAccount{}, &sqlTransaction{})
}

func toDomainAccount(row *sqlAccount) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		Balance:   row.Balance,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

var _ usecase.AccountStore = (*AccountStore)(nil)
