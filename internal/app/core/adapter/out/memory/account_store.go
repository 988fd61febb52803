package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
)

// accountEntry 單一帳戶的狀態與它自己的鎖
// 鎖的粒度是「每個帳戶一把」，不相關帳戶之間不會互相阻塞
type accountEntry struct {
	mu      sync.Mutex
	account domain.Account
}

// AccountStore 是記憶體實作的帳戶儲存
//
// 結構:
//
//	mu: 保護 accounts Map 本身 (新增帳戶時)
//	accounts: 帳戶 ID 對應的 entry，entry 內各自有鎖
//
// ApplyDelta 實作 compare-and-swap 契約: 版本不符拒絕、扣到負數拒絕，
// 每次 ApplyDelta 只鎖一個帳戶，因此不存在死鎖順序問題。
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[int64]*accountEntry
}

// NewAccountStore 建立一個新的 AccountStore，seed 為初始帳戶 (可為 nil)
func NewAccountStore(seed []*domain.Account) *AccountStore {
	store := &AccountStore{
		accounts: make(map[int64]*accountEntry, len(seed)),
	}
	for _, account := range seed {
		store.accounts[account.ID] = &accountEntry{account: *account}
	}
	return store
}

// CreateAccount 新增帳戶 (開戶屬於外部註冊流程，核心只在啟動 seeding 與測試時使用)
func (s *AccountStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; ok {
		return domain.ErrAccountAlreadyExists
	}
	s.accounts[account.ID] = &accountEntry{account: *account}
	return nil
}

// Get 取得帳戶目前狀態的複本
func (s *AccountStore) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	entry, err := s.entry(accountID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.account.Snapshot(), nil
}

// ApplyDelta 實作 usecase.AccountStore 的 CAS 契約
//
// 回傳:
//
//	*domain.Account: 成功時更新後的狀態複本
//	error: ErrAccountNotFound / ErrVersionConflict / ErrInsufficientBalance
func (s *AccountStore) ApplyDelta(ctx context.Context, accountID int64, delta int64, expectedVersion uint64) (*domain.Account, error) {
	entry, err := s.entry(accountID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.account.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}
	if err := entry.account.ApplyDelta(delta); err != nil {
		return nil, err
	}
	return entry.account.Snapshot(), nil
}

// forceDelta 直接套用餘額變化，跳過版本檢查
// 只給 WAL 重放恢復用: 重放的是已完成的交易，不可能再被拒絕
func (s *AccountStore) forceDelta(accountID int64, delta int64) error {
	entry, err := s.entry(accountID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.account.ApplyDelta(delta)
}

func (s *AccountStore) entry(accountID int64) (*accountEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return entry, nil
}

var _ usecase.AccountStore = (*AccountStore)(nil)
