package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-wallet-ledger/pkg/wal"
)

// Ledger 是記憶體實作的 append-only 交易帳本
//
// 結構:
//
//	entries: 依寫入順序保存的所有交易
//	byID: 交易 ID 索引 (查詢 + 重放去重)
//	byParticipant: 參與者索引，FindByParticipant 直接反向走訪
//	wal: Write-Ahead Log，可為 nil (純記憶體，測試用)
type Ledger struct {
	mu            sync.RWMutex
	entries       []*domain.Transaction
	byID          map[uuid.UUID]*domain.Transaction
	byParticipant map[int64][]*domain.Transaction
	wal           *wal.WAL
}

// NewLedger 建立一個新的 Ledger 實例
// wal 不為 nil 時會先從 WAL 重放恢復，並把每筆交易的餘額變化套回 accounts
//
// 參數:
//
//	w: Write-Ahead Log 實例 (可為 nil)
//	accounts: 重放恢復的目標帳戶儲存 (w 為 nil 時可為 nil)
//
// 回傳:
//
//	*Ledger: Ledger 實例
//	error: 恢復失敗
func NewLedger(w *wal.WAL, accounts *AccountStore) (*Ledger, error) {
	ledger := &Ledger{
		byID:          make(map[uuid.UUID]*domain.Transaction),
		byParticipant: make(map[int64][]*domain.Transaction),
		wal:           w,
	}
	if w != nil {
		if err := ledger.recoverFromWAL(accounts); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

// recoverFromWAL 從 WAL 檔案恢復帳本與帳戶餘額
// 以交易 ID 去重: 同一筆交易不論在 WAL 出現幾次，只會套用一次
func (l *Ledger) recoverFromWAL(accounts *AccountStore) error {
	return l.wal.ReadAll(func(jsonRaw []byte) error {
		var tran domain.Transaction
		if err := json.Unmarshal(jsonRaw, &tran); err != nil {
			return err
		}
		if _, ok := l.byID[tran.ID]; ok {
			return nil
		}
		if accounts != nil {
			if err := replayBalances(accounts, &tran); err != nil {
				return err
			}
		}
		l.index(&tran)
		return nil
	})
}

// replayBalances 重放單筆交易的餘額變化 (不經過版本檢查)
func replayBalances(accounts *AccountStore, tran *domain.Transaction) error {
	switch tran.Type {
	case domain.TransactionTypeDeposit:
		return accounts.forceDelta(tran.ReceiverID, tran.Amount)
	case domain.TransactionTypeWithdrawal:
		return accounts.forceDelta(tran.SenderID, -tran.Amount)
	case domain.TransactionTypeTransfer:
		if err := accounts.forceDelta(tran.SenderID, -tran.Amount); err != nil {
			return err
		}
		return accounts.forceDelta(tran.ReceiverID, tran.Amount)
	}
	return nil
}

// Append 指派 ID 與 completed 狀態後持久化
// WAL 寫入 (含 fsync) 在記憶體索引之前，WAL 失敗則整筆失敗
func (l *Ledger) Append(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error) {
	stored := *tran
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Status = domain.TransactionStatusCompleted
	stored.Timestamp = time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.wal != nil {
		if err := l.wal.Write(&stored); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWALWriteFailed, err)
		}
		// 刷入硬碟
		if err := l.wal.Flush(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWALWriteFailed, err)
		}
	}

	l.index(&stored)

	result := stored
	return &result, nil
}

// index 寫入記憶體索引，呼叫端持有 l.mu
func (l *Ledger) index(tran *domain.Transaction) {
	l.entries = append(l.entries, tran)
	l.byID[tran.ID] = tran
	for _, accountID := range tran.Participants() {
		l.byParticipant[accountID] = append(l.byParticipant[accountID], tran)
	}
}

// FindByParticipant 回傳帳戶參與的交易，新的在前 (reverse-chronological)
func (l *Ledger) FindByParticipant(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	indexed := l.byParticipant[accountID]
	result := make([]*domain.Transaction, 0, len(indexed))
	for i := len(indexed) - 1; i >= 0; i-- {
		copied := *indexed[i]
		result = append(result, &copied)
	}
	return result, nil
}

// FindByID 依交易 ID 查詢
func (l *Ledger) FindByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tran, ok := l.byID[transactionID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *tran
	return &copied, nil
}

var _ usecase.TransactionLedger = (*Ledger)(nil)
