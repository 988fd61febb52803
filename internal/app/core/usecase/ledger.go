package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
)

// AccountStore 是帳戶儲存的介面，唯一的變更入口是 ApplyDelta
type AccountStore interface {
	// Get 取得帳戶目前狀態 (複本)，不存在時回傳 domain.ErrAccountNotFound
	Get(ctx context.Context, accountID int64) (*domain.Account, error)

	// ApplyDelta 是單一的 compare-and-swap 變更原語:
	// 只有在儲存的版本仍等於 expectedVersion 時套用 balance += delta，
	// 且 delta < 0 時結果必須 >= 0，否則回傳 domain.ErrInsufficientBalance。
	// 版本不符回傳 domain.ErrVersionConflict，成功時版本 +1 並回傳更新後狀態。
	ApplyDelta(ctx context.Context, accountID int64, delta int64, expectedVersion uint64) (*domain.Account, error)
}

// TransactionLedger 是 append-only 的交易帳本介面，核心不會修改或刪除任何紀錄
type TransactionLedger interface {
	// Append 指派交易 ID 與 completed 狀態後持久化一次，回傳儲存後的紀錄
	// 只會因儲存層失敗而失敗 (直接傳遞，不重試，交易紀錄不可捏造)
	Append(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error)

	// FindByParticipant 回傳帳戶作為 sender 或 receiver 的所有交易，新的在前
	FindByParticipant(ctx context.Context, accountID int64) ([]*domain.Transaction, error)

	// FindByID 依交易 ID 查詢，不存在時回傳 domain.ErrTransactionNotFound
	FindByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error)
}
