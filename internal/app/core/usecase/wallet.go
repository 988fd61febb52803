package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
)

// maxApplyAttempts 樂觀鎖重試上限，用盡後回傳 domain.ErrConflict
const maxApplyAttempts = 3

// WalletUseCase 是核心業務邏輯層
// 負責協調 AccountStore 與 TransactionLedger，維護兩條不變式:
//  1. 任何帳戶餘額永遠不為負
//  2. 只有餘額變更確定 commit 之後才會寫入帳本紀錄
type WalletUseCase struct {
	accounts AccountStore
	ledger   TransactionLedger
}

func NewWalletUseCase(accounts AccountStore, ledger TransactionLedger) *WalletUseCase {
	return &WalletUseCase{
		accounts: accounts,
		ledger:   ledger,
	}
}

// Deposit 存款: 入帳後寫入一筆 deposit 交易 (receiver = accountID)
//
// 回傳:
//
//	*domain.Account: 更新後的帳戶狀態
//	*domain.Transaction: 已完成的交易紀錄
func (u *WalletUseCase) Deposit(ctx context.Context, accountID int64, amount int64, description string) (*domain.Account, *domain.Transaction, error) {
	tran, err := domain.NewDepositTransaction(accountID, amount, description)
	if err != nil {
		return nil, nil, err
	}

	account, err := u.applyWithRetry(ctx, accountID, amount)
	if err != nil {
		return nil, nil, err
	}

	stored, err := u.ledger.Append(ctx, tran)
	if err != nil {
		return nil, nil, err
	}
	return account, stored, nil
}

// Withdraw 提款: 扣款後寫入一筆 withdrawal 交易 (sender = accountID)
// 餘額不足由 AccountStore 拒絕，錯誤原樣傳遞
func (u *WalletUseCase) Withdraw(ctx context.Context, accountID int64, amount int64, description string) (*domain.Account, *domain.Transaction, error) {
	tran, err := domain.NewWithdrawalTransaction(accountID, amount, description)
	if err != nil {
		return nil, nil, err
	}

	account, err := u.applyWithRetry(ctx, accountID, -amount)
	if err != nil {
		return nil, nil, err
	}

	stored, err := u.ledger.Append(ctx, tran)
	if err != nil {
		return nil, nil, err
	}
	return account, stored, nil
}

// Transfer 轉帳: 兩筆餘額變更必須是一個原子單位
//
// 作法是 two-phase + 補償: 先扣款 sender，再入帳 receiver；
// 入帳失敗時把扣掉的錢補償回 sender，確保失敗的轉帳不會留下單邊變更。
// 成功後寫入一筆同時記錄兩個帳戶的 transfer 交易。
func (u *WalletUseCase) Transfer(ctx context.Context, senderID, receiverID int64, amount int64, description string) (*domain.Account, *domain.Transaction, error) {
	tran, err := domain.NewTransferTransaction(senderID, receiverID, amount, description)
	if err != nil {
		return nil, nil, err
	}

	// 兩個帳戶都必須存在，缺一不可，且檢查發生在任何變更之前
	if _, err := u.accounts.Get(ctx, senderID); err != nil {
		return nil, nil, err
	}
	if _, err := u.accounts.Get(ctx, receiverID); err != nil {
		return nil, nil, err
	}

	// Phase 1: 扣款 (餘額不足在這裡被擋下，尚無任何變更)
	sender, err := u.applyWithRetry(ctx, senderID, -amount)
	if err != nil {
		return nil, nil, err
	}

	// Phase 2: 入帳，失敗則補償 Phase 1
	if _, err := u.applyWithRetry(ctx, receiverID, amount); err != nil {
		u.compensate(ctx, senderID, amount)
		return nil, nil, err
	}

	stored, err := u.ledger.Append(ctx, tran)
	if err != nil {
		return nil, nil, err
	}
	return sender, stored, nil
}

// GetBalance 取得帳戶餘額
func (u *WalletUseCase) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	account, err := u.accounts.Get(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// GetAccount 取得帳戶目前完整狀態
func (u *WalletUseCase) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	return u.accounts.Get(ctx, accountID)
}

// ListTransactions 列出帳戶參與的所有交易，新的在前
func (u *WalletUseCase) ListTransactions(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	return u.ledger.FindByParticipant(ctx, accountID)
}

// GetTransaction 查詢單筆交易，只有交易參與者可以讀取
func (u *WalletUseCase) GetTransaction(ctx context.Context, transactionID uuid.UUID, requestingAccountID int64) (*domain.Transaction, error) {
	tran, err := u.ledger.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !tran.InvolvesAccount(requestingAccountID) {
		return nil, domain.ErrUnauthorized
	}
	return tran, nil
}

// applyWithRetry 以樂觀鎖重試執行單一帳戶的餘額變更
// 只有 ErrVersionConflict 會重試；其他錯誤 (NotFound / InsufficientBalance / 儲存失敗) 直接回傳
func (u *WalletUseCase) applyWithRetry(ctx context.Context, accountID int64, delta int64) (*domain.Account, error) {
	for attempt := 0; attempt < maxApplyAttempts; attempt++ {
		account, err := u.accounts.Get(ctx, accountID)
		if err != nil {
			return nil, err
		}

		updated, err := u.accounts.ApplyDelta(ctx, accountID, delta, account.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, domain.ErrConflict
}

// compensate 補償轉帳第一階段的扣款
// 補償本身也可能失敗 (例如儲存層掛掉)；此時只能記錄下來，不可吞掉
func (u *WalletUseCase) compensate(ctx context.Context, senderID int64, amount int64) {
	if _, err := u.applyWithRetry(ctx, senderID, amount); err != nil {
		slog.Error("transfer compensation failed, sender debit is orphaned",
			"senderId", senderID, "amount", amount, "error", err)
	}
}
