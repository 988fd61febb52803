package domain

import "errors"

var (
	// ErrInvalidAmount 金額必須為正數
	ErrInvalidAmount = errors.New("invalid amount: amount must be positive")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrSameAccount 轉帳的收款與付款帳戶不可相同
	ErrSameAccount = errors.New("sender and receiver must be different accounts")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrTransactionNotFound 找不到交易
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUnauthorized 非交易參與者，禁止查詢
	ErrUnauthorized = errors.New("requesting account is not a participant of this transaction")

	// ErrVersionConflict 樂觀鎖版本不符 (單次 CAS 失敗，可重試)
	ErrVersionConflict = errors.New("account version conflict")

	// ErrConflict 樂觀鎖重試次數用盡
	ErrConflict = errors.New("conflict: concurrent updates exhausted retry budget")

	// ErrWALWriteFailed WAL 寫入失敗
	ErrWALWriteFailed = errors.New("wal write failed")

	// ErrInternal 儲存層失敗 (不可自動重試，原因以 wrap 保留)
	ErrInternal = errors.New("internal storage error")
)
