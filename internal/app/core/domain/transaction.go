package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType 交易類型，字串值為對外契約的一部分，不可更動
type TransactionType string

const (
	// 存款: 只有 ReceiverID
	TransactionTypeDeposit TransactionType = "deposit"
	// 提款: 只有 SenderID
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	// 轉帳: SenderID 與 ReceiverID 都有，且不可相同
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus 交易狀態 created → completed | failed，完成後不可再變更
type TransactionStatus string

const (
	TransactionStatusCreated   TransactionStatus = "created"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction 交易紀錄
// 每種 Type 對應固定的帳戶欄位組合，由建構函式驗證，不靠慣例
// SenderID / ReceiverID 為 0 表示該欄位不適用於此類型
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	Type        TransactionType   `json:"type"`
	SenderID    int64             `json:"senderId,omitempty"`
	ReceiverID  int64             `json:"receiverId,omitempty"`
	Amount      int64             `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewDepositTransaction 建立存款交易 (尚未入帳，Status = created)
func NewDepositTransaction(receiverID int64, amount int64, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Transaction{
		Type:        TransactionTypeDeposit,
		ReceiverID:  receiverID,
		Amount:      amount,
		Status:      TransactionStatusCreated,
		Description: description,
	}, nil
}

// NewWithdrawalTransaction 建立提款交易
func NewWithdrawalTransaction(senderID int64, amount int64, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Transaction{
		Type:        TransactionTypeWithdrawal,
		SenderID:    senderID,
		Amount:      amount,
		Status:      TransactionStatusCreated,
		Description: description,
	}, nil
}

// NewTransferTransaction 建立轉帳交易，拒絕自己轉給自己
func NewTransferTransaction(senderID, receiverID int64, amount int64, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if senderID == receiverID {
		return nil, ErrSameAccount
	}
	return &Transaction{
		Type:        TransactionTypeTransfer,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Amount:      amount,
		Status:      TransactionStatusCreated,
		Description: description,
	}, nil
}

// Participants 回傳此交易涉及的帳戶 ID，升冪排序以固定鎖定順序
func (t *Transaction) Participants() (ids []int64) {
	ids = make([]int64, 0, 2)
	switch t.Type {
	case TransactionTypeTransfer:
		if t.SenderID < t.ReceiverID {
			ids = append(ids, t.SenderID, t.ReceiverID)
		} else {
			ids = append(ids, t.ReceiverID, t.SenderID)
		}
	case TransactionTypeDeposit:
		ids = append(ids, t.ReceiverID)
	case TransactionTypeWithdrawal:
		ids = append(ids, t.SenderID)
	}
	return ids
}

// InvolvesAccount 判斷帳戶是否為此交易的參與者 (sender 或 receiver)
func (t *Transaction) InvolvesAccount(accountID int64) bool {
	for _, id := range t.Participants() {
		if id == accountID {
			return true
		}
	}
	return false
}
