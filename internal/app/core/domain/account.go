package domain

import "time"

// Account 帳戶，餘額以最小單位 int64 儲存
//
// 不變式: Balance >= 0 永遠成立，任何扣款前都必須先檢查
// Version 為樂觀鎖版本號，每次成功變更 +1
type Account struct {
	ID        int64     `json:"id"`
	Balance   int64     `json:"balance"`
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewAccount(id int64, balance int64) *Account {
	now := time.Now()
	return &Account{
		ID:        id,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyDelta 套用餘額變化量
// delta 為負且結果小於 0 時回傳 ErrInsufficientBalance，狀態不變
// 成功時 Version +1 並更新 UpdatedAt
func (a *Account) ApplyDelta(delta int64) error {
	next := a.Balance + delta
	if next < 0 {
		return ErrInsufficientBalance
	}

	a.Balance = next
	a.Version++
	a.UpdatedAt = time.Now()
	return nil
}

// Snapshot 回傳目前狀態的複本，避免呼叫端拿到內部指標
func (a *Account) Snapshot() *Account {
	copied := *a
	return &copied
}
