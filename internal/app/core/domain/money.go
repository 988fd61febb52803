package domain

import (
	"github.com/shopspring/decimal"
)

// amount 使用 int64，並定義精度：小數點後 4 位
const (
	CurrencyScale = 10000

	currencyExponent = 4
)

// ToMinorUnits 將以「元」為單位的十進位金額轉成最小單位
// 精度超過 4 位小數 (無法落在最小單位格線上) 視為 ErrInvalidAmount
func ToMinorUnits(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(currencyExponent)
	if !shifted.IsInteger() {
		return 0, ErrInvalidAmount
	}
	if !shifted.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits 將最小單位金額轉回十進位表示，供顯示用
func FromMinorUnits(n int64) decimal.Decimal {
	return decimal.New(n, -currencyExponent)
}
