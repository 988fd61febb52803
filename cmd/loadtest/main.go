package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const (
	BaseURL     = "http://localhost:3000/api/wallet"
	AccountID   = "1"
	TotalCount  = 100000
	Concurrency = 200

	// 每筆存款 1 元
	DepositAmount = 1
)

// 對單一帳戶灌併發存款，結束後驗證沒有 lost update:
// final balance == initial balance + 成功筆數 * 單筆金額
func main() {
	client := &http.Client{Timeout: 10 * time.Second}

	initialBalance, err := getBalance(client)
	if err != nil {
		log.Fatalf("failed to read initial balance: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(TotalCount)
	sem := make(chan struct{}, Concurrency)

	var succeeded int64
	startTime := time.Now()

	for i := 0; i < TotalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := deposit(client); err != nil {
				if idx%10000 == 0 {
					log.Printf("deposit %d failed: %v", idx, err)
				}
				return
			}
			atomic.AddInt64(&succeeded, 1)
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(startTime)

	finalBalance, err := getBalance(client)
	if err != nil {
		log.Fatalf("failed to read final balance: %v", err)
	}

	fmt.Printf("Completed %d requests (%d succeeded) in %v\n", TotalCount, succeeded, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(TotalCount)/elapsed.Seconds())

	expected := initialBalance + succeeded*DepositAmount*10000 // CurrencyScale = 10000
	if finalBalance != expected {
		log.Fatalf("LOST UPDATE DETECTED: expected balance %d, got %d", expected, finalBalance)
	}
	fmt.Printf("Balance check OK: %d -> %d\n", initialBalance, finalBalance)
}

func deposit(client *http.Client) error {
	body, _ := json.Marshal(map[string]any{
		"amount":      DepositAmount,
		"description": "loadtest deposit",
	})

	req, err := http.NewRequest(http.MethodPost, BaseURL+"/deposit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-ID", AccountID)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func getBalance(client *http.Client) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, BaseURL+"/balance", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-Account-ID", AccountID)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload struct {
		Balance int64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	return payload.Balance, nil
}
