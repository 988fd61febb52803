package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
)

func newStore(balances map[int64]int64) *memory.AccountStore {
	seed := make([]*domain.Account, 0, len(balances))
	for id, balance := range balances {
		seed = append(seed, domain.NewAccount(id, balance))
	}
	return memory.NewAccountStore(seed)
}

func TestGetUnknownAccount(t *testing.T) {
	store := newStore(nil)
	if _, err := store.Get(context.Background(), 42); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestApplyDeltaIncrementsVersion(t *testing.T) {
	store := newStore(map[int64]int64{1: 1000})
	ctx := context.Background()

	updated, err := store.ApplyDelta(ctx, 1, 500, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Balance != 1500 {
		t.Errorf("balance = %d, want 1500", updated.Balance)
	}
	if updated.Version != 1 {
		t.Errorf("version = %d, want 1", updated.Version)
	}
}

func TestApplyDeltaVersionConflict(t *testing.T) {
	store := newStore(map[int64]int64{1: 1000})
	ctx := context.Background()

	if _, err := store.ApplyDelta(ctx, 1, 100, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 版本已推進到 1，帶著舊版本 0 的 CAS 必須被拒絕
	if _, err := store.ApplyDelta(ctx, 1, 100, 0); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}

	account, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 1100 {
		t.Errorf("conflicting CAS must not mutate: balance = %d, want 1100", account.Balance)
	}
}

func TestApplyDeltaInsufficientBalance(t *testing.T) {
	store := newStore(map[int64]int64{1: 300})
	ctx := context.Background()

	if _, err := store.ApplyDelta(ctx, 1, -301, 0); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	account, _ := store.Get(ctx, 1)
	if account.Balance != 300 || account.Version != 0 {
		t.Errorf("rejected CAS must not mutate: balance=%d version=%d", account.Balance, account.Version)
	}
}

func TestCreateAccountDuplicate(t *testing.T) {
	store := newStore(map[int64]int64{1: 0})
	err := store.CreateAccount(context.Background(), domain.NewAccount(1, 0))
	if !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("err = %v, want ErrAccountAlreadyExists", err)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := newStore(map[int64]int64{1: 1000})
	ctx := context.Background()

	before, _ := store.Get(ctx, 1)
	if _, err := store.ApplyDelta(ctx, 1, 500, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.Balance != 1000 {
		t.Errorf("snapshot mutated by later write: balance = %d", before.Balance)
	}
}

// 併發 CAS + 重試不會遺失任何一筆更新
func TestConcurrentApplyDelta(t *testing.T) {
	store := newStore(map[int64]int64{1: 0})
	ctx := context.Background()

	const workers = 50
	const perWorker = 20

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				for {
					account, err := store.Get(ctx, 1)
					if err != nil {
						t.Errorf("get: %v", err)
						return
					}
					_, err = store.ApplyDelta(ctx, 1, 1, account.Version)
					if errors.Is(err, domain.ErrVersionConflict) {
						continue
					}
					if err != nil {
						t.Errorf("apply: %v", err)
						return
					}
					break
				}
			}
		}()
	}
	wg.Wait()

	account, _ := store.Get(ctx, 1)
	if account.Balance != workers*perWorker {
		t.Errorf("lost update: balance = %d, want %d", account.Balance, workers*perWorker)
	}
}
