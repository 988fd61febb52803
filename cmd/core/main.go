package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	http_adapter "github.com/JoeShih716/go-wallet-ledger/internal/app/core/adapter/in/http"
	memory_adapter "github.com/JoeShih716/go-wallet-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-wallet-ledger/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/config"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-wallet-ledger/pkg/mysql"
	"github.com/JoeShih716/go-wallet-ledger/pkg/wal"
)

func main() {
	// 1. Logger (JSON structured)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// 2. 載入設定
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 3. 依設定選擇儲存後端
	var accounts usecase.AccountStore
	var ledger usecase.TransactionLedger
	var closers []func()

	switch cfg.Backend {
	case config.BackendMemory:
		// 初始化 WAL，重啟後由重放恢復帳本與餘額
		walFile, err := wal.NewWAL(cfg.WALPath)
		if err != nil {
			slog.Error("failed to init WAL", "path", cfg.WALPath, "error", err)
			os.Exit(1)
		}
		closers = append(closers, func() { _ = walFile.Close() })

		memAccounts := memory_adapter.NewAccountStore(seedAccounts(cfg))
		memLedger, err := memory_adapter.NewLedger(walFile, memAccounts)
		if err != nil {
			slog.Error("failed to recover ledger from WAL", "error", err)
			os.Exit(1)
		}
		accounts, ledger = memAccounts, memLedger
		slog.Info("using in-memory backend with WAL", "walPath", cfg.WALPath)

	case config.BackendMySQL:
		dbClient, err := mysql.NewClient(cfg.MySQL)
		if err != nil {
			slog.Error("failed to connect to MySQL", "error", err)
			os.Exit(1)
		}
		closers = append(closers, func() { _ = dbClient.Close() })

		if err := mysql_adapter.Migrate(dbClient); err != nil {
			slog.Error("failed to migrate schema", "error", err)
			os.Exit(1)
		}

		sqlAccounts := mysql_adapter.NewAccountStore(dbClient)
		for _, account := range seedAccounts(cfg) {
			err := sqlAccounts.CreateAccount(context.Background(), account)
			if err != nil && !errors.Is(err, domain.ErrAccountAlreadyExists) {
				slog.Error("failed to seed account", "accountId", account.ID, "error", err)
				os.Exit(1)
			}
		}
		accounts, ledger = sqlAccounts, mysql_adapter.NewLedger(dbClient)
		slog.Info("using MySQL backend", "host", cfg.MySQL.Host, "db", cfg.MySQL.DBName)
	}

	// 4. 初始化 UseCase
	wallet := usecase.NewWalletUseCase(accounts, ledger)

	// 5. 初始化 HTTP Adapter (Driving Adapter)
	server := http_adapter.NewServer(wallet)

	// 6. 啟動，並等待關閉信號
	go func() {
		slog.Info("starting HTTP server", "port", cfg.Port)
		if err := server.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	if err := server.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	for _, closeFn := range closers {
		closeFn()
	}
	slog.Info("server exited")
}

// seedAccounts 把設定檔的 seed 帳戶轉成最小單位的 domain.Account
// 未設定種子帳戶時，預設開戶餘額是 1000 元
func seedAccounts(cfg *config.Config) []*domain.Account {
	const defaultSeedBalance = 1000

	result := make([]*domain.Account, 0, len(cfg.SeedAccounts))
	for _, seed := range cfg.SeedAccounts {
		balance := seed.Balance
		if balance == 0 {
			balance = defaultSeedBalance
		}
		result = append(result, domain.NewAccount(seed.ID, balance*domain.CurrencyScale))
	}
	return result
}
