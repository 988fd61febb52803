package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
)

// Server 是 HTTP 進入點 (Driving Adapter)
// 所有路由掛在 /api/wallet 之下，並要求呼叫者帶上帳戶身分
type Server struct {
	app *fiber.App
}

func NewServer(wallet *usecase.WalletUseCase) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	handler := NewWalletHandler(wallet)

	api := app.Group("/api/wallet", RequireAccount())
	api.Get("/balance", handler.GetBalance)
	api.Post("/deposit", handler.Deposit)
	api.Post("/withdraw", handler.Withdraw)
	api.Post("/transfer", handler.Transfer)
	api.Get("/transactions", handler.ListTransactions)
	api.Get("/transactions/:id", handler.GetTransaction)

	return &Server{app: app}
}

// App 回傳底層的 fiber.App (測試用 app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen 開始服務，阻塞直到關閉
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown 停止接收新請求並等待進行中的請求結束
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
