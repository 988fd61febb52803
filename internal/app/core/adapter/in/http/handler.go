package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
)

type WalletHandler struct {
	wallet *usecase.WalletUseCase
}

func NewWalletHandler(wallet *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// amountRequest 存款/提款的請求
// amount 以「元」為單位，接受 JSON number 或字串 (decimal 兩者都吃)
type amountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// transferRequest 轉帳的請求，receiverId 是收款帳戶識別
type transferRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	ReceiverID  int64           `json:"receiverId"`
	Description string          `json:"description"`
}

// GetBalance GET /balance
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	account, err := h.wallet.GetAccount(c.Context(), callerAccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"balance":        account.Balance,
		"balanceDecimal": domain.FromMinorUnits(account.Balance).String(),
	})
}

// Deposit POST /deposit
func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	accountID := callerAccountID(c)
	account, tran, err := h.wallet.Deposit(c.Context(), accountID, amount, req.Description)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("deposit completed", "accountId", accountID, "amount", amount, "transactionId", tran.ID)
	return c.JSON(fiber.Map{"balance": account.Balance, "transaction": tran})
}

// Withdraw POST /withdraw
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	accountID := callerAccountID(c)
	account, tran, err := h.wallet.Withdraw(c.Context(), accountID, amount, req.Description)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("withdrawal completed", "accountId", accountID, "amount", amount, "transactionId", tran.ID)
	return c.JSON(fiber.Map{"balance": account.Balance, "transaction": tran})
}

// Transfer POST /transfer
func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if req.ReceiverID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Amount and receiver are required"})
	}

	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	senderID := callerAccountID(c)
	account, tran, err := h.wallet.Transfer(c.Context(), senderID, req.ReceiverID, amount, req.Description)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("transfer completed",
		"senderId", senderID, "receiverId", req.ReceiverID, "amount", amount, "transactionId", tran.ID)
	return c.JSON(fiber.Map{"balance": account.Balance, "transaction": tran})
}

// ListTransactions GET /transactions
func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	transactions, err := h.wallet.ListTransactions(c.Context(), callerAccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transactions)
}

// GetTransaction GET /transactions/:id
func (h *WalletHandler) GetTransaction(c *fiber.Ctx) error {
	transactionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid transaction ID"})
	}

	tran, err := h.wallet.GetTransaction(c.Context(), transactionID, callerAccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tran)
}

// respondError 把 domain 錯誤分類對應到 HTTP 狀態碼
// 分類依 errors.Is，錯誤訊息對外保持穩定
func respondError(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrSameAccount):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	default:
		slog.Error("request failed with internal error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}
