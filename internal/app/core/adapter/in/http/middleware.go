package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// accountLocalsKey 經過身分解析後的呼叫者帳戶 ID 存放在 c.Locals 的 key
const accountLocalsKey = "accountID"

// RequireAccount 解析呼叫者帳戶
//
// 身分驗證本身是外部協作者的責任；這層只負責把上游 (gateway / auth middleware)
// 放進 X-Account-ID header 的帳戶 ID 取出來，放進 request context。
func RequireAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Account-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing account identity"})
		}

		accountID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || accountID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid account identity"})
		}

		c.Locals(accountLocalsKey, accountID)
		return c.Next()
	}
}

// callerAccountID 取出 RequireAccount 放進 Locals 的帳戶 ID
func callerAccountID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(accountLocalsKey).(int64)
	return id
}
