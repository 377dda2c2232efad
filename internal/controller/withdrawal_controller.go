package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"taxpadi-referral-be/internal/dto"
	"taxpadi-referral-be/internal/pkg/serverutils"
	"taxpadi-referral-be/internal/service"
)

type WithdrawalController struct {
	withdrawalService service.IWithdrawalService
	redisClient       *redis.Client
	rateLimit         int
	rateWindow        time.Duration
}

func NewWithdrawalController(
	withdrawalService service.IWithdrawalService,
	redisClient *redis.Client,
	rateLimit int,
	rateWindow time.Duration,
) *WithdrawalController {
	return &WithdrawalController{
		withdrawalService: withdrawalService,
		redisClient:       redisClient,
		rateLimit:         rateLimit,
		rateWindow:        rateWindow,
	}
}

func (c *WithdrawalController) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/withdrawals", serverutils.JwtMiddleware)

	api.Post("/",
		serverutils.RateLimitMiddleware(c.redisClient, "withdrawal", c.rateLimit, c.rateWindow),
		c.RequestWithdrawal)
	api.Get("/", c.GetWithdrawals)
}

func (c *WithdrawalController) RequestWithdrawal(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.WithdrawalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.withdrawalService.RequestWithdrawal(ctx.Context(), userId, currentEmail(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(
		serverutils.SuccessResponse("Withdrawal accepted", resp))
}

func (c *WithdrawalController) GetWithdrawals(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	resp, err := c.withdrawalService.GetWithdrawalsByUser(
		ctx.Context(),
		userId,
		ctx.QueryInt("page", 1),
		ctx.QueryInt("limit", 0),
	)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawals retrieved", resp))
}
