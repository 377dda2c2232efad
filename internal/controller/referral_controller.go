package controller

import (
	"github.com/gofiber/fiber/v2"

	"taxpadi-referral-be/internal/dto"
	"taxpadi-referral-be/internal/pkg/serverutils"
	"taxpadi-referral-be/internal/service"
)

type ReferralController struct {
	referralService service.IReferralService
}

func NewReferralController(referralService service.IReferralService) *ReferralController {
	return &ReferralController{referralService: referralService}
}

func (c *ReferralController) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/referrals")

	// Signup flow calls this before the user has a session.
	api.Post("/", c.CreateReferral)

	// Internal endpoint for the payment collaborator.
	api.Post("/earnings", serverutils.ServiceKeyMiddleware, c.CreateEarning)

	api.Get("/earnings", serverutils.JwtMiddleware, c.GetEarnings)
	api.Get("/balance", serverutils.JwtMiddleware, c.GetBalance)
	api.Get("/stats", serverutils.JwtMiddleware, c.GetStats)
}

func (c *ReferralController) CreateReferral(ctx *fiber.Ctx) error {
	var req dto.CreateReferralRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.referralService.CreateReferral(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(
		serverutils.SuccessResponse("Referral recorded", resp))
}

func (c *ReferralController) CreateEarning(ctx *fiber.Ctx) error {
	var req dto.CreateEarningRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.referralService.CreateEarning(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(
		serverutils.SuccessResponse("Earning recorded", resp))
}

func (c *ReferralController) GetEarnings(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	resp, err := c.referralService.GetEarningsByReferrer(
		ctx.Context(),
		userId,
		ctx.Query("status"),
		ctx.QueryInt("page", 1),
		ctx.QueryInt("limit", 0),
	)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Earnings retrieved", resp))
}

func (c *ReferralController) GetBalance(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	resp, err := c.referralService.GetAvailableBalance(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Balance retrieved", resp))
}

func (c *ReferralController) GetStats(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	resp, err := c.referralService.GetReferralStats(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Referral stats retrieved", resp))
}
