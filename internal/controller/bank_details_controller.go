package controller

import (
	"github.com/gofiber/fiber/v2"

	"taxpadi-referral-be/internal/dto"
	"taxpadi-referral-be/internal/pkg/serverutils"
	"taxpadi-referral-be/internal/service"
)

type BankDetailsController struct {
	bankDetailsService service.IBankDetailsService
}

func NewBankDetailsController(bankDetailsService service.IBankDetailsService) *BankDetailsController {
	return &BankDetailsController{bankDetailsService: bankDetailsService}
}

func (c *BankDetailsController) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/bank-details", serverutils.JwtMiddleware)

	api.Put("/", c.SaveBankDetails)
	api.Get("/", c.GetBankDetails)
}

func (c *BankDetailsController) SaveBankDetails(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveBankDetailsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.bankDetailsService.SaveBankDetails(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bank details saved", resp))
}

func (c *BankDetailsController) GetBankDetails(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	resp, err := c.bankDetailsService.GetUserBankDetails(ctx.Context(), userId)
	if err != nil {
		return err
	}
	if resp == nil {
		return fiber.NewError(fiber.StatusNotFound, "no bank details on record")
	}
	return ctx.JSON(serverutils.SuccessResponse("Bank details retrieved", resp))
}
