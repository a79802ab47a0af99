package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/application/report"
)

// ReportHandler expone los reportes de CMV y de lista de compras sugerida.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetCMV godoc
// @Summary      Reporte de CMV
// @Description  Conciliación por producto: consumido = stock inicial + compras - stock final; cmv = consumido * costo promedio ponderado.
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  true  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  true  "Fin del período (YYYY-MM-DD)"
// @Success      200  {object}  dto.CMVReportDTO
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_RANGE"
// @Router       /api/reports/cmv [get]
func (h *ReportHandler) GetCMV(c *fiber.Ctx) error {
	var in dto.CMVReportRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.GetCMVReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetCMVPDF godoc
// @Summary      Reporte de CMV en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        start_date  query  string  true  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  true  "Fin del período (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/cmv/pdf [get]
func (h *ReportHandler) GetCMVPDF(c *fiber.Ctx) error {
	var in dto.CMVReportRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	pdf, err := h.uc.RenderCMVReportPDF(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, fmt.Sprintf("cmv_%s_%s.pdf", in.StartDate, in.EndDate), pdf)
}

// GetPurchaseList godoc
// @Summary      Lista de compras sugerida
// @Description  Sugerido = max(0, consumo diario * horizonte - stock actual). El consumo se estima con el inventario anterior.
// @Tags         reports
// @Produce      json
// @Param        inventory_id  query  int  true   "Inventario de referencia"
// @Param        horizon_days  query  int  false  "Días a cubrir (por defecto 7)"
// @Success      200  {object}  dto.PurchaseSuggestionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/purchase_list [get]
func (h *ReportHandler) GetPurchaseList(c *fiber.Ctx) error {
	var in dto.PurchaseSuggestionRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "inventory_id y horizon_days deben ser enteros")
	}
	out, err := h.uc.GetPurchaseSuggestion(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPurchaseListPDF godoc
// @Summary      Lista de compras sugerida en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        inventory_id  query  int  true   "Inventario de referencia"
// @Param        horizon_days  query  int  false  "Días a cubrir (por defecto 7)"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/purchase_list/pdf [get]
func (h *ReportHandler) GetPurchaseListPDF(c *fiber.Ctx) error {
	var in dto.PurchaseSuggestionRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "inventory_id y horizon_days deben ser enteros")
	}
	pdf, err := h.uc.RenderPurchaseSuggestionPDF(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, fmt.Sprintf("lista_compras_%d.pdf", in.InventoryID), pdf)
}

func sendPDF(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
