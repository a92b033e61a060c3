package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	domtracking "github.com/jhoicas/Trazabilidad-api/internal/domain/tracking"
	"github.com/jhoicas/Trazabilidad-api/pkg/validation"
)

// OrderHandler trazabilidad de órdenes e histórico.
type OrderHandler struct {
	uc *tracking.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *tracking.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Track godoc
// @Summary      Registrar movimiento de un código entre reparti
// @Description  Crea la orden si el código no existe. Orden e histórico se escriben en la misma transacción.
// @Tags         tracking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TrackOrderRequest  true  "tipo, código, origen, destino"
// @Success      200   {object}  dto.TrackOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tracking [post]
func (h *OrderHandler) Track(c *fiber.Ctx) error {
	var in dto.TrackOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.TrackOrder(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.GetAllOrders(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar por ODL, JOB o STACCATO
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "código"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders/search [get]
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.SearchOrder(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Obtener orden por número ODL
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "número ODL"
// @Success      200     {object}  dto.OrderResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/orders/by-number/{number} [get]
func (h *OrderHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetOrderByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Número de órdenes por reparto actual
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/orders/summary [get]
func (h *OrderHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetOrdersSummaryByDepartment(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Orden con histórico
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderWithHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetOrderWithHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Histórico de una orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  dto.OrderHistoryResponse
// @Router       /api/orders/{id}/history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.GetOrderHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Card godoc
// @Summary      Ficha PDF de la orden
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) Card(c *fiber.Ctx) error {
	out, err := h.uc.OrderCardPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="ordine-%s.pdf"`, c.Params("id")))
	return c.Send(out)
}

// Move godoc
// @Summary      Mover orden existente (avanzamento o retrocessione)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la orden"
// @Param        body  body  dto.MoveOrderRequest  true  "origen, destino, operación"
// @Success      200   {object}  dto.OrderHistoryResponse
// @Router       /api/orders/{id}/move [post]
func (h *OrderHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, err)
	}
	op, err := domtracking.ParseOperation(in.Operation)
	if err != nil {
		return writeError(c, err)
	}
	data := tracking.MoveData{Scarti: in.Scarti, Note: in.Note}
	var out *dto.OrderHistoryResponse
	if op == entity.OperationRetrocessione {
		out, err = h.uc.MoveOrderBackward(c.UserContext(), c.Params("id"), in.FromDepartmentID, in.ToDepartmentID, GetUserID(c), data)
	} else {
		out, err = h.uc.MoveOrder(c.UserContext(), c.Params("id"), in.FromDepartmentID, in.ToDepartmentID, GetUserID(c), data)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateData godoc
// @Summary      Corregir scarti y nota de la orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderDataRequest  true  "scarti y nota"
// @Success      200   {object}  dto.OrderResponse
// @Router       /api/orders/{id}/data [put]
func (h *OrderHandler) UpdateData(c *fiber.Ctx) error {
	var in dto.UpdateOrderDataRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateOrderData(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CountInDepartment godoc
// @Summary      Órdenes presentes en un reparto
// @Tags         departments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reparto"
// @Success      200  {object}  dto.CountResponse
// @Router       /api/departments/{id}/orders/count [get]
func (h *OrderHandler) CountInDepartment(c *fiber.Ctx) error {
	n, err := h.uc.CountOrdersInDepartment(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// RecentHistory godoc
// @Summary      Últimos movimientos
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de movimientos"  default(50)
// @Success      200    {array}  dto.OrderHistoryResponse
// @Router       /api/history/recent [get]
func (h *OrderHandler) RecentHistory(c *fiber.Ctx) error {
	out, err := h.uc.GetRecentHistory(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Exportar últimos movimientos en CSV
// @Tags         history
// @Security     Bearer
// @Produce      text/csv
// @Param        limit  query  int  false  "máximo de movimientos"  default(50)
// @Success      200    {file}  binary
// @Router       /api/history/export.csv [get]
func (h *OrderHandler) ExportCSV(c *fiber.Ctx) error {
	out, err := h.uc.ExportHistoryCSV(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="storico-%s.csv"`, time.Now().Format("20060102")))
	return c.Send(out)
}
