package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"aure-self/internal/modules/combat/service"
	"aure-self/internal/pkg/response"
)

// CombatLogHandler 战报查询接口。
type CombatLogHandler struct {
	logService *service.CombatLogService
	respWriter response.Writer
}

// NewCombatLogHandler 构造函数。
func NewCombatLogHandler(sc *service.ServiceContainer, respWriter response.Writer) *CombatLogHandler {
	return &CombatLogHandler{
		logService: sc.GetCombatLogService(),
		respWriter: respWriter,
	}
}

// List 分页查询当前玩家的战报。
// GET /api/v1/combat/logs?limit=20&cursor=xxx
func (h *CombatLogHandler) List(c echo.Context) error {
	playerID := playerIDFromContext(c)
	if playerID == "" {
		return response.EchoUnauthorized(c, h.respWriter, "缺少玩家身份")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	cursor := c.QueryParam("cursor")

	page, err := h.logService.List(c.Request().Context(), playerID, limit, cursor)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, page)
}

// Get 查询单条战报明细。
// GET /api/v1/combat/logs/:id
func (h *CombatLogHandler) Get(c echo.Context) error {
	playerID := playerIDFromContext(c)
	if playerID == "" {
		return response.EchoUnauthorized(c, h.respWriter, "缺少玩家身份")
	}

	fightID := c.Param("id")
	if fightID == "" {
		return response.EchoBadRequest(c, h.respWriter, "战报 ID 不能为空")
	}

	record, err := h.logService.Get(c.Request().Context(), playerID, fightID)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, record)
}
