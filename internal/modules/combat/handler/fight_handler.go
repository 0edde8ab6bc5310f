package handler

import (
	"github.com/labstack/echo/v4"

	"aure-self/internal/modules/combat/service"
	"aure-self/internal/pkg/ctxkey"
	"aure-self/internal/pkg/response"
)

// FightHandler 处理发起战斗的请求。
type FightHandler struct {
	fightService *service.FightService
	respWriter   response.Writer
}

// NewFightHandler 构造函数。
func NewFightHandler(sc *service.ServiceContainer, respWriter response.Writer) *FightHandler {
	return &FightHandler{
		fightService: sc.GetFightService(),
		respWriter:   respWriter,
	}
}

type fightPayload struct {
	EnemyID   string `json:"enemy_id" validate:"omitempty,uuid"`
	Tier      string `json:"tier" validate:"enemy_tier"`
	Region    string `json:"region" validate:"enemy_region"`
	Archetype string `json:"archetype" validate:"enemy_archetype"`
}

// Fight 打一场完整的战斗并返回结算结果。
// POST /api/v1/combat/fight
func (h *FightHandler) Fight(c echo.Context) error {
	playerID := playerIDFromContext(c)
	if playerID == "" {
		return response.EchoUnauthorized(c, h.respWriter, "缺少玩家身份")
	}

	var payload fightPayload
	if err := c.Bind(&payload); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "请求格式错误")
	}
	if err := c.Validate(&payload); err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	result, err := h.fightService.Fight(c.Request().Context(), playerID, &service.FightRequest{
		EnemyID:   payload.EnemyID,
		Tier:      payload.Tier,
		Region:    payload.Region,
		Archetype: payload.Archetype,
	})
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, result)
}

// playerIDFromContext 读取玩家中间件写入的玩家 ID。
func playerIDFromContext(c echo.Context) string {
	if playerID, ok := c.Get(string(ctxkey.PlayerID)).(string); ok {
		return playerID
	}
	return ""
}
