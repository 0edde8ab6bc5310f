package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"aure-self/internal/modules/combat/service"
	"aure-self/internal/pkg/response"
	"aure-self/internal/repository/interfaces"
)

// EnemyHandler 敌人图鉴与生成预览接口。
type EnemyHandler struct {
	enemyService *service.EnemyService
	statService  *service.StatService
	respWriter   response.Writer
}

// NewEnemyHandler 构造函数。
func NewEnemyHandler(sc *service.ServiceContainer, respWriter response.Writer) *EnemyHandler {
	return &EnemyHandler{
		enemyService: sc.GetEnemyService(),
		statService:  sc.GetStatService(),
		respWriter:   respWriter,
	}
}

// List 图鉴分页查询。
// GET /api/v1/combat/enemies?tier=elite&region=frost_peaks&limit=20&offset=0
func (h *EnemyHandler) List(c echo.Context) error {
	params := h.parseQueryParams(c)

	enemies, total, err := h.enemyService.List(c.Request().Context(), params)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, map[string]interface{}{
		"enemies": enemies,
		"total":   total,
		"limit":   params.Limit,
		"offset":  params.Offset,
	})
}

// Get 查询单个图鉴敌人。
// GET /api/v1/combat/enemies/:id
func (h *EnemyHandler) Get(c echo.Context) error {
	enemyID := c.Param("id")
	if enemyID == "" {
		return response.EchoBadRequest(c, h.respWriter, "敌人 ID 不能为空")
	}

	enemy, err := h.enemyService.ByID(c.Request().Context(), enemyID)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, enemy)
}

// Preview 按当前玩家等级生成一个敌人预览，不开战不落库。
// GET /api/v1/combat/enemies/preview?tier=boss&archetype=tank&region=abyssal_rift
func (h *EnemyHandler) Preview(c echo.Context) error {
	playerID := playerIDFromContext(c)
	if playerID == "" {
		return response.EchoUnauthorized(c, h.respWriter, "缺少玩家身份")
	}

	stats, err := h.statService.Aggregate(c.Request().Context(), playerID)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	enemy, err := h.enemyService.Generate(c.Request().Context(), stats.Level, service.GenerateOptions{
		Archetype: c.QueryParam("archetype"),
		Tier:      c.QueryParam("tier"),
		Region:    c.QueryParam("region"),
	})
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, enemy)
}

// parseQueryParams 解析图鉴查询参数
func (h *EnemyHandler) parseQueryParams(c echo.Context) interfaces.EnemyQueryParams {
	params := interfaces.EnemyQueryParams{}

	if tier := c.QueryParam("tier"); tier != "" {
		params.Tier = &tier
	}
	if region := c.QueryParam("region"); region != "" {
		params.Region = &region
	}
	if archetype := c.QueryParam("archetype"); archetype != "" {
		params.Archetype = &archetype
	}
	if minLevelStr := c.QueryParam("min_level"); minLevelStr != "" {
		if minLevel, err := strconv.Atoi(minLevelStr); err == nil {
			params.MinLevel = &minLevel
		}
	}
	if maxLevelStr := c.QueryParam("max_level"); maxLevelStr != "" {
		if maxLevel, err := strconv.Atoi(maxLevelStr); err == nil {
			params.MaxLevel = &maxLevel
		}
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	params.Limit = limit

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	params.Offset = offset

	params.OrderBy = c.QueryParam("order_by")
	params.OrderDesc = c.QueryParam("order") == "desc"

	return params
}
