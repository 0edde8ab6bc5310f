package middleware

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"aure-self/internal/pkg/ctxkey"
	"aure-self/internal/pkg/log"
	"aure-self/internal/pkg/response"
	"aure-self/internal/pkg/xerrors"
)

// PlayerMiddleware 玩家上下文中间件 - 从请求头解析并校验当前玩家
//
// 工作流程：
// 1. 读取 X-Player-ID 请求头
// 2. 校验格式并确认玩家在库且未删除
// 3. 将 player_id 设置到 context 供后续 handler 使用
//
// 使用场景：
// - 所有需要玩家身份的战斗 API
// - 不需要应用在图鉴查询等公开 API
func PlayerMiddleware(db *sql.DB, respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			// 1. 读取玩家标识头
			playerID := c.Request().Header.Get("X-Player-ID")
			if playerID == "" {
				err := xerrors.New(
					xerrors.CodeInvalidPlayerHeader,
					"缺少 X-Player-ID 请求头",
				).WithService("middleware", "player")
				return respWriter.WriteError(ctx, c.Response().Writer, err)
			}

			if _, err := uuid.Parse(playerID); err != nil {
				logger.WarnContext(ctx, "玩家标识格式无效", log.String("player_id", playerID))
				appErr := xerrors.New(
					xerrors.CodeInvalidPlayerHeader,
					"玩家标识格式无效",
				).WithService("middleware", "player")
				return respWriter.WriteError(ctx, c.Response().Writer, appErr)
			}

			// 2. 确认玩家存在且未删除
			var exists bool
			err := db.QueryRowContext(ctx,
				`SELECT EXISTS (
				   SELECT 1 FROM game_runtime.players
				   WHERE id = $1 AND deleted_at IS NULL
				 )`,
				playerID,
			).Scan(&exists)

			if err != nil {
				logger.Error("查询玩家失败", err, log.String("player_id", playerID))
				appErr := xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询玩家失败").
					WithService("middleware", "player")
				return respWriter.WriteError(ctx, c.Response().Writer, appErr)
			}
			if !exists {
				appErr := xerrors.NewPlayerNotFoundError(playerID).
					WithService("middleware", "player")
				return respWriter.WriteError(ctx, c.Response().Writer, appErr)
			}

			// 3. 设置 player_id 到 context
			ctx = ctxkey.WithValue(ctx, ctxkey.PlayerID, playerID)
			c.SetRequest(c.Request().WithContext(ctx))

			// 也设置到 Echo Context，便于直接访问
			c.Set(string(ctxkey.PlayerID), playerID)

			return next(c)
		}
	}
}

// GetCurrentPlayerID 从 Echo Context 中获取当前玩家 ID（快捷方法）
func GetCurrentPlayerID(c echo.Context) (string, error) {
	playerID := c.Get(string(ctxkey.PlayerID))
	if playerID == nil {
		return "", xerrors.New(
			xerrors.CodeInvalidPlayerHeader,
			"未找到当前玩家信息",
		)
	}

	playerIDStr, ok := playerID.(string)
	if !ok {
		return "", xerrors.New(
			xerrors.CodeInternalError,
			"玩家信息类型错误",
		)
	}

	return playerIDStr, nil
}
