package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aure-self/internal/modules/combat/service"
	"aure-self/internal/pkg/ctxkey"
	"aure-self/internal/pkg/log"
	"aure-self/internal/pkg/response"
	"aure-self/internal/pkg/validator"
)

// setupCombatHandlers 构造不依赖真实数据库的 Handler 测试环境
// 仅覆盖进入 Service 之前就返回的分支
func setupCombatHandlers(t *testing.T) (*FightHandler, *CombatLogHandler, *echo.Echo) {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log.Init(slog.LevelError, "test")
	respWriter := response.NewResponseHandler(log.GetLogger(), "test")
	sc := service.NewServiceContainer(db, nil)

	e := echo.New()
	e.Validator = validator.New()
	return NewFightHandler(sc, respWriter), NewCombatLogHandler(sc, respWriter), e
}

func TestFightHandler_Fight(t *testing.T) {
	fightHandler, _, e := setupCombatHandlers(t)

	tests := []struct {
		name           string
		requestBody    string
		setupContext   func(c echo.Context)
		expectedStatus int
	}{
		{
			name:           "缺少玩家身份返回401",
			requestBody:    `{}`,
			setupContext:   func(c echo.Context) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "请求格式错误返回400",
			requestBody: `{invalid-json`,
			setupContext: func(c echo.Context) {
				c.Set(string(ctxkey.PlayerID), "660e8400-e29b-41d4-a716-446655440001")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "敌人ID不是UUID返回400",
			requestBody: `{"enemy_id":"not-a-uuid"}`,
			setupContext: func(c echo.Context) {
				c.Set(string(ctxkey.PlayerID), "660e8400-e29b-41d4-a716-446655440001")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "敌人品阶无效返回400",
			requestBody: `{"tier":"legendary"}`,
			setupContext: func(c echo.Context) {
				c.Set(string(ctxkey.PlayerID), "660e8400-e29b-41d4-a716-446655440001")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "敌人原型无效返回400",
			requestBody: `{"archetype":"berserker"}`,
			setupContext: func(c echo.Context) {
				c.Set(string(ctxkey.PlayerID), "660e8400-e29b-41d4-a716-446655440001")
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/combat/fight",
				bytes.NewBufferString(tt.requestBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			tt.setupContext(c)

			err := fightHandler.Fight(c)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestCombatLogHandler_List(t *testing.T) {
	_, logHandler, e := setupCombatHandlers(t)

	t.Run("缺少玩家身份返回401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/combat/logs", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := logHandler.List(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("游标格式错误返回400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/combat/logs?cursor=not-base64!!!", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(string(ctxkey.PlayerID), "660e8400-e29b-41d4-a716-446655440001")

		err := logHandler.List(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCombatLogHandler_Get(t *testing.T) {
	_, logHandler, e := setupCombatHandlers(t)

	t.Run("缺少战报ID返回400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/combat/logs/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(string(ctxkey.PlayerID), "660e8400-e29b-41d4-a716-446655440001")

		err := logHandler.Get(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
