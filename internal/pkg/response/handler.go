// File: internal/pkg/response/handler.go
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"aure-self/internal/pkg/log"
	"aure-self/internal/pkg/xerrors"
)

// Writer 统一的响应写入接口
// Handler 层通过该接口输出响应，避免直接依赖具体实现
type Writer interface {
	WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error
	WriteError(ctx context.Context, w http.ResponseWriter, err error) error
	WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error
}

// ResponseHandler Writer 的标准实现
type ResponseHandler struct {
	logger      log.Logger
	environment string
}

// NewResponseHandler 创建响应处理器
func NewResponseHandler(logger log.Logger, environment string) *ResponseHandler {
	return &ResponseHandler{
		logger:      logger,
		environment: environment,
	}
}

// WriteSuccess 写入成功响应
func (h *ResponseHandler) WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error {
	resp := Success(&data)
	JSON(w, http.StatusOK, resp)
	return nil
}

// WriteError 写入错误响应
// 非 AppError 的错误统一按内部错误处理，避免泄露底层细节
func (h *ResponseHandler) WriteError(ctx context.Context, w http.ResponseWriter, err error) error {
	appErr, ok := err.(*xerrors.AppError)
	if !ok {
		appErr = xerrors.Wrap(err, xerrors.CodeInternalError, "内部服务错误")
	}

	log.LogAppError(ctx, "请求处理失败", appErr)

	// 生产环境不向客户端暴露底层错误详情
	detail := ""
	if h.environment != "production" && appErr.Err != nil {
		detail = appErr.Err.Error()
	}

	resp := Error[EmptyData](appErr.Code.ToInt(), appErr.Message, detail)
	JSON(w, xerrors.GetHTTPStatus(appErr.Code), resp)
	return nil
}

// WriteJSON 直接写入 JSON 响应(跳过统一包装)
func (h *ResponseHandler) WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.ErrorContext(ctx, "写入JSON响应失败", log.Any("error", err))
	}
	return nil
}
