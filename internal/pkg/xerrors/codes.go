// File: internal/pkg/xerrors/codes.go
package xerrors

import "fmt"

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (未定义的错误码)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "未知错误"
}

// ToInt 转换为 int（用于 JSON 序列化等场景）
func (c ErrorCode) ToInt() int {
	return int(c)
}

// -----------------------------------------------------------------------------
// 业务错误码统一定义
// 按模块或领域对错误码进行分段，便于管理。
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess           ErrorCode = 100000 // 操作成功
	CodeInternalError     ErrorCode = 100001 // 内部服务错误
	CodeInvalidParams     ErrorCode = 100002 // 参数错误
	CodeInvalidRequest    ErrorCode = 100003 // 请求格式错误
	CodeResourceNotFound  ErrorCode = 100404 // 资源不存在
	CodeDuplicateResource ErrorCode = 100409 // 资源已存在
	CodeRateLimitExceeded ErrorCode = 100429 // 请求频率限制

	// 2xxxxx: 身份相关错误码
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败
	CodeInvalidPlayerHeader  ErrorCode = 200002 // 玩家标识无效

	// 6xxxxx: 业务逻辑错误码
	CodeBusinessLogicError  ErrorCode = 600001 // 业务逻辑错误
	CodeDataIntegrityError  ErrorCode = 600002 // 数据完整性错误
	CodeOperationNotAllowed ErrorCode = 600003 // 操作不被允许
	CodeResourceLocked      ErrorCode = 600004 // 资源被锁定

	// 7xxxxx: 外部服务错误码
	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeDatabaseError        ErrorCode = 700002 // 数据库错误
	CodeCacheError           ErrorCode = 700003 // 缓存服务错误
	CodeMessageQueueError    ErrorCode = 700004 // 消息队列错误

	// 8xxxxx: 游戏业务错误码
	// 玩家相关 (80xxxx)
	CodePlayerNotFound     ErrorCode = 800001 // 玩家不存在
	CodePlayerStatInvalid  ErrorCode = 800002 // 玩家属性无效
	CodeCompanionNotFound  ErrorCode = 800003 // 伙伴不存在
	CodeEquipmentNotFound  ErrorCode = 800004 // 装备不存在

	// 敌人相关 (81xxxx)
	CodeEnemyNotFound       ErrorCode = 810001 // 敌人不存在
	CodeEnemyTierInvalid    ErrorCode = 810002 // 敌人品阶无效
	CodeEnemyRegionInvalid  ErrorCode = 810003 // 敌人区域无效
	CodeArchetypeNotFound   ErrorCode = 810004 // 敌人原型不存在

	// 战斗相关 (82xxxx)
	CodeCombatStatInvalid ErrorCode = 820001 // 战斗属性无效
	CodeCombatBusy        ErrorCode = 820002 // 战斗结算进行中
	CodeFightNotFound     ErrorCode = 820003 // 战斗记录不存在

	// 奖励结算相关 (83xxxx)
	CodeFightConflict     ErrorCode = 830001 // 战斗已结算
	CodeRewardGrantFailed ErrorCode = 830002 // 奖励发放失败

	// 战报相关 (84xxxx)
	CodeCursorInvalid ErrorCode = 840001 // 分页游标无效
)

// -----------------------------------------------------------------------------
// HTTP 状态码常量定义
// -----------------------------------------------------------------------------
const (
	HTTPStatusOK        = 200 // 请求成功
	HTTPStatusCreated   = 201 // 资源已创建
	HTTPStatusNoContent = 204 // 请求成功但无内容返回

	HTTPStatusBadRequest          = 400 // 错误请求
	HTTPStatusUnauthorized        = 401 // 未经授权
	HTTPStatusForbidden           = 403 // 禁止访问
	HTTPStatusNotFound            = 404 // 资源未找到
	HTTPStatusConflict            = 409 // 资源冲突
	HTTPStatusUnprocessableEntity = 422 // 无法处理的实体
	HTTPStatusTooManyRequests     = 429 // 请求过多

	HTTPStatusInternalServerError = 500 // 内部服务器错误
	HTTPStatusServiceUnavailable  = 503 // 服务不可用
)

// -----------------------------------------------------------------------------
// 错误消息映射
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:           "操作成功",
	CodeInternalError:     "内部服务错误",
	CodeInvalidParams:     "参数错误",
	CodeInvalidRequest:    "请求格式错误",
	CodeResourceNotFound:  "资源不存在",
	CodeDuplicateResource: "资源已存在",
	CodeRateLimitExceeded: "请求频率限制",

	CodeAuthenticationFailed: "认证失败",
	CodeInvalidPlayerHeader:  "玩家标识无效",

	CodeBusinessLogicError:  "业务逻辑错误",
	CodeDataIntegrityError:  "数据完整性错误",
	CodeOperationNotAllowed: "操作不被允许",
	CodeResourceLocked:      "资源被锁定",

	CodeExternalServiceError: "外部服务错误",
	CodeDatabaseError:        "数据库错误",
	CodeCacheError:           "缓存服务错误",
	CodeMessageQueueError:    "消息队列错误",

	// 游戏业务错误消息
	CodePlayerNotFound:    "玩家不存在",
	CodePlayerStatInvalid: "玩家属性无效",
	CodeCompanionNotFound: "伙伴不存在",
	CodeEquipmentNotFound: "装备不存在",

	CodeEnemyNotFound:      "敌人不存在",
	CodeEnemyTierInvalid:   "敌人品阶无效",
	CodeEnemyRegionInvalid: "敌人区域无效",
	CodeArchetypeNotFound:  "敌人原型不存在",

	CodeCombatStatInvalid: "战斗属性无效",
	CodeCombatBusy:        "战斗结算进行中",
	CodeFightNotFound:     "战斗记录不存在",

	CodeFightConflict:     "战斗已结算",
	CodeRewardGrantFailed: "奖励发放失败",

	CodeCursorInvalid: "分页游标无效",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
func GetHTTPStatus(code ErrorCode) int {
	switch {
	case code == CodeSuccess:
		return HTTPStatusOK
	case code >= 200000 && code < 300000:
		return HTTPStatusUnauthorized
	case code == CodeResourceNotFound:
		return HTTPStatusNotFound
	case code == CodeDuplicateResource:
		return HTTPStatusConflict
	case code == CodeInvalidParams || code == CodeInvalidRequest:
		return HTTPStatusBadRequest
	case code == CodeRateLimitExceeded:
		return HTTPStatusTooManyRequests
	case code == CodePlayerNotFound || code == CodeCompanionNotFound ||
		code == CodeEquipmentNotFound || code == CodeEnemyNotFound ||
		code == CodeArchetypeNotFound || code == CodeFightNotFound:
		return HTTPStatusNotFound
	case code == CodeFightConflict:
		return HTTPStatusConflict
	case code == CodeCombatBusy || code == CodeResourceLocked:
		return HTTPStatusConflict
	case code == CodeCursorInvalid || code == CodeEnemyTierInvalid ||
		code == CodeEnemyRegionInvalid:
		return HTTPStatusBadRequest
	case code >= 600000 && code < 700000:
		return HTTPStatusBadRequest
	case code >= 700000 && code < 800000:
		return HTTPStatusServiceUnavailable
	case code >= 800000 && code < 900000:
		return HTTPStatusBadRequest
	default:
		return HTTPStatusInternalServerError
	}
}

// 辅助函数
// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 600000 && code < 700000:
		return "business"
	case code >= 700000 && code < 800000:
		return "external"
	case code >= 800000 && code < 810000:
		return "player"
	case code >= 810000 && code < 820000:
		return "enemy"
	case code >= 820000 && code < 830000:
		return "combat"
	case code >= 830000 && code < 840000:
		return "reward"
	case code >= 840000 && code < 900000:
		return "combat_log"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code >= 100001 && code <= 100003: // 参数错误等
		return LevelWarn
	case code >= 700001 && code < 800000: // 外部服务错误
		return LevelCritical
	default:
		return LevelError
	}
}

// isRetryableByCode 根据错误码判断是否可重试
func isRetryableByCode(code ErrorCode) bool {
	retryableCodes := map[ErrorCode]bool{
		CodeInternalError:        true,
		CodeExternalServiceError: true,
		CodeDatabaseError:        true,
		CodeCacheError:           true,
		CodeMessageQueueError:    true,
		CodeRateLimitExceeded:    true,
		CodeCombatBusy:           true,
	}
	return retryableCodes[code]
}
