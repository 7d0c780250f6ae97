package ecode

// 业务错误码，0表示成功
const (
	Success = 0

	// 通用
	InternalErr    = 10001
	InvalidParams  = 10002
	RequireAuthErr = 10003

	// 告警处理
	ValidationFailed = 20001
	UnknownExchange  = 20002
	SizingFailed     = 20003
	ExecutionFailed  = 20004
	StorageFailed    = 20005
	ThrottleHit      = 20006
)

var messages = map[int]string{
	Success:          "ok",
	InternalErr:      "internal error",
	InvalidParams:    "invalid params",
	RequireAuthErr:   "require auth",
	ValidationFailed: "alert validation failed",
	UnknownExchange:  "unknown exchange",
	SizingFailed:     "order sizing failed",
	ExecutionFailed:  "order execution failed",
	StorageFailed:    "ledger storage unavailable",
	ThrottleHit:      "duplicate alert throttled",
}

// Message 根据错误码取默认提示
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[InternalErr]
}
