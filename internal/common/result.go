package common

import "time"

// ResultCode is an immutable (code, default message) pair used in the
// unified response envelope.
type ResultCode struct {
	Code    int
	Message string
}

var (
	Success = ResultCode{200, "操作成功"}

	// client errors 4xx
	BadRequest       = ResultCode{400, "请求参数错误"}
	Unauthorized     = ResultCode{401, "未授权"}
	Forbidden        = ResultCode{403, "禁止访问"}
	NotFound         = ResultCode{404, "资源不存在"}
	MethodNotAllowed = ResultCode{405, "请求方法不支持"}

	// server errors 5xx
	InternalError      = ResultCode{500, "系统内部错误"}
	ServiceUnavailable = ResultCode{503, "服务不可用"}

	// business errors 1xxx
	BusinessFailed   = ResultCode{1000, "业务处理失败"}
	ValidationFailed = ResultCode{1001, "数据验证失败"}
	DuplicateKey     = ResultCode{1002, "数据已存在"}
	DataNotFound     = ResultCode{1003, "数据不存在"}

	// database errors 2xxx
	DatabaseError = ResultCode{2000, "数据库操作失败"}
	SQLError      = ResultCode{2001, "SQL执行错误"}
)

// Result is the uniform response envelope. Every endpoint, success or
// failure, responds with exactly this shape.
type Result struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// Build constructs an envelope with an explicit code, message and payload.
// Timestamp is the server time at construction, in epoch milliseconds.
func Build(code int, message string, data any) Result {
	return Result{
		Code:      code,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// OK wraps a successful payload with the default success message.
func OK(data any) Result {
	return Build(Success.Code, Success.Message, data)
}

// OKMsg wraps a successful payload with a custom message.
func OKMsg(message string, data any) Result {
	return Build(Success.Code, message, data)
}

// Err returns a failure envelope with the default internal-error code and message.
func Err() Result {
	return Build(InternalError.Code, InternalError.Message, nil)
}

// ErrMsg returns a failure envelope with the internal-error code and a custom message.
func ErrMsg(message string) Result {
	return Build(InternalError.Code, message, nil)
}

// ErrCode returns a failure envelope with an explicit code and message.
func ErrCode(code int, message string) Result {
	return Build(code, message, nil)
}

// ErrResult returns a failure envelope from a ResultCode pair.
func ErrResult(rc ResultCode) Result {
	return Build(rc.Code, rc.Message, nil)
}
