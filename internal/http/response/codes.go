package response

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
	CodeUnavailable     = 503
)

// 错误类别（响应体 error 字段）
const (
	KindValidation   = "validation_error"
	KindUnauthorized = "authentication_error"
	KindPermission   = "permission_error"
	KindNotFound     = "not_found"
	KindConflict     = "conflict_error"
	KindRateLimited  = "rate_limited"
	KindTransaction  = "transaction_error"
	KindInternal     = "internal_error"
)

// KindForCode 根据状态码推导错误类别
func KindForCode(code int) string {
	switch code {
	case CodeBadRequest:
		return KindValidation
	case CodeUnauthorized:
		return KindUnauthorized
	case CodeForbidden:
		return KindPermission
	case CodeNotFound:
		return KindNotFound
	case CodeConflict:
		return KindConflict
	case CodeTooManyRequests:
		return KindRateLimited
	case CodeUnavailable:
		return KindTransaction
	default:
		return KindInternal
	}
}
