package response

// AppError 接口层错误，携带状态码、错误类别与原始错误
type AppError struct {
	Code    int
	Kind    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误，状态码不在 4xx/5xx 范围时按 500 处理
func WrapError(code int, message string, err error) *AppError {
	if code < 400 || code > 599 {
		code = CodeInternal
	}
	return &AppError{
		Code:    code,
		Kind:    KindForCode(code),
		Message: message,
		Err:     err,
	}
}
