package service

// Requester 请求方身份（由鉴权中间件解析）
type Requester struct {
	UserID  uint
	IsStaff bool
}
