package payment

// 网关错误类别
const (
	ErrKindTransport = "transport" // 网络/超时，操作员可手动重试
	ErrKindChallenge = "challenge" // 被反机器人验证拦截，需要人工完成验证后重试
	ErrKindMalformed = "malformed" // 返回体不是合法JSON
	ErrKindCode      = "code"      // 网关返回了明确的错误码
)

// GatewayError 支付网关调用错误
type GatewayError struct {
	Kind    string // 错误类别
	Message string
}

func (e *GatewayError) Error() string {
	return e.Message
}

// Retryable 是否值得操作员原样重试。只有传输类错误是
func (e *GatewayError) Retryable() bool {
	return e.Kind == ErrKindTransport
}

// RefundParams 退款接口调用参数
// 客户端直连模式下原样下发给管理员浏览器，由浏览器发起请求
type RefundParams struct {
	APIURL  string `json:"api_url"`
	PID     string `json:"pid"`
	Key     string `json:"key"`
	TradeNo string `json:"trade_no"`
	Money   string `json:"money"`
}

// refundResponse 退款接口返回
type refundResponse struct {
	Code int    `json:"code"` // 1 为成功
	Msg  string `json:"msg"`
}
