package payment

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Client LDC积分支付网关客户端
type Client struct {
	APIURL     string // 退款接口地址
	PayURL     string // 收银台地址
	PID        string // 商户ID
	Key        string // 商户密钥
	HTTPClient *http.Client
}

// NewClient 创建网关客户端
func NewClient(apiURL, payURL, pid, key string) *Client {
	return &Client{
		APIURL: apiURL,
		PayURL: payURL,
		PID:    pid,
		Key:    key,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FormatMoney 金额统一格式化为两位小数字符串
func FormatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Refund 服务端代理退款
// 成功返回nil；失败返回 *GatewayError，按类别区分处置方式
func (c *Client) Refund(tradeNo string, money string) error {
	form := url.Values{}
	form.Set("pid", c.PID)
	form.Set("key", c.Key)
	form.Set("trade_no", tradeNo)
	form.Set("money", money)

	resp, err := c.HTTPClient.PostForm(c.APIURL, form)
	if err != nil {
		return &GatewayError{
			Kind:    ErrKindTransport,
			Message: fmt.Sprintf("请求支付网关失败: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{
			Kind:    ErrKindTransport,
			Message: fmt.Sprintf("读取网关响应失败: %v", err),
		}
	}

	return ParseRefundResponse(body)
}

// ParseRefundResponse 解析退款接口返回体
// 客户端直连模式下浏览器拿到的也是同样的返回体，解析规则保持一致
func ParseRefundResponse(body []byte) error {
	text := string(body)

	// 反机器人验证页面识别：网关对服务端来源的流量会返回验证页而不是JSON
	lower := strings.ToLower(text)
	if strings.Contains(lower, "cloudflare") || strings.Contains(lower, "just a moment") {
		return &GatewayError{
			Kind:    ErrKindChallenge,
			Message: "被网关的人机验证拦截，请先在浏览器中访问网关站点完成验证后重试",
		}
	}

	var result refundResponse
	if err := json.Unmarshal(body, &result); err != nil {
		preview := text
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return &GatewayError{
			Kind:    ErrKindMalformed,
			Message: fmt.Sprintf("网关返回格式异常: %s", preview),
		}
	}

	if result.Code != 1 {
		msg := result.Msg
		if msg == "" {
			msg = "网关返回错误"
		}
		return &GatewayError{
			Kind:    ErrKindCode,
			Message: fmt.Sprintf("退款失败: %s", msg),
		}
	}

	return nil
}

// RefundParams 构造客户端直连模式的退款参数
func (c *Client) RefundParams(tradeNo string, money string) *RefundParams {
	return &RefundParams{
		APIURL:  c.APIURL,
		PID:     c.PID,
		Key:     c.Key,
		TradeNo: tradeNo,
		Money:   money,
	}
}

// BuildPayURL 构造收银台跳转链接
func (c *Client) BuildPayURL(orderNo, productName, money, notifyURL, returnURL string) string {
	params := map[string]string{
		"pid":          c.PID,
		"type":         "credit",
		"out_trade_no": orderNo,
		"notify_url":   notifyURL,
		"return_url":   returnURL,
		"name":         productName,
		"money":        money,
		"sign_type":    "MD5",
	}
	params["sign"] = Sign(params, c.Key)

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	return c.PayURL + "?" + query.Encode()
}

// Sign 生成签名：参数按名称ASCII升序拼接后加商户密钥做MD5
func Sign(params map[string]string, key string) string {
	var keys []string
	for k := range params {
		if k == "sign" || k == "sign_type" || params[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for i, k := range keys {
		if i > 0 {
			buf.WriteString("&")
		}
		buf.WriteString(k)
		buf.WriteString("=")
		buf.WriteString(params[k])
	}
	buf.WriteString(key)

	h := md5.New()
	h.Write([]byte(buf.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySign 校验支付回调签名
func VerifySign(params map[string]string, key string) bool {
	sign := params["sign"]
	if sign == "" {
		return false
	}
	return strings.EqualFold(Sign(params, key), sign)
}
