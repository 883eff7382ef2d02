package payment

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		10:     "10.00",
		9.9:    "9.90",
		0.01:   "0.01",
		123.45: "123.45",
	}
	for amount, want := range cases {
		if got := FormatMoney(amount); got != want {
			t.Errorf("FormatMoney(%v) = %s, 期望 %s", amount, got, want)
		}
	}
}

func TestParseRefundResponseSuccess(t *testing.T) {
	if err := ParseRefundResponse([]byte(`{"code":1,"msg":"ok"}`)); err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
}

func TestParseRefundResponseCodeError(t *testing.T) {
	err := ParseRefundResponse([]byte(`{"code":0,"msg":"余额不足"}`))
	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("期望GatewayError，实际: %v", err)
	}
	if gatewayErr.Kind != ErrKindCode {
		t.Fatalf("期望code类错误，实际%s", gatewayErr.Kind)
	}
	if !strings.Contains(gatewayErr.Message, "余额不足") {
		t.Fatalf("错误信息应包含网关消息: %s", gatewayErr.Message)
	}
	if gatewayErr.Retryable() {
		t.Fatalf("code类错误不应标记为可重试")
	}
}

// 网关对服务端来源的流量会返回人机验证页，按challenge类别识别
func TestParseRefundResponseChallenge(t *testing.T) {
	pages := []string{
		`<html><title>Just a moment...</title></html>`,
		`<html><body>Checking your browser - Cloudflare</body></html>`,
		`<html>CLOUDFLARE ray id</html>`,
	}
	for _, page := range pages {
		err := ParseRefundResponse([]byte(page))
		var gatewayErr *GatewayError
		if !errors.As(err, &gatewayErr) || gatewayErr.Kind != ErrKindChallenge {
			t.Fatalf("页面应识别为challenge: %q -> %v", page, err)
		}
	}
}

func TestParseRefundResponseMalformed(t *testing.T) {
	long := strings.Repeat("x", 500)
	err := ParseRefundResponse([]byte(long))
	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) || gatewayErr.Kind != ErrKindMalformed {
		t.Fatalf("期望malformed类错误，实际: %v", err)
	}
	// 原始返回体只保留前200字符做诊断
	if len(gatewayErr.Message) > 250 {
		t.Fatalf("错误信息过长: %d", len(gatewayErr.Message))
	}
}

func TestRefundAgainstServer(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"code":1,"msg":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, "1001", "secret")
	if err := client.Refund("T123", "9.90"); err != nil {
		t.Fatalf("退款失败: %v", err)
	}

	if gotForm.Get("pid") != "1001" || gotForm.Get("key") != "secret" ||
		gotForm.Get("trade_no") != "T123" || gotForm.Get("money") != "9.90" {
		t.Fatalf("请求参数不符: %v", gotForm)
	}
}

func TestRefundTransportError(t *testing.T) {
	// 指向一个已关闭的地址
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, server.URL, "1001", "secret")
	err := client.Refund("T123", "1.00")
	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) || gatewayErr.Kind != ErrKindTransport {
		t.Fatalf("期望transport类错误，实际: %v", err)
	}
	if !gatewayErr.Retryable() {
		t.Fatalf("transport类错误应可重试")
	}
}

func TestSignSkipsEmptyAndSignFields(t *testing.T) {
	params := map[string]string{
		"pid":          "1001",
		"out_trade_no": "LDC1",
		"money":        "9.90",
		"empty":        "",
		"sign":         "deadbeef",
		"sign_type":    "MD5",
	}
	// sign、sign_type和空值不参与签名
	same := Sign(params, "key")
	delete(params, "empty")
	delete(params, "sign")
	delete(params, "sign_type")
	if Sign(params, "key") != same {
		t.Fatalf("忽略字段影响了签名结果")
	}
}

func TestVerifySign(t *testing.T) {
	params := map[string]string{
		"pid":          "1001",
		"out_trade_no": "LDC123",
		"trade_no":     "T456",
		"money":        "9.90",
		"trade_status": "TRADE_SUCCESS",
	}
	params["sign"] = Sign(params, "secret")

	if !VerifySign(params, "secret") {
		t.Fatalf("正确签名校验失败")
	}
	// 大小写不敏感
	params["sign"] = strings.ToUpper(params["sign"])
	if !VerifySign(params, "secret") {
		t.Fatalf("签名校验应忽略大小写")
	}

	params["money"] = "0.01"
	if VerifySign(params, "secret") {
		t.Fatalf("参数被篡改后校验应失败")
	}

	delete(params, "sign")
	if VerifySign(params, "secret") {
		t.Fatalf("缺少签名应校验失败")
	}
}

func TestBuildPayURL(t *testing.T) {
	client := NewClient("https://gw.example.com/api", "https://gw.example.com/submit", "1001", "secret")
	payURL := client.BuildPayURL("LDC123", "测试商品", "9.90",
		"https://store.example.com/notify", "https://store.example.com/return")

	parsed, err := url.Parse(payURL)
	if err != nil {
		t.Fatalf("解析收银台链接失败: %v", err)
	}
	query := parsed.Query()
	if query.Get("out_trade_no") != "LDC123" || query.Get("money") != "9.90" {
		t.Fatalf("收银台参数不符: %v", query)
	}

	// 链接上的签名应当能通过校验
	params := make(map[string]string)
	for k := range query {
		params[k] = query.Get(k)
	}
	if !VerifySign(params, "secret") {
		t.Fatalf("收银台链接签名校验失败")
	}
}
