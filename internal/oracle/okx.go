package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tonvault/conf"
	"tonvault/pkg/logger"

	"github.com/spf13/cast"
)

// okx的公开行情接口，不需要apikey

// OkxOracle 封装了与 OKX 公开 REST API 通信所需的一切
type OkxOracle struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
}

var _ PriceOracle = (*OkxOracle)(nil)

func NewOkxOracle(cfg *conf.OracleConfig) *OkxOracle {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		// OKX V5 基础公共 API 地址
		baseURL = "https://www.okx.com/api/v5"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &OkxOracle{
		baseURL:    baseURL,
		maxRetries: maxRetries,
		// 使用自定义的 HTTP Client，设置合理的超时时间
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetPrice 获取最新成交价，失败时带指数退避重试
func (c *OkxOracle) GetPrice(ctx context.Context, instrument string) (float64, error) {
	var price float64
	var err error

	// 初始化退避时间
	backoffTime := 200 * time.Millisecond

	for i := 0; i < c.maxRetries; i++ {
		price, err = c.fetchPrice(ctx, instrument)
		if err == nil {
			return price, nil
		}

		// 失败，记录日志并准备重试
		logger.Warnf("获取 %s 行情第 %d 次失败: %v，%v 后重试", instrument, i+1, err, backoffTime)

		// 如果是最后一次尝试，则不再等待
		if i == c.maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			// 上下文被取消，停止重试
			return 0, ctx.Err()
		case <-time.After(backoffTime):
			// 继续下一次循环
		}

		// 指数退避：下次等待时间翻倍
		backoffTime *= 2
	}

	return 0, fmt.Errorf("%w: %s 在 %d 次尝试后仍失败: %v", ErrPriceUnavailable, instrument, c.maxRetries, err)
}

func (c *OkxOracle) fetchPrice(ctx context.Context, instrument string) (float64, error) {
	endpoint := fmt.Sprintf("/market/ticker?instId=%s", instrument)

	var tickers []tickerRaw
	if err := c.doPublicGet(ctx, endpoint, &tickers); err != nil {
		return 0, err
	}
	if len(tickers) == 0 {
		return 0, fmt.Errorf("%w: %s 无行情数据", ErrPriceUnavailable, instrument)
	}

	last, err := cast.ToFloat64E(tickers[0].Last)
	if err != nil {
		return 0, fmt.Errorf("解析最新价失败: %w", err)
	}
	// 非正价格视为行情源异常，不向上层传播
	if last <= 0 {
		return 0, fmt.Errorf("%w: %s 返回非正价格 %f", ErrPriceUnavailable, instrument, last)
	}
	return last, nil
}

// doPublicGet 执行通用的 GET 请求，处理 JSON 解析和错误
func (c *OkxOracle) doPublicGet(ctx context.Context, endpoint string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API返回非成功状态码: %d", resp.StatusCode)
	}

	// OKX API 的标准 JSON 格式：{"code":"0", "msg":"", "data":[...]}
	var apiResponse struct {
		Code string          `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return fmt.Errorf("解析API响应JSON失败: %w", err)
	}
	if apiResponse.Code != "0" {
		// OKX API 业务错误（code!=0）
		return fmt.Errorf("OKX API错误, Code: %s, Msg: %s", apiResponse.Code, apiResponse.Msg)
	}

	if err := json.Unmarshal(apiResponse.Data, result); err != nil {
		return fmt.Errorf("解析Data字段失败: %w", err)
	}
	return nil
}

// tickerRaw 对应 OKX API 返回的单个ticker
type tickerRaw struct {
	InstId string `json:"instId"`
	Last   string `json:"last"`   // 最新成交价
	AskPx  string `json:"askPx"`  // 卖一价
	BidPx  string `json:"bidPx"`  // 买一价
	Ts     string `json:"ts"`     // 毫秒时间戳
}
