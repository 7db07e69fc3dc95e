package chain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"tonvault/internal/escrow"
	"tonvault/pkg/logger"
	"tonvault/pkg/utils"
)

// HTTPChain 通过链网关提交合约消息。网关持有owner私钥，
// 负责外部消息的签名和上链，这里只组装消息体。
// 提交不重试，getter读取是幂等的可以重试。
type HTTPChain struct {
	httpClient *http.Client
	endpoint   string
	owner      escrow.Address
	maxRetries int
}

var _ Submitter = (*HTTPChain)(nil)

func NewHTTPChain(endpoint string, owner escrow.Address) *HTTPChain {
	return &HTTPChain{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   endpoint,
		owner:      owner,
		maxRetries: 3,
	}
}

// submitReq 网关的消息提交请求体
type submitReq struct {
	Sender string `json:"sender"`
	Value  string `json:"value,omitempty"` // nanoton十进制字符串，携带TON时填写
	Body   string `json:"body"`            // base64编码的消息体
}

type submitRes struct {
	Ref     string `json:"ref"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *HTTPChain) submitAsOwner(ctx context.Context, m escrow.Message) (string, error) {
	body, err := escrow.EncodeMessage(m)
	if err != nil {
		return "", err
	}
	return h.submit(ctx, submitReq{
		Sender: h.owner.String(),
		Body:   base64.StdEncoding.EncodeToString(body),
	})
}

func (h *HTTPChain) submit(ctx context.Context, sr submitReq) (string, error) {
	payload, err := json.Marshal(sr)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chain gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chain gateway status %d: %s", resp.StatusCode, raw)
	}
	var res submitRes
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("chain gateway response: %w", err)
	}
	if res.Code != 0 {
		return "", fmt.Errorf("chain gateway rejected message: %s", res.Message)
	}
	logger.Debugf("链网关接受消息 ref=%s", res.Ref)
	return res.Ref, nil
}

// doGet 读合约getter，幂等，失败指数退避重试
func (h *HTTPChain) doGet(ctx context.Context, path string, out interface{}) error {
	return utils.Retry(h.maxRetries, 200*time.Millisecond, true, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint+path, nil)
		if err != nil {
			return err
		}
		resp, err := h.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("chain gateway request: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("chain gateway status %d: %s", resp.StatusCode, raw)
		}
		return json.Unmarshal(raw, out)
	})
}

func (h *HTTPChain) SubmitAwardJetton(ctx context.Context, user escrow.Address, amount *big.Int) (string, error) {
	return h.submitAsOwner(ctx, escrow.AwardJetton{User: user, Amount: amount})
}

func (h *HTTPChain) SubmitPause(ctx context.Context, flag bool) (string, error) {
	return h.submitAsOwner(ctx, escrow.Pause{Flag: flag})
}

func (h *HTTPChain) SubmitEmergencyWithdraw(ctx context.Context, to escrow.Address, amount *big.Int) (string, error) {
	return h.submitAsOwner(ctx, escrow.EmergencyWithdraw{To: to, Amount: amount})
}

func (h *HTTPChain) BalanceOf(ctx context.Context, addr escrow.Address) (*big.Int, error) {
	var res struct {
		Balance string `json:"balance"` // nanoton十进制字符串
	}
	if err := h.doGet(ctx, "/v1/escrow/balance/"+addr.String(), &res); err != nil {
		return nil, err
	}
	balance, ok := new(big.Int).SetString(res.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("chain gateway returned bad balance %q", res.Balance)
	}
	return balance, nil
}

func (h *HTTPChain) IsPaused(ctx context.Context) (bool, error) {
	var res struct {
		Paused bool `json:"paused"`
	}
	if err := h.doGet(ctx, "/v1/escrow/paused", &res); err != nil {
		return false, err
	}
	return res.Paused, nil
}
