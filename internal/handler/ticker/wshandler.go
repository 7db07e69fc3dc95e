package ticker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"tonvault/internal/oracle"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/logger"
	"tonvault/pkg/response"
	pkgutils "tonvault/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// 行情推送网关。行情来自带缓存的oracle，按秒轮询后推给
// 订阅了对应交易对的连接。

// 客户端请求的消息格式
type subscribeMessage struct {
	Action  string   `json:"action"`  // subscribe | unsubscribe
	Symbols []string `json:"symbols"` // ["TON-USDT"]
}

// 推送给客户端的行情
type tickerPush struct {
	Instrument string  `json:"instrument"`
	Price      float64 `json:"price"`
	Ts         int64   `json:"ts"` // 毫秒时间戳
}

type ClientConn struct {
	Conn    *websocket.Conn
	Send    chan []byte // 异步发送通道
	Symbols map[string]struct{}
}

type Handler struct {
	po oracle.PriceOracle
	mu sync.RWMutex
	// 每个连接订阅的交易对
	clientSymbols map[*ClientConn]map[string]struct{}
	upgrader      websocket.Upgrader
}

func NewHandler(po oracle.PriceOracle) *Handler {
	return &Handler{
		po:            po,
		clientSymbols: make(map[*ClientConn]map[string]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // 允许跨域
		},
	}
}

// ServeWS 接入一个行情订阅连接
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("ws upgrade失败: %v", err)
		return
	}
	client := &ClientConn{
		Conn:    conn,
		Send:    make(chan []byte, 100),
		Symbols: make(map[string]struct{}),
	}
	h.mu.Lock()
	h.clientSymbols[client] = client.Symbols
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clientSymbols, client)
		h.mu.Unlock()
		close(client.Send)
		conn.Close()
	}()

	// 不断从 Send channel 取消息写入连接
	go client.writePump()
	// 阻塞读取订阅指令
	client.readPump(h)
}

// BroadcastPrices 周期性把订阅交易对的最新价推给各连接，
// 由调用方放进独立协程，ctx取消时退出
func (h *Handler) BroadcastPrices(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		h.mu.RLock()
		for client, symbols := range h.clientSymbols {
			var pushes []tickerPush
			for sym := range symbols {
				price, err := h.po.GetPrice(ctx, sym)
				if err != nil {
					continue // 单个交易对失败不影响其余推送
				}
				pushes = append(pushes, tickerPush{
					Instrument: sym,
					Price:      price,
					Ts:         time.Now().UnixMilli(),
				})
			}
			if len(pushes) == 0 {
				continue
			}
			data, _ := json.Marshal(pushes)
			select {
			case client.Send <- data:
			default:
				// 队列满就丢掉这一拍
			}
		}
		h.mu.RUnlock()
	}
}

func (c *ClientConn) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("ws write失败: %v", err)
			return
		}
	}
}

func (c *ClientConn) readPump(h *Handler) {
	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debugf("ws连接断开: %v", err)
			return
		}

		var clientMsg subscribeMessage
		if err := json.Unmarshal(msg, &clientMsg); err != nil {
			logger.Debugf("非法的订阅消息: %v", err)
			continue
		}

		h.mu.Lock()
		switch clientMsg.Action {
		case "subscribe":
			for _, sym := range clientMsg.Symbols {
				c.Symbols[pkgutils.FormatInstrument(sym)] = struct{}{}
			}
		case "unsubscribe":
			for _, sym := range clientMsg.Symbols {
				delete(c.Symbols, pkgutils.FormatInstrument(sym))
			}
		}
		h.mu.Unlock()
	}
}

// TickerGet 单次查询最新价 GET /ticker?symbol=TON-USDT
func (h *Handler) TickerGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		symbol := c.Query("symbol")
		if symbol == "" {
			response.JSON(c, errors.WithCode(ecode.ValidateErr, "symbol is required"), nil)
			return
		}
		price, err := h.po.GetPrice(c, pkgutils.FormatInstrument(symbol))
		if err != nil {
			response.JSON(c, errors.Wrap(err, ecode.NotFoundErr, "行情暂不可用"), nil)
			return
		}
		response.JSON(c, nil, tickerPush{
			Instrument: pkgutils.FormatInstrument(symbol),
			Price:      price,
			Ts:         time.Now().UnixMilli(),
		})
	}
}
