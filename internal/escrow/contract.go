package escrow

import (
	"fmt"
	"math/big"
)

const feeBpsDenominator = 10000

// TransferSink 合约出站转账原语，由执行环境提供
type TransferSink interface {
	Transfer(to Address, amount *big.Int) error
}

// Contract 托管合约状态。状态转移只发生在消息处理中，
// 一条消息要么完整生效，要么不产生任何变更。
type Contract struct {
	cfg    Config
	paused bool

	// 按地址的托管账本。首次入金隐式建账，余额归零后条目保留。
	balances map[Address]*big.Int
	// 合约当前持有的nanoton总额（含留存手续费）
	totalHeld *big.Int
	// 累计留存手续费
	collectedFees *big.Int

	sink   TransferSink
	events []Event
}

// NewContract 按部署参数初始化合约，初始状态为Active
func NewContract(cfg Config, sink TransferSink) (*Contract, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, fmt.Errorf("escrow: transfer sink is required")
	}
	return &Contract{
		cfg:           cfg,
		balances:      make(map[Address]*big.Int),
		totalHeld:     big.NewInt(0),
		collectedFees: big.NewInt(0),
		sink:          sink,
	}, nil
}

// HandleMessage 解码并处理一条入站消息。value是消息附带的nanoton。
func (c *Contract) HandleMessage(sender Address, value *big.Int, body []byte) error {
	msg, err := DecodeMessage(body)
	if err != nil {
		return err
	}
	switch m := msg.(type) {
	case Deposit:
		return c.deposit(sender, value)
	case Withdraw:
		return c.withdraw(sender, m.Amount)
	case AwardJetton:
		return c.awardJetton(sender, m.User, m.Amount)
	case Pause:
		return c.setPaused(sender, m.Flag)
	case EmergencyWithdraw:
		return c.emergencyWithdraw(sender, m.To, m.Amount)
	default:
		return ErrUnknownOpcode
	}
}

// deposit 入金：value必须为正，暂停期间拒绝
func (c *Contract) deposit(sender Address, value *big.Int) error {
	if c.paused {
		return ErrPaused
	}
	if value == nil || value.Sign() <= 0 {
		return ErrZeroDeposit
	}
	bal := c.balanceRef(sender)
	bal.Add(bal, value)
	c.totalHeld.Add(c.totalHeld, value)
	c.appendEvent(EventDeposited, map[string]string{
		"sender": sender.String(),
		"value":  value.String(),
	})
	return nil
}

// withdraw 出金：账本按amount全额扣减，手续费留存在合约内，
// 实际转出 payout = amount - floor(amount*feeBps/10000)
func (c *Contract) withdraw(sender Address, amount *big.Int) error {
	if c.paused {
		return ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroWithdraw
	}
	bal, ok := c.balances[sender]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	// 整数运算，向下取整
	fee := new(big.Int).Mul(amount, big.NewInt(int64(c.cfg.FeeBps)))
	fee.Quo(fee, big.NewInt(feeBpsDenominator))
	payout := new(big.Int).Sub(amount, fee)

	if err := c.sink.Transfer(sender, payout); err != nil {
		return fmt.Errorf("escrow: payout transfer failed: %w", err)
	}

	bal.Sub(bal, amount)
	c.totalHeld.Sub(c.totalHeld, payout)
	c.collectedFees.Add(c.collectedFees, fee)
	c.appendEvent(EventWithdrawn, map[string]string{
		"sender": sender.String(),
		"amount": amount.String(),
		"fee":    fee.String(),
		"payout": payout.String(),
	})
	return nil
}

// awardJetton owner授权发放奖励代币。只做授权记录，
// 代币实际转移由jetton master执行。
func (c *Contract) awardJetton(sender, user Address, amount *big.Int) error {
	if sender != c.cfg.Owner {
		return ErrAccessDenied
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroWithdraw
	}
	c.appendEvent(EventJettonAwarded, map[string]string{
		"user":   user.String(),
		"amount": amount.String(),
		"master": c.cfg.JettonMaster.String(),
	})
	return nil
}

// setPaused owner设置暂停开关，无余额前置条件，双向幂等
func (c *Contract) setPaused(sender Address, flag bool) error {
	if sender != c.cfg.Owner {
		return ErrAccessDenied
	}
	c.paused = flag
	c.appendEvent(EventPauseToggled, map[string]string{
		"paused": fmt.Sprintf("%t", flag),
	})
	return nil
}

// emergencyWithdraw owner从合约总托管直接出金。绕过按用户账本，
// 预期只在Paused状态下的运维恢复流程中使用，但状态机不强制该前置。
func (c *Contract) emergencyWithdraw(sender, to Address, amount *big.Int) error {
	if sender != c.cfg.Owner {
		return ErrAccessDenied
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroWithdraw
	}
	if c.totalHeld.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := c.sink.Transfer(to, amount); err != nil {
		return fmt.Errorf("escrow: emergency transfer failed: %w", err)
	}
	c.totalHeld.Sub(c.totalHeld, amount)
	c.appendEvent(EventEmergencyWithdrawn, map[string]string{
		"to":     to.String(),
		"amount": amount.String(),
	})
	return nil
}

// BalanceOf 查询账本余额，未知地址返回0，永不失败
func (c *Contract) BalanceOf(addr Address) *big.Int {
	if bal, ok := c.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return big.NewInt(0)
}

// IsPaused 当前暂停状态
func (c *Contract) IsPaused() bool { return c.paused }

// Owner 合约owner地址
func (c *Contract) Owner() Address { return c.cfg.Owner }

// CollectedFees 累计留存手续费
func (c *Contract) CollectedFees() *big.Int {
	return new(big.Int).Set(c.collectedFees)
}

// TotalHeld 合约当前持有总额
func (c *Contract) TotalHeld() *big.Int {
	return new(big.Int).Set(c.totalHeld)
}

// Events 已追加的事件序列
func (c *Contract) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Contract) balanceRef(addr Address) *big.Int {
	bal, ok := c.balances[addr]
	if !ok {
		bal = big.NewInt(0)
		c.balances[addr] = bal
	}
	return bal
}

func (c *Contract) appendEvent(typ string, attrs map[string]string) {
	c.events = append(c.events, Event{Type: typ, Attributes: attrs})
}
