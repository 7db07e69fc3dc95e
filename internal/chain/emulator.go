package chain

import (
	"context"
	"math/big"
	"sync"

	"tonvault/internal/escrow"
	"tonvault/pkg/logger"
	"tonvault/utils/uuid"
)

// Emulator 进程内模拟链。用一把互斥锁模拟链上环境的
// 逐消息串行执行，合约本身不做并发控制。
// 用于本地联调和测试，也是模拟交易模式下的执行环境。
type Emulator struct {
	mu       sync.Mutex
	contract *escrow.Contract
	owner    escrow.Address
	outbound []OutboundTransfer
}

// OutboundTransfer 模拟链收集到的出站转账
type OutboundTransfer struct {
	To     escrow.Address
	Amount *big.Int
}

var _ Submitter = (*Emulator)(nil)

func NewEmulator(cfg escrow.Config) (*Emulator, error) {
	e := &Emulator{owner: cfg.Owner}
	contract, err := escrow.NewContract(cfg, (*emulatorSink)(e))
	if err != nil {
		return nil, err
	}
	e.contract = contract
	return e, nil
}

// emulatorSink 把合约的出站转账记到模拟链上
type emulatorSink Emulator

func (s *emulatorSink) Transfer(to escrow.Address, amount *big.Int) error {
	s.outbound = append(s.outbound, OutboundTransfer{To: to, Amount: new(big.Int).Set(amount)})
	return nil
}

// SubmitExternal 以任意sender提交一条消息（入金、用户出金走这里）
func (e *Emulator) SubmitExternal(ctx context.Context, sender escrow.Address, value *big.Int, body []byte) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.contract.HandleMessage(sender, value, body); err != nil {
		return "", err
	}
	return uuid.GenUUID(), nil
}

func (e *Emulator) submitAsOwner(m escrow.Message) (string, error) {
	body, err := escrow.EncodeMessage(m)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.contract.HandleMessage(e.owner, nil, body); err != nil {
		return "", err
	}
	ref := uuid.GenUUID()
	logger.Debugf("模拟链接受消息 opcode=%d ref=%s", m.Opcode(), ref)
	return ref, nil
}

func (e *Emulator) SubmitAwardJetton(ctx context.Context, user escrow.Address, amount *big.Int) (string, error) {
	return e.submitAsOwner(escrow.AwardJetton{User: user, Amount: amount})
}

func (e *Emulator) SubmitPause(ctx context.Context, flag bool) (string, error) {
	return e.submitAsOwner(escrow.Pause{Flag: flag})
}

func (e *Emulator) SubmitEmergencyWithdraw(ctx context.Context, to escrow.Address, amount *big.Int) (string, error) {
	return e.submitAsOwner(escrow.EmergencyWithdraw{To: to, Amount: amount})
}

func (e *Emulator) BalanceOf(ctx context.Context, addr escrow.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contract.BalanceOf(addr), nil
}

func (e *Emulator) IsPaused(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contract.IsPaused(), nil
}

// Outbound 已收集的出站转账，测试用
func (e *Emulator) Outbound() []OutboundTransfer {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]OutboundTransfer, len(e.outbound))
	copy(out, e.outbound)
	return out
}
