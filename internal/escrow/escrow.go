// Package escrow 实现链上托管合约的记账逻辑：按地址维护托管余额，
// 处理入金、带手续费的出金、owner发起的奖励授权、暂停开关和紧急出金。
// 链上执行环境保证同一合约实例的消息串行处理，合约本身不做并发控制。
package escrow

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Address TON风格地址：workchain + 32字节账户hash
type Address struct {
	Workchain int32
	Hash      [32]byte
}

// ParseAddress 解析 "0:<64位hex>" 格式的原始地址
func ParseAddress(s string) (Address, error) {
	var a Address
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return a, fmt.Errorf("invalid address %q", s)
	}
	wc, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return a, fmt.Errorf("invalid workchain in %q: %w", s, err)
	}
	raw, err := hex.DecodeString(parts[1])
	if err != nil {
		return a, fmt.Errorf("invalid account hash in %q: %w", s, err)
	}
	if len(raw) != 32 {
		return a, fmt.Errorf("account hash must be 32 bytes, got %d", len(raw))
	}
	a.Workchain = int32(wc)
	copy(a.Hash[:], raw)
	return a, nil
}

// MustParseAddress 解析失败直接panic，仅用于配置加载和测试
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return fmt.Sprintf("%d:%s", a.Workchain, hex.EncodeToString(a.Hash[:]))
}

// IsZero 是否为零地址
func (a Address) IsZero() bool {
	if a.Workchain != 0 {
		return false
	}
	for _, b := range a.Hash {
		if b != 0 {
			return false
		}
	}
	return true
}

// Config 部署参数。FeeBps部署后不可变。
type Config struct {
	Owner        Address
	JettonMaster Address
	FeeBps       uint16
}

// Validate 静态校验部署参数
func (c Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("escrow: owner address is zero")
	}
	if c.JettonMaster.IsZero() {
		return errors.New("escrow: jetton master address is zero")
	}
	if c.FeeBps > feeBpsDenominator {
		return fmt.Errorf("escrow: fee %d bps exceeds denominator", c.FeeBps)
	}
	return nil
}
