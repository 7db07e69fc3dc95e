package escrow

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
)

// 消息编解码。布局是链上ABI的一部分：uint32大端opcode开头，
// 后接定宽字段（地址36字节 = int32 workchain + 32字节hash，
// 金额16字节大端无符号整数）。字段顺序和宽度不可变更，
// 不使用反射类序列化。

const (
	OpDeposit           uint32 = 1
	OpWithdraw          uint32 = 2
	OpAwardJetton       uint32 = 3
	OpPause             uint32 = 4
	OpEmergencyWithdraw uint32 = 5
)

const (
	addressWireSize = 36
	amountWireSize  = 16
)

// Message 合约入站消息
type Message interface {
	Opcode() uint32
}

// Deposit 入金。金额由消息附带的value承载，body无字段。
type Deposit struct{}

// Withdraw 出金。按amount全额扣账，实际到账 amount - fee。
type Withdraw struct {
	Amount *big.Int
}

// AwardJetton owner授权向用户发放奖励代币。实际代币转移由
// 外部发行方执行，本消息只做链上授权记录。
type AwardJetton struct {
	User   Address
	Amount *big.Int
}

// Pause owner设置暂停开关，双向切换，幂等
type Pause struct {
	Flag bool
}

// EmergencyWithdraw owner从合约总托管直接出金，绕过按用户账本
type EmergencyWithdraw struct {
	To     Address
	Amount *big.Int
}

func (Deposit) Opcode() uint32           { return OpDeposit }
func (Withdraw) Opcode() uint32          { return OpWithdraw }
func (AwardJetton) Opcode() uint32       { return OpAwardJetton }
func (Pause) Opcode() uint32             { return OpPause }
func (EmergencyWithdraw) Opcode() uint32 { return OpEmergencyWithdraw }

// EncodeMessage 按固定布局编码消息
func EncodeMessage(m Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, m.Opcode()); err != nil {
		return nil, err
	}
	switch msg := m.(type) {
	case Deposit:
		// body无字段
	case Withdraw:
		if err := writeAmount(&buf, msg.Amount); err != nil {
			return nil, err
		}
	case AwardJetton:
		writeAddress(&buf, msg.User)
		if err := writeAmount(&buf, msg.Amount); err != nil {
			return nil, err
		}
	case Pause:
		if msg.Flag {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case EmergencyWithdraw:
		writeAddress(&buf, msg.To)
		if err := writeAmount(&buf, msg.Amount); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("escrow: cannot encode %T", m)
	}
	return buf.Bytes(), nil
}

// DecodeMessage 解码入站消息body
func DecodeMessage(body []byte) (Message, error) {
	if len(body) < 4 {
		return nil, ErrShortMessage
	}
	op := binary.BigEndian.Uint32(body[:4])
	rest := body[4:]

	switch op {
	case OpDeposit:
		return Deposit{}, nil
	case OpWithdraw:
		amount, rest, err := readAmount(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("escrow: trailing bytes in withdraw body")
		}
		return Withdraw{Amount: amount}, nil
	case OpAwardJetton:
		user, rest, err := readAddress(rest)
		if err != nil {
			return nil, err
		}
		amount, rest, err := readAmount(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("escrow: trailing bytes in award body")
		}
		return AwardJetton{User: user, Amount: amount}, nil
	case OpPause:
		if len(rest) != 1 {
			return nil, ErrShortMessage
		}
		return Pause{Flag: rest[0] != 0}, nil
	case OpEmergencyWithdraw:
		to, rest, err := readAddress(rest)
		if err != nil {
			return nil, err
		}
		amount, rest, err := readAmount(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("escrow: trailing bytes in emergency body")
		}
		return EmergencyWithdraw{To: to, Amount: amount}, nil
	default:
		return nil, ErrUnknownOpcode
	}
}

func writeAddress(buf *bytes.Buffer, a Address) {
	_ = binary.Write(buf, binary.BigEndian, a.Workchain)
	buf.Write(a.Hash[:])
}

func readAddress(b []byte) (Address, []byte, error) {
	var a Address
	if len(b) < addressWireSize {
		return a, nil, ErrShortMessage
	}
	a.Workchain = int32(binary.BigEndian.Uint32(b[:4]))
	copy(a.Hash[:], b[4:addressWireSize])
	return a, b[addressWireSize:], nil
}

func writeAmount(buf *bytes.Buffer, v *big.Int) error {
	if v == nil {
		v = big.NewInt(0)
	}
	if v.Sign() < 0 {
		return ErrNegativeAmount
	}
	raw := v.Bytes()
	if len(raw) > amountWireSize {
		return ErrAmountOverflow
	}
	pad := make([]byte, amountWireSize-len(raw))
	buf.Write(pad)
	buf.Write(raw)
	return nil
}

func readAmount(b []byte) (*big.Int, []byte, error) {
	if len(b) < amountWireSize {
		return nil, nil, ErrShortMessage
	}
	v := new(big.Int).SetBytes(b[:amountWireSize])
	return v, b[amountWireSize:], nil
}
