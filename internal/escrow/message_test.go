package escrow

import (
	"encoding/binary"
	"errors"
	"math/big"
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	user := testAddr(0x11)
	cases := []Message{
		Deposit{},
		Withdraw{Amount: big.NewInt(123456789)},
		AwardJetton{User: user, Amount: big.NewInt(42)},
		Pause{Flag: true},
		Pause{Flag: false},
		EmergencyWithdraw{To: user, Amount: new(big.Int).Lsh(big.NewInt(1), 100)},
	}
	for _, m := range cases {
		body, err := EncodeMessage(m)
		if err != nil {
			t.Fatalf("encode %T: %v", m, err)
		}
		got, err := DecodeMessage(body)
		if err != nil {
			t.Fatalf("decode %T: %v", m, err)
		}
		if !reflect.DeepEqual(normalize(m), normalize(got)) {
			t.Errorf("round trip %T: got %+v, want %+v", m, got, m)
		}
	}
}

// 金额字段nil和0在线路层等价，比较前归一
func normalize(m Message) Message {
	switch v := m.(type) {
	case Withdraw:
		if v.Amount == nil {
			v.Amount = big.NewInt(0)
		}
		return v
	default:
		return m
	}
}

func TestMessageLayoutIsFixed(t *testing.T) {
	// opcode uint32大端 + 定宽字段，布局属于ABI，不可回归
	body, err := EncodeMessage(Withdraw{Amount: big.NewInt(1)})
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 4+amountWireSize {
		t.Errorf("withdraw body len = %d, want %d", len(body), 4+amountWireSize)
	}
	if op := binary.BigEndian.Uint32(body[:4]); op != OpWithdraw {
		t.Errorf("opcode = %d, want %d", op, OpWithdraw)
	}
	if body[len(body)-1] != 1 {
		t.Errorf("amount should be big-endian right-aligned, body=%x", body)
	}

	body, err = EncodeMessage(AwardJetton{User: testAddr(0x22), Amount: big.NewInt(7)})
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 4+addressWireSize+amountWireSize {
		t.Errorf("award body len = %d, want %d", len(body), 4+addressWireSize+amountWireSize)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte{1, 2}); !errors.Is(err, ErrShortMessage) {
		t.Errorf("short body err = %v, want ErrShortMessage", err)
	}
	bad := make([]byte, 4)
	binary.BigEndian.PutUint32(bad, 999)
	if _, err := DecodeMessage(bad); !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("unknown opcode err = %v, want ErrUnknownOpcode", err)
	}
	// withdraw缺少金额字段
	short := make([]byte, 4+3)
	binary.BigEndian.PutUint32(short, OpWithdraw)
	if _, err := DecodeMessage(short); !errors.Is(err, ErrShortMessage) {
		t.Errorf("truncated withdraw err = %v, want ErrShortMessage", err)
	}
}

func TestEncodeRejectsNegativeAndOverflow(t *testing.T) {
	if _, err := EncodeMessage(Withdraw{Amount: big.NewInt(-1)}); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative err = %v, want ErrNegativeAmount", err)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 129)
	if _, err := EncodeMessage(Withdraw{Amount: huge}); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("overflow err = %v, want ErrAmountOverflow", err)
	}
}

func TestParseAddress(t *testing.T) {
	s := "0:00000000000000000000000000000000000000000000000000000000000000ff"
	a, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.String() != s {
		t.Errorf("round trip = %s, want %s", a.String(), s)
	}
	if _, err := ParseAddress("not-an-address"); err == nil {
		t.Error("parse of garbage should fail")
	}
	if _, err := ParseAddress("0:abcd"); err == nil {
		t.Error("short hash should fail")
	}
}
