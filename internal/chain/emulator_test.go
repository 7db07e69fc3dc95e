package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"tonvault/internal/escrow"
)

func chainAddr(b byte) escrow.Address {
	var a escrow.Address
	a.Hash[31] = b
	return a
}

func newTestEmulator(t *testing.T, feeBps uint16) *Emulator {
	t.Helper()
	e, err := NewEmulator(escrow.Config{
		Owner:        chainAddr(0xaa),
		JettonMaster: chainAddr(0xbb),
		FeeBps:       feeBps,
	})
	if err != nil {
		t.Fatalf("new emulator: %v", err)
	}
	return e
}

func encodeMsg(t *testing.T, m escrow.Message) []byte {
	t.Helper()
	body, err := escrow.EncodeMessage(m)
	if err != nil {
		t.Fatalf("encode %T: %v", m, err)
	}
	return body
}

// 入金和用户出金走SubmitExternal，出站转账扣掉手续费
func TestEmulatorExternalDepositWithdraw(t *testing.T) {
	ctx := context.Background()
	e := newTestEmulator(t, 100) // 1%
	user := chainAddr(1)

	ref, err := e.SubmitExternal(ctx, user, big.NewInt(1000), encodeMsg(t, escrow.Deposit{}))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if ref == "" {
		t.Error("deposit ref is empty")
	}
	if bal, _ := e.BalanceOf(ctx, user); bal.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("balance = %s, want 1000", bal)
	}

	if _, err := e.SubmitExternal(ctx, user, nil, encodeMsg(t, escrow.Withdraw{Amount: big.NewInt(400)})); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if bal, _ := e.BalanceOf(ctx, user); bal.Cmp(big.NewInt(600)) != 0 {
		t.Errorf("balance = %s, want 600", bal)
	}

	// payout = 400 - floor(400*100/10000) = 396
	out := e.Outbound()
	if len(out) != 1 {
		t.Fatalf("outbound = %d transfers, want 1", len(out))
	}
	if out[0].To != user || out[0].Amount.Cmp(big.NewInt(396)) != 0 {
		t.Errorf("outbound = %+v, want 396 to user", out[0])
	}
}

func TestEmulatorExternalRejectedWhilePaused(t *testing.T) {
	ctx := context.Background()
	e := newTestEmulator(t, 100)

	if _, err := e.SubmitPause(ctx, true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused, _ := e.IsPaused(ctx); !paused {
		t.Fatal("not paused")
	}

	ref, err := e.SubmitExternal(ctx, chainAddr(1), big.NewInt(100), encodeMsg(t, escrow.Deposit{}))
	if !errors.Is(err, escrow.ErrPaused) {
		t.Errorf("err = %v, want ErrPaused", err)
	}
	if ref != "" {
		t.Errorf("ref = %q, want empty on rejection", ref)
	}
}
