package escrow

import (
	"errors"
	"math/big"
	"testing"
)

// 收集出站转账，替代链上转账原语
type sinkRecorder struct {
	transfers []transferRecord
	failNext  bool
}

type transferRecord struct {
	to     Address
	amount *big.Int
}

func (s *sinkRecorder) Transfer(to Address, amount *big.Int) error {
	if s.failNext {
		s.failNext = false
		return errors.New("transfer rejected")
	}
	s.transfers = append(s.transfers, transferRecord{to: to, amount: new(big.Int).Set(amount)})
	return nil
}

func testAddr(b byte) Address {
	var a Address
	a.Hash[31] = b
	return a
}

func newTestContract(t *testing.T, feeBps uint16) (*Contract, *sinkRecorder, Address) {
	t.Helper()
	owner := testAddr(0xaa)
	sink := &sinkRecorder{}
	c, err := NewContract(Config{
		Owner:        owner,
		JettonMaster: testAddr(0xbb),
		FeeBps:       feeBps,
	}, sink)
	if err != nil {
		t.Fatalf("new contract: %v", err)
	}
	return c, sink, owner
}

func send(t *testing.T, c *Contract, sender Address, value *big.Int, m Message) error {
	t.Helper()
	body, err := EncodeMessage(m)
	if err != nil {
		t.Fatalf("encode %T: %v", m, err)
	}
	return c.HandleMessage(sender, value, body)
}

func TestDepositIncrementsBalance(t *testing.T) {
	c, _, _ := newTestContract(t, 100)
	user := testAddr(1)

	if err := send(t, c, user, big.NewInt(500), Deposit{}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := c.BalanceOf(user); got.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("balance = %s, want 500", got)
	}

	// 再次入金累加
	if err := send(t, c, user, big.NewInt(300), Deposit{}); err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	if got := c.BalanceOf(user); got.Cmp(big.NewInt(800)) != 0 {
		t.Errorf("balance = %s, want 800", got)
	}
}

func TestDepositZeroFails(t *testing.T) {
	c, _, _ := newTestContract(t, 100)
	user := testAddr(1)

	if err := send(t, c, user, big.NewInt(0), Deposit{}); !errors.Is(err, ErrZeroDeposit) {
		t.Errorf("zero deposit err = %v, want ErrZeroDeposit", err)
	}
	if got := c.BalanceOf(user); got.Sign() != 0 {
		t.Errorf("balance after failed deposit = %s, want 0", got)
	}
}

func TestWithdrawFeeMath(t *testing.T) {
	// fee = floor(amount * bps / 10000)
	cases := []struct {
		name    string
		feeBps  uint16
		amount  int64
		fee     int64
		payout  int64
	}{
		{"one percent even", 100, 10000, 100, 9900},
		{"one percent floor", 100, 99, 0, 99},
		{"odd bps floor", 33, 1000, 3, 997},
		{"zero fee", 0, 1234, 0, 1234},
		{"full fee", 10000, 777, 777, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, sink, _ := newTestContract(t, tc.feeBps)
			user := testAddr(2)
			if err := send(t, c, user, big.NewInt(tc.amount), Deposit{}); err != nil {
				t.Fatalf("deposit: %v", err)
			}
			if err := send(t, c, user, nil, Withdraw{Amount: big.NewInt(tc.amount)}); err != nil {
				t.Fatalf("withdraw: %v", err)
			}
			// 账本按全额扣减
			if got := c.BalanceOf(user); got.Sign() != 0 {
				t.Errorf("ledger balance = %s, want 0", got)
			}
			if len(sink.transfers) != 1 {
				t.Fatalf("transfers = %d, want 1", len(sink.transfers))
			}
			if got := sink.transfers[0].amount; got.Cmp(big.NewInt(tc.payout)) != 0 {
				t.Errorf("payout = %s, want %d", got, tc.payout)
			}
			if got := c.CollectedFees(); got.Cmp(big.NewInt(tc.fee)) != 0 {
				t.Errorf("collected fee = %s, want %d", got, tc.fee)
			}
		})
	}
}

func TestWithdrawInsufficientLeavesLedgerUnchanged(t *testing.T) {
	c, sink, _ := newTestContract(t, 100)
	user := testAddr(3)
	if err := send(t, c, user, big.NewInt(100), Deposit{}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	err := send(t, c, user, nil, Withdraw{Amount: big.NewInt(101)})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("err = %v, want ErrInsufficientBalance", err)
	}
	if got := c.BalanceOf(user); got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("balance = %s, want 100", got)
	}
	if len(sink.transfers) != 0 {
		t.Errorf("transfers = %d, want 0", len(sink.transfers))
	}
}

func TestWithdrawZeroFails(t *testing.T) {
	c, _, _ := newTestContract(t, 100)
	user := testAddr(3)
	_ = send(t, c, user, big.NewInt(100), Deposit{})

	if err := send(t, c, user, nil, Withdraw{Amount: big.NewInt(0)}); !errors.Is(err, ErrZeroWithdraw) {
		t.Errorf("err = %v, want ErrZeroWithdraw", err)
	}
}

func TestTransferFailureRollsBack(t *testing.T) {
	c, sink, _ := newTestContract(t, 100)
	user := testAddr(4)
	_ = send(t, c, user, big.NewInt(1000), Deposit{})

	sink.failNext = true
	if err := send(t, c, user, nil, Withdraw{Amount: big.NewInt(500)}); err == nil {
		t.Fatal("withdraw should fail when transfer fails")
	}
	// 转账失败不得产生任何状态变更
	if got := c.BalanceOf(user); got.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("balance = %s, want 1000", got)
	}
	if got := c.CollectedFees(); got.Sign() != 0 {
		t.Errorf("collected fee = %s, want 0", got)
	}
}

func TestPausedBlocksUserOps(t *testing.T) {
	c, _, owner := newTestContract(t, 100)
	user := testAddr(5)
	_ = send(t, c, user, big.NewInt(100), Deposit{})

	if err := send(t, c, owner, nil, Pause{Flag: true}); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !c.IsPaused() {
		t.Fatal("contract should be paused")
	}

	if err := send(t, c, user, big.NewInt(10), Deposit{}); !errors.Is(err, ErrPaused) {
		t.Errorf("deposit while paused err = %v, want ErrPaused", err)
	}
	if err := send(t, c, user, nil, Withdraw{Amount: big.NewInt(10)}); !errors.Is(err, ErrPaused) {
		t.Errorf("withdraw while paused err = %v, want ErrPaused", err)
	}

	// owner的紧急出金在暂停期间仍然可用
	if err := send(t, c, owner, nil, EmergencyWithdraw{To: testAddr(9), Amount: big.NewInt(50)}); err != nil {
		t.Errorf("emergency withdraw while paused: %v", err)
	}

	// 解除暂停后恢复
	if err := send(t, c, owner, nil, Pause{Flag: false}); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if err := send(t, c, user, big.NewInt(10), Deposit{}); err != nil {
		t.Errorf("deposit after unpause: %v", err)
	}
}

func TestOwnerOnlyGuards(t *testing.T) {
	c, _, _ := newTestContract(t, 100)
	stranger := testAddr(6)

	if err := send(t, c, stranger, nil, Pause{Flag: true}); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("pause by stranger err = %v, want ErrAccessDenied", err)
	}
	if err := send(t, c, stranger, nil, AwardJetton{User: testAddr(7), Amount: big.NewInt(5)}); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("award by stranger err = %v, want ErrAccessDenied", err)
	}
	if err := send(t, c, stranger, nil, EmergencyWithdraw{To: stranger, Amount: big.NewInt(5)}); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("emergency by stranger err = %v, want ErrAccessDenied", err)
	}
}

func TestBalanceOfUnknownAddress(t *testing.T) {
	c, _, _ := newTestContract(t, 100)
	if got := c.BalanceOf(testAddr(0x77)); got.Sign() != 0 {
		t.Errorf("balance of unknown = %s, want 0", got)
	}
}

func TestAwardJettonEmitsEvent(t *testing.T) {
	c, _, owner := newTestContract(t, 100)
	user := testAddr(8)

	if err := send(t, c, owner, nil, AwardJetton{User: user, Amount: big.NewInt(42)}); err != nil {
		t.Fatalf("award: %v", err)
	}
	events := c.Events()
	last := events[len(events)-1]
	if last.Type != EventJettonAwarded {
		t.Fatalf("event type = %s, want %s", last.Type, EventJettonAwarded)
	}
	if last.Attributes["amount"] != "42" || last.Attributes["user"] != user.String() {
		t.Errorf("event attrs = %v", last.Attributes)
	}
}

func TestEmergencyWithdrawBypassesLedger(t *testing.T) {
	c, sink, owner := newTestContract(t, 0)
	// 两个用户各入金
	_ = send(t, c, testAddr(1), big.NewInt(300), Deposit{})
	_ = send(t, c, testAddr(2), big.NewInt(200), Deposit{})

	to := testAddr(0x99)
	if err := send(t, c, owner, nil, EmergencyWithdraw{To: to, Amount: big.NewInt(450)}); err != nil {
		t.Fatalf("emergency: %v", err)
	}
	if len(sink.transfers) != 1 || sink.transfers[0].amount.Cmp(big.NewInt(450)) != 0 {
		t.Fatalf("transfers = %+v", sink.transfers)
	}
	// 按用户账本不受影响
	if got := c.BalanceOf(testAddr(1)); got.Cmp(big.NewInt(300)) != 0 {
		t.Errorf("user1 balance = %s, want 300", got)
	}

	// 超出合约总托管失败
	if err := send(t, c, owner, nil, EmergencyWithdraw{To: to, Amount: big.NewInt(100)}); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("over-withdraw err = %v, want ErrInsufficientBalance", err)
	}
}
