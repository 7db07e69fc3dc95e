package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"tonvault/internal/escrow"
	"tonvault/internal/model"
	"tonvault/internal/model/entity"
	pkgerrors "tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/utils"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const testAddr = "0:1111111111111111111111111111111111111111111111111111111111111111"

// 内存版dao，覆盖提现流程用到的方法
type withdrawStore struct {
	mu          sync.Mutex
	accounts    map[int64]entity.Account
	wallets     map[int64]entity.Wallet
	withdrawals map[int64]entity.RewardWithdrawal
}

func newWithdrawStore() *withdrawStore {
	return &withdrawStore{
		accounts:    make(map[int64]entity.Account),
		wallets:     make(map[int64]entity.Wallet),
		withdrawals: make(map[int64]entity.RewardWithdrawal),
	}
}

func (s *withdrawStore) AccountGetByUserId(ctx context.Context, userId int64) (entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userId]
	if !ok {
		return a, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (s *withdrawStore) AccountGetByAddress(ctx context.Context, address string) (entity.Account, error) {
	return entity.Account{}, gorm.ErrRecordNotFound
}

func (s *withdrawStore) AccountCreate(ctx context.Context, account *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.UserId] = *account
	return nil
}

func (s *withdrawStore) AccountUpdateBalances(ctx context.Context, account *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.UserId] = *account
	return nil
}

func (s *withdrawStore) AccountRewardAdd(ctx context.Context, userId int64, amount float64, bill *entity.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[userId]
	a.RewardBalance += amount
	s.accounts[userId] = a
	return nil
}

func (s *withdrawStore) BillCreate(ctx context.Context, bill *entity.Bill) error { return nil }

func (s *withdrawStore) BillList(ctx context.Context, userId int64, page, pageSize int) (int64, []entity.Bill, error) {
	return 0, nil, nil
}

func (s *withdrawStore) WalletGetByUserId(ctx context.Context, userId int64) (entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userId]
	if !ok {
		return w, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (s *withdrawStore) WalletGetByAddress(ctx context.Context, address string) (entity.Wallet, error) {
	return entity.Wallet{}, gorm.ErrRecordNotFound
}

func (s *withdrawStore) WalletCreate(ctx context.Context, wallet *entity.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.UserId] = *wallet
	return nil
}

func (s *withdrawStore) WithdrawalCreateTx(ctx context.Context, w *entity.RewardWithdrawal, account *entity.Account, bill *entity.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withdrawals[w.Id] = *w
	s.accounts[account.UserId] = *account
	return nil
}

func (s *withdrawStore) WithdrawalUpdateStatus(ctx context.Context, id int64, status, submitRef, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	w.Status = status
	if submitRef != "" {
		w.SubmitRef = submitRef
	}
	if comment != "" {
		w.Comment = comment
	}
	s.withdrawals[id] = w
	return nil
}

func (s *withdrawStore) WithdrawalGetById(ctx context.Context, id int64) (entity.RewardWithdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return w, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (s *withdrawStore) WithdrawalGetBySubmitRef(ctx context.Context, submitRef string) (entity.RewardWithdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.withdrawals {
		if w.SubmitRef == submitRef {
			return w, nil
		}
	}
	return entity.RewardWithdrawal{}, gorm.ErrRecordNotFound
}

func (s *withdrawStore) WithdrawalList(ctx context.Context, userId int64, page, pageSize int) (int64, []entity.RewardWithdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.RewardWithdrawal
	for _, w := range s.withdrawals {
		if w.UserId == userId {
			out = append(out, w)
		}
	}
	return int64(len(out)), out, nil
}

func (s *withdrawStore) WithdrawalListStuck(ctx context.Context, olderThan time.Time) ([]entity.RewardWithdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.RewardWithdrawal
	for _, w := range s.withdrawals {
		if w.Status == entity.WithdrawalStatusFailed {
			out = append(out, w)
			continue
		}
		if w.Status != entity.WithdrawalStatusConfirmed && time.Time(w.CreatedAt).Before(olderThan) {
			out = append(out, w)
		}
	}
	return out, nil
}

// 可控的链提交桩
type stubSubmitter struct {
	mu       sync.Mutex
	err      error
	awarded  []*big.Int
	awardeds []escrow.Address
}

func (s *stubSubmitter) SubmitAwardJetton(ctx context.Context, user escrow.Address, amount *big.Int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.awarded = append(s.awarded, new(big.Int).Set(amount))
	s.awardeds = append(s.awardeds, user)
	return "ref-1", nil
}

func (s *stubSubmitter) SubmitPause(ctx context.Context, flag bool) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubSubmitter) SubmitEmergencyWithdraw(ctx context.Context, to escrow.Address, amount *big.Int) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubSubmitter) BalanceOf(ctx context.Context, addr escrow.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (s *stubSubmitter) IsPaused(ctx context.Context) (bool, error) { return false, nil }

func newTestRewardService(t *testing.T, store *withdrawStore, sub *stubSubmitter) *rewardService {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake.NewNode: %v", err)
	}
	return NewRewardService(store, store, store, nil, sub, node)
}

func seedUser(store *withdrawStore, userId int64, rewardBalance float64) {
	store.wallets[userId] = entity.Wallet{Id: 1, UserId: userId, Address: testAddr}
	store.accounts[userId] = entity.Account{Id: 1, UserId: userId, Address: testAddr, RewardBalance: rewardBalance}
}

func wantCode(t *testing.T, err error, code int) {
	t.Helper()
	got, _ := pkgerrors.DecodeErr(err)
	if got != code {
		t.Fatalf("code = %d, want %d (err: %v)", got, code, err)
	}
}

func TestRewardWithdraw(t *testing.T) {
	store := newWithdrawStore()
	seedUser(store, 7, 5)
	sub := &stubSubmitter{}
	rs := newTestRewardService(t, store, sub)

	res, err := rs.RewardWithdraw(context.Background(), 7, model.RewardWithdrawReq{Amount: 2})
	if err != nil {
		t.Fatalf("RewardWithdraw: %v", err)
	}
	if res.Status != entity.WithdrawalStatusSubmitted {
		t.Errorf("status = %s, want submitted", res.Status)
	}
	if res.SubmitRef == "" {
		t.Error("submit ref is empty")
	}

	if got := store.accounts[7].RewardBalance; got != 3 {
		t.Errorf("reward balance = %f, want 3", got)
	}
	w := store.withdrawals[res.WithdrawalId]
	if w.Status != entity.WithdrawalStatusSubmitted || w.SubmitRef != "ref-1" {
		t.Errorf("withdrawal = %+v, want submitted/ref-1", w)
	}
	// 2个代币按1e9最小单位上链
	if len(sub.awarded) != 1 || sub.awarded[0].Cmp(big.NewInt(2_000_000_000)) != 0 {
		t.Errorf("awarded = %v, want [2000000000]", sub.awarded)
	}
}

func TestRewardWithdrawSubmitFailureKeepsDeduction(t *testing.T) {
	store := newWithdrawStore()
	seedUser(store, 7, 5)
	sub := &stubSubmitter{err: errors.New("gateway down")}
	rs := newTestRewardService(t, store, sub)

	_, err := rs.RewardWithdraw(context.Background(), 7, model.RewardWithdrawReq{Amount: 2})
	wantCode(t, err, ecode.SubmitFailedErr)

	// 扣减保留，提现单进failed等对账
	if got := store.accounts[7].RewardBalance; got != 3 {
		t.Errorf("reward balance = %f, want 3", got)
	}
	var failed int
	for _, w := range store.withdrawals {
		if w.Status == entity.WithdrawalStatusFailed {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed withdrawals = %d, want 1", failed)
	}
}

// 合约暂停导致的提交失败映射到专用错误码，扣减同样保留
func TestRewardWithdrawPausedContract(t *testing.T) {
	store := newWithdrawStore()
	seedUser(store, 7, 5)
	sub := &stubSubmitter{err: escrow.ErrPaused}
	rs := newTestRewardService(t, store, sub)

	_, err := rs.RewardWithdraw(context.Background(), 7, model.RewardWithdrawReq{Amount: 2})
	wantCode(t, err, ecode.EscrowPausedErr)

	if got := store.accounts[7].RewardBalance; got != 3 {
		t.Errorf("reward balance = %f, want 3", got)
	}
}

// 两个并发提现合计超出余额时，只允许一个成功
func TestConcurrentRewardWithdrawsCannotOverdraw(t *testing.T) {
	store := newWithdrawStore()
	seedUser(store, 7, 5)
	rs := newTestRewardService(t, store, &stubSubmitter{})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = rs.RewardWithdraw(context.Background(), 7, model.RewardWithdrawReq{Amount: 3})
		}(i)
	}
	wg.Wait()

	var ok, failed int
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			code, _ := pkgerrors.DecodeErr(err)
			if code == ecode.InsufficientBalanceErr {
				failed++
			}
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("ok = %d failed = %d, want 1/1 (results=%v)", ok, failed, results)
	}
	store.mu.Lock()
	balance := store.accounts[7].RewardBalance
	store.mu.Unlock()
	if balance != 2 {
		t.Errorf("reward balance = %f, want 2", balance)
	}
}

func TestRewardWithdrawInsufficientBalance(t *testing.T) {
	store := newWithdrawStore()
	seedUser(store, 7, 1)
	rs := newTestRewardService(t, store, &stubSubmitter{})

	_, err := rs.RewardWithdraw(context.Background(), 7, model.RewardWithdrawReq{Amount: 2})
	wantCode(t, err, ecode.InsufficientBalanceErr)

	if got := store.accounts[7].RewardBalance; got != 1 {
		t.Errorf("reward balance = %f, want 1", got)
	}
}

func TestRewardWithdrawNoWallet(t *testing.T) {
	store := newWithdrawStore()
	rs := newTestRewardService(t, store, &stubSubmitter{})

	_, err := rs.RewardWithdraw(context.Background(), 7, model.RewardWithdrawReq{Amount: 1})
	wantCode(t, err, ecode.NotFoundErr)
}

func TestConfirmWithdrawal(t *testing.T) {
	store := newWithdrawStore()
	seedUser(store, 7, 5)
	rs := newTestRewardService(t, store, &stubSubmitter{})

	res, err := rs.RewardWithdraw(context.Background(), 7, model.RewardWithdrawReq{Amount: 1})
	if err != nil {
		t.Fatalf("RewardWithdraw: %v", err)
	}

	if err := rs.ConfirmWithdrawal(context.Background(), res.SubmitRef); err != nil {
		t.Fatalf("ConfirmWithdrawal: %v", err)
	}
	if got := store.withdrawals[res.WithdrawalId].Status; got != entity.WithdrawalStatusConfirmed {
		t.Errorf("status = %s, want confirmed", got)
	}

	// 回执重放幂等
	if err := rs.ConfirmWithdrawal(context.Background(), res.SubmitRef); err != nil {
		t.Errorf("replayed confirm: %v", err)
	}
}

func TestConfirmWithdrawalWrongState(t *testing.T) {
	store := newWithdrawStore()
	store.withdrawals[1] = entity.RewardWithdrawal{
		Id: 1, UserId: 7, Status: entity.WithdrawalStatusPending, SubmitRef: "ref-x",
	}
	rs := newTestRewardService(t, store, &stubSubmitter{})

	err := rs.ConfirmWithdrawal(context.Background(), "ref-x")
	wantCode(t, err, ecode.WithdrawPendingErr)
}

func TestReconcilePending(t *testing.T) {
	store := newWithdrawStore()
	old := utils.JsonTime(time.Now().Add(-time.Hour))
	store.withdrawals[1] = entity.RewardWithdrawal{Id: 1, UserId: 7, Status: entity.WithdrawalStatusFailed, CreatedAt: old}
	store.withdrawals[2] = entity.RewardWithdrawal{Id: 2, UserId: 7, Status: entity.WithdrawalStatusSubmitted, CreatedAt: old}
	store.withdrawals[3] = entity.RewardWithdrawal{Id: 3, UserId: 7, Status: entity.WithdrawalStatusConfirmed, CreatedAt: old}
	rs := newTestRewardService(t, store, &stubSubmitter{})

	stuck, err := rs.ReconcilePending(context.Background())
	if err != nil {
		t.Fatalf("ReconcilePending: %v", err)
	}
	if len(stuck) != 2 {
		t.Errorf("stuck = %d, want 2", len(stuck))
	}
}
