package funding

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nkn-funder/pkg/common"
	"nkn-funder/pkg/common/logger"
	"nkn-funder/pkg/receipt"
	"nkn-funder/pkg/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	sourceAddr = "NKNSourceTreasury"
	destAddr   = "NKNFreshNode"
)

// MockProvider is a mock implementation of wallet.Provider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) LoadWallet(keyJSON []byte, password string) (wallet.Wallet, error) {
	args := m.Called(keyJSON, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(wallet.Wallet), args.Error(1)
}

func (m *MockProvider) VerifyAddress(address string) bool {
	return m.Called(address).Bool(0)
}

// MockWallet is a mock implementation of wallet.Wallet for testing
type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Address() string {
	return sourceAddr
}

func (m *MockWallet) VerifyPassword() bool {
	return m.Called().Bool(0)
}

func (m *MockWallet) Balance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWallet) Transfer(ctx context.Context, address string, amount, fee decimal.Decimal) (string, error) {
	args := m.Called(ctx, address, amount, fee)
	return args.String(0), args.Error(1)
}

// failingStore wraps a real store and fails chosen operations
type failingStore struct {
	*receipt.Store
	existsErr  error
	prepareErr error
	writeErr   error
}

func (s *failingStore) Exists() (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.Store.Exists()
}

func (s *failingStore) Prepare() error {
	if s.prepareErr != nil {
		return s.prepareErr
	}
	return s.Store.Prepare()
}

func (s *failingStore) Write(r receipt.Receipt) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.Store.Write(r)
}

type fixture struct {
	cfg      *common.FundingConfig
	provider *MockProvider
	source   *MockWallet
	store    *receipt.Store
	logs     *observer.ObservedLogs
	log      *logger.ZapLogger
}

func newFixture(t *testing.T, amount, fee int64) *fixture {
	t.Helper()
	dir := t.TempDir()

	from := filepath.Join(dir, "treasury.json")
	pswd := filepath.Join(dir, "treasury.pswd")
	to := filepath.Join(dir, "wallet.json")
	require.NoError(t, os.WriteFile(from, []byte(`{"Version":2}`), 0600))
	require.NoError(t, os.WriteFile(pswd, []byte("hunter2\n"), 0600))
	require.NoError(t, os.WriteFile(to, []byte(`{"Address":"`+destAddr+`"}`), 0644))

	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		cfg: &common.FundingConfig{
			Amount:       decimal.NewFromInt(amount),
			Fee:          decimal.NewFromInt(fee),
			From:         from,
			PasswordFile: pswd,
			To:           to,
			Directory:    filepath.Join(dir, "data"),
		},
		provider: &MockProvider{},
		source:   &MockWallet{},
		logs:     logs,
		log:      logger.NewZapLoggerWithCore(core),
	}
	f.store = receipt.NewStore(f.cfg.Directory)

	f.provider.On("LoadWallet", []byte(`{"Version":2}`), "hunter2").Return(f.source, nil).Maybe()
	f.provider.On("VerifyAddress", destAddr).Return(true).Maybe()
	return f
}

func (f *fixture) run(t *testing.T, store ReceiptStore) (*Result, error) {
	t.Helper()
	if store == nil {
		store = f.store
	}
	o := NewOrchestrator(f.cfg, f.provider, store, f.log)
	o.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return o.Run(context.Background())
}

func (f *fixture) writeReceipt(t *testing.T) {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.cfg.Directory, 0755))
	require.NoError(t, os.WriteFile(f.store.Path(), []byte(`"0xdeadbeef"`), 0644))
}

func receiptExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestRun_SufficientBalanceTransfersAndWritesReceipt(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(11), nil)
	f.source.On("Transfer", mock.Anything, destAddr, f.cfg.Amount, f.cfg.Fee).Return("a1b2c3", nil).Once()

	res, err := f.run(t, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ExitCode(err))
	assert.Equal(t, StateTransferSubmitted, res.State)
	assert.True(t, res.Funded())
	assert.Equal(t, "a1b2c3", res.TxHash)
	assert.Equal(t, sourceAddr, res.Source)
	assert.Equal(t, destAddr, res.Destination)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(11)))

	data, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"txHash": "a1b2c3"`)
	assert.Contains(t, string(data), `"to": "`+destAddr+`"`)

	f.source.AssertExpectations(t)
}

func TestRun_InsufficientBalance(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(5), nil)

	res, err := f.run(t, nil)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 1, ExitCode(err))
	assert.Equal(t, StateInsufficient, res.State)
	assert.False(t, receiptExists(t, f.store.Path()))
	f.source.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_BalanceJustBelowRequired(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.RequireFromString("10.99999999"), nil)

	_, err := f.run(t, nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	f.source.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ReceiptPresentIsNoOp(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.writeReceipt(t)

	res, err := f.run(t, nil)
	require.NoError(t, err)
	assert.Equal(t, StateReceiptFound, res.State)
	assert.False(t, res.Funded())

	f.source.AssertNotCalled(t, "VerifyPassword")
	f.source.AssertNotCalled(t, "Balance", mock.Anything)
	f.source.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	data, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	assert.Equal(t, `"0xdeadbeef"`, string(data), "existing receipt must not be touched")
}

func TestRun_DryRunSkipsTransfer(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.cfg.DryRun = true
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(100), nil)

	res, err := f.run(t, nil)
	require.NoError(t, err)
	assert.Equal(t, StateDrySkip, res.State)
	assert.False(t, receiptExists(t, f.store.Path()))
	f.source.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, f.logs.FilterMessage("Sufficient balance found, skipping tx in dry run").Len())
}

func TestRun_DryRunStillFailsOnInsufficientBalance(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.cfg.DryRun = true
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(1), nil)

	_, err := f.run(t, nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestRun_InvalidAddressStopsBeforePasswordCheck(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.provider = &MockProvider{}
	f.provider.On("LoadWallet", mock.Anything, mock.Anything).Return(f.source, nil)
	f.provider.On("VerifyAddress", destAddr).Return(false)

	res, err := f.run(t, nil)
	require.ErrorIs(t, err, ErrInvalidAddress)
	assert.Equal(t, StateWalletsLoaded, res.State)
	f.source.AssertNotCalled(t, "VerifyPassword")
}

func TestRun_DescriptorWithoutAddress(t *testing.T) {
	f := newFixture(t, 10, 1)
	require.NoError(t, os.WriteFile(f.cfg.To, []byte(`{"Version":2}`), 0644))

	_, err := f.run(t, nil)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.ErrorIs(t, err, wallet.ErrMissingAddress)
	f.provider.AssertNotCalled(t, "VerifyAddress", mock.Anything)
}

func TestRun_LoadWalletFailure(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.provider = &MockProvider{}
	f.provider.On("LoadWallet", mock.Anything, mock.Anything).Return(nil, errors.New("bad keystore"))

	res, err := f.run(t, nil)
	require.ErrorIs(t, err, ErrLoadWallet)
	assert.Contains(t, err.Error(), "bad keystore")
	assert.Equal(t, StateStart, res.State)
}

func TestRun_MissingPasswordFile(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.cfg.PasswordFile = filepath.Join(t.TempDir(), "missing.pswd")

	_, err := f.run(t, nil)
	assert.ErrorIs(t, err, ErrLoadWallet)
	assert.ErrorIs(t, err, os.ErrNotExist)
	f.provider.AssertNotCalled(t, "LoadWallet", mock.Anything, mock.Anything)
}

func TestRun_WrongPassword(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(false)

	res, err := f.run(t, nil)
	require.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, StateReceiptAbsent, res.State)
	f.source.AssertNotCalled(t, "Balance", mock.Anything)
}

func TestRun_BalanceQueryFailure(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.Zero, errors.New("connection refused"))

	res, err := f.run(t, nil)
	require.ErrorIs(t, err, ErrBalanceQuery)
	assert.Equal(t, StatePasswordVerified, res.State)
	assert.Contains(t, err.Error(), sourceAddr)
}

func TestRun_ReceiptCheckErrorIsFatal(t *testing.T) {
	f := newFixture(t, 10, 1)
	store := &failingStore{Store: f.store, existsErr: os.ErrPermission}

	_, err := f.run(t, store)
	assert.ErrorIs(t, err, ErrReceiptCheck)
	assert.ErrorIs(t, err, os.ErrPermission)
	f.source.AssertNotCalled(t, "VerifyPassword")
}

func TestRun_TransferFailureWritesNoReceipt(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(50), nil)
	f.source.On("Transfer", mock.Anything, destAddr, f.cfg.Amount, f.cfg.Fee).Return("", errors.New("nonce too low"))

	res, err := f.run(t, nil)
	require.ErrorIs(t, err, ErrTransfer)
	assert.Equal(t, StateTransferFailed, res.State)
	assert.False(t, receiptExists(t, f.store.Path()))
	assert.False(t, NeedsManualIntervention(err))
}

func TestRun_UnusableReceiptDirectoryBlocksTransfer(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(50), nil)
	store := &failingStore{Store: f.store, prepareErr: errors.New("read-only file system")}

	_, err := f.run(t, store)
	assert.ErrorIs(t, err, ErrTransfer)
	f.source.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_DryRunFailsOnUnusableReceiptDirectory(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.cfg.DryRun = true
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(50), nil)
	store := &failingStore{Store: f.store, prepareErr: errors.New("read-only file system")}

	res, err := f.run(t, store)
	assert.ErrorIs(t, err, ErrTransfer)
	assert.NotEqual(t, StateDrySkip, res.State)
	assert.Equal(t, 1, ExitCode(err))
	f.source.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_DryRunCreatesMissingReceiptDirectory(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.cfg.DryRun = true
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(50), nil)

	res, err := f.run(t, nil)
	require.NoError(t, err)
	assert.Equal(t, StateDrySkip, res.State)
	assert.DirExists(t, filepath.Dir(f.store.Path()))
	assert.False(t, receiptExists(t, f.store.Path()))
}

func TestRun_ReceiptWriteFailureNeedsManualIntervention(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true)
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(50), nil)
	f.source.On("Transfer", mock.Anything, destAddr, f.cfg.Amount, f.cfg.Fee).Return("a1b2c3", nil)
	store := &failingStore{Store: f.store, writeErr: errors.New("no space left on device")}

	res, err := f.run(t, store)
	require.ErrorIs(t, err, ErrReceiptWrite)
	assert.True(t, NeedsManualIntervention(err))
	assert.Equal(t, 1, ExitCode(err))
	assert.Equal(t, "a1b2c3", res.TxHash)
	assert.Contains(t, err.Error(), "a1b2c3")

	entries := f.logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[len(entries)-1].Message, "MANUAL INTERVENTION REQUIRED")
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	f := newFixture(t, 10, 1)
	f.source.On("VerifyPassword").Return(true).Once()
	f.source.On("Balance", mock.Anything).Return(decimal.NewFromInt(11), nil).Once()
	f.source.On("Transfer", mock.Anything, destAddr, f.cfg.Amount, f.cfg.Fee).Return("a1b2c3", nil).Once()

	res, err := f.run(t, nil)
	require.NoError(t, err)
	require.Equal(t, StateTransferSubmitted, res.State)

	res, err = f.run(t, nil)
	require.NoError(t, err)
	assert.Equal(t, StateReceiptFound, res.State)

	f.source.AssertNumberOfCalls(t, "Transfer", 1)
	f.source.AssertNumberOfCalls(t, "Balance", 1)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	for _, err := range []error{ErrLoadWallet, ErrInvalidAddress, ErrWrongPassword, ErrInsufficientBalance, ErrTransfer, ErrBalanceQuery, ErrReceiptCheck, ErrReceiptWrite, common.ErrInvalidConfig} {
		assert.Equal(t, 1, ExitCode(err), err.Error())
	}
}
