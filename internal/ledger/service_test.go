package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"flat-ledger-go/internal/database"
	"flat-ledger-go/internal/models"
	"flat-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLedger(t *testing.T) (*Service, *database.Service) {
	t.Helper()
	db, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "accounts.csv"),
		CreateIfMissing: true,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return NewService(db), db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustCreate(t *testing.T, svc *Service, name, balance string) {
	t.Helper()
	_, err := svc.Create(context.Background(), name, dec(balance))
	require.NoError(t, err)
}

func balanceOf(t *testing.T, svc *Service, name string) decimal.Decimal {
	t.Helper()
	balance, err := svc.Balance(context.Background(), name)
	require.NoError(t, err)
	return balance
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

func TestCreate(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()

	balance, err := svc.Create(ctx, "alice", dec("100.00"))
	require.NoError(t, err)
	assertDecimal(t, "100.00", balance)

	exists, err := svc.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.Create(ctx, "bob", decimal.Zero)
	require.NoError(t, err, "zero initial balance is allowed")
}

func TestCreate_Duplicate(t *testing.T) {
	svc, _ := setupTestLedger(t)
	mustCreate(t, svc, "alice", "10")

	_, err := svc.Create(context.Background(), "alice", dec("5"))
	require.ErrorIs(t, err, ErrDuplicateAccount)
	assert.Contains(t, err.Error(), "alice")

	assertDecimal(t, "10", balanceOf(t, svc, "alice"))
}

func TestCreate_InvalidInput(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", dec("-0.01"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(ctx, "   ", dec("1"))
	assert.ErrorIs(t, err, ErrInvalidAccountName)

	accounts, err := svc.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestCreate_ConcurrentSameName(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()

	const racers = 25
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, "alice", decimal.NewFromInt(int64(i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateAccount):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, duplicates)

	accounts, err := svc.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestDeposit_ExactDecimalArithmetic(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "0.00")

	// 0.1 and 0.01 have no exact binary floating point representation.
	for i := 0; i < 10; i++ {
		_, err := svc.Deposit(ctx, "alice", dec("0.1"))
		require.NoError(t, err)
	}
	balance, err := svc.Deposit(ctx, "alice", dec("0.01"))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, "alice", dec("0.02"))
	require.NoError(t, err)

	assertDecimal(t, "1.01", balance)
	assertDecimal(t, "1.03", balanceOf(t, svc, "alice"))
}

func TestDeposit_Sequential(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "19.99")

	_, err := svc.Deposit(ctx, "alice", dec("0.07"))
	require.NoError(t, err)
	balance, err := svc.Deposit(ctx, "alice", dec("1234.56"))
	require.NoError(t, err)

	assertDecimal(t, "1254.62", balance)
}

func TestDeposit_Failures(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "5")

	_, err := svc.Deposit(ctx, "ghost", dec("1"))
	require.ErrorIs(t, err, ErrAccountNotFound)
	assert.Contains(t, err.Error(), "ghost")

	for _, amount := range []string{"0", "-1"} {
		_, err := svc.Deposit(ctx, "alice", dec(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}

	assertDecimal(t, "5", balanceOf(t, svc, "alice"))
}

func TestWithdraw_StrictBoundary(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "100.00")

	_, err := svc.Withdraw(ctx, "alice", dec("100.00"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, KindInsufficientFunds, opErr.Kind)
	assert.Equal(t, "alice", opErr.Account)
	assertDecimal(t, "100.00", opErr.Balance)
	assertDecimal(t, "100.00", opErr.Amount)
	assert.Contains(t, err.Error(), "100")

	balance, err := svc.Withdraw(ctx, "alice", dec("99.99"))
	require.NoError(t, err)
	assertDecimal(t, "0.01", balance)
	assertDecimal(t, "0.01", balanceOf(t, svc, "alice"))
}

func TestWithdraw_Failures(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "5")

	_, err := svc.Withdraw(ctx, "ghost", dec("1"))
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.Withdraw(ctx, "alice", dec("6"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = svc.Withdraw(ctx, "alice", decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assertDecimal(t, "5", balanceOf(t, svc, "alice"))
}

func TestTransfer(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "100.00")
	mustCreate(t, svc, "bob", "50.50")

	balance, err := svc.Transfer(ctx, "alice", "bob", dec("30.25"))
	require.NoError(t, err)
	assertDecimal(t, "69.75", balance)

	assertDecimal(t, "69.75", balanceOf(t, svc, "alice"))
	assertDecimal(t, "80.75", balanceOf(t, svc, "bob"))
}

func TestTransfer_ReportsMissingAccount(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "100")
	mustCreate(t, svc, "bob", "100")

	tests := []struct {
		from, to string
		missing  string
	}{
		{"ghost", "bob", "ghost"},
		{"alice", "ghost2", "ghost2"},
		{"ghost", "ghost2", "ghost"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			_, err := svc.Transfer(ctx, tt.from, tt.to, dec("10"))
			require.ErrorIs(t, err, ErrAccountNotFound)

			var opErr *OperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, tt.missing, opErr.Account)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}

	assertDecimal(t, "100", balanceOf(t, svc, "alice"))
	assertDecimal(t, "100", balanceOf(t, svc, "bob"))
}

func TestTransfer_Failures(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "10")
	mustCreate(t, svc, "bob", "0")

	_, err := svc.Transfer(ctx, "alice", "bob", dec("10"))
	assert.ErrorIs(t, err, ErrInsufficientFunds, "equal balance cannot be transferred out")

	_, err = svc.Transfer(ctx, "alice", "bob", dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Transfer(ctx, "alice", "alice", dec("1"))
	assert.ErrorIs(t, err, ErrSameAccount)

	assertDecimal(t, "10", balanceOf(t, svc, "alice"))
	assertDecimal(t, "0", balanceOf(t, svc, "bob"))
}

func TestConcurrentDeposits_NoLostUpdates(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "1.00")

	const workers = 100
	amount := dec("0.01")

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(ctx, "alice", amount); err != nil {
				t.Errorf("deposit failed: %v", err)
			}
		}()
	}
	wg.Wait()

	assertDecimal(t, "2.00", balanceOf(t, svc, "alice"))
}

func TestConcurrentTransfersAndDeposits_Atomic(t *testing.T) {
	svc, _ := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "1000")
	mustCreate(t, svc, "bob", "1000")

	const n = 40
	var wg sync.WaitGroup
	wg.Add(3 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Transfer(ctx, "alice", "bob", dec("1.5")); err != nil {
				t.Errorf("alice->bob: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.Transfer(ctx, "bob", "alice", dec("0.5")); err != nil {
				t.Errorf("bob->alice: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(ctx, "alice", dec("0.25")); err != nil {
				t.Errorf("deposit: %v", err)
			}
		}()
	}
	wg.Wait()

	alice := balanceOf(t, svc, "alice")
	bob := balanceOf(t, svc, "bob")
	// transfers conserve the total; only the deposits add to it
	assertDecimal(t, "2010", alice.Add(bob))
	assertDecimal(t, "970", alice)
	assertDecimal(t, "1040", bob)
}

func TestAccounts_PreservesOrder(t *testing.T) {
	svc, _ := setupTestLedger(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		mustCreate(t, svc, name, "1")
	}

	accounts, err := svc.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "carol", accounts[0].Name)
	assert.Equal(t, "alice", accounts[1].Name)
	assert.Equal(t, "bob", accounts[2].Name)
}

func TestBalance_NotFound(t *testing.T) {
	svc, _ := setupTestLedger(t)

	_, err := svc.Balance(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// failingStore persists through the real CSV store but rejects ReplaceAll.
type failingStore struct {
	*database.Service
}

func (f failingStore) ReplaceAll(context.Context, []models.Account) error {
	return fmt.Errorf("disk full: %w", store.ErrStorageWrite)
}

func TestTransfer_PersistenceFailureKeepsPriorSnapshot(t *testing.T) {
	svc, db := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "100")
	mustCreate(t, svc, "bob", "0")

	failing := NewService(failingStore{db})

	_, err := failing.Transfer(ctx, "alice", "bob", dec("40"))
	require.ErrorIs(t, err, store.ErrStorageWrite)
	_, ok := KindOf(err)
	assert.False(t, ok, "storage failures are not business rejections")

	_, err = failing.Deposit(ctx, "alice", dec("1"))
	require.ErrorIs(t, err, store.ErrStorageWrite)

	assertDecimal(t, "100", balanceOf(t, svc, "alice"))
	assertDecimal(t, "0", balanceOf(t, svc, "bob"))
}

func TestAmountsOutsideSupportedRange(t *testing.T) {
	svc, db := setupTestLedger(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "100.00")
	mustCreate(t, svc, "bob", "1")

	before, err := os.ReadFile(db.Path())
	require.NoError(t, err)

	for _, raw := range []string{"1e-2000000", "1e-2000000000", "1e2000000000", "0.0000000000000000001"} {
		amount := dec(raw)

		_, err := svc.Deposit(ctx, "alice", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "deposit %s", raw)

		_, err = svc.Withdraw(ctx, "alice", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "withdraw %s", raw)

		_, err = svc.Transfer(ctx, "alice", "bob", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "transfer %s", raw)

		_, err = svc.Create(ctx, "carol", amount)
		require.ErrorIs(t, err, ErrInvalidAmount, "create %s", raw)
		assert.Contains(t, err.Error(), "supported range")
	}

	after, err := os.ReadFile(db.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	balance, err := svc.Deposit(ctx, "alice", dec("0.000000000000000001"))
	require.NoError(t, err)
	assertDecimal(t, "100.000000000000000001", balance)
}

func TestAccountNamesWithCSVMetacharacters(t *testing.T) {
	names := []string{
		"a,b",
		`x"y`,
		"line\nbreak",
		" padded ",
		`"quoted"`,
	}

	for _, name := range names {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			svc, db := setupTestLedger(t)
			ctx := context.Background()

			mustCreate(t, svc, name, "10.50")
			mustCreate(t, svc, "plain", "1")

			accounts, err := db.LoadAll(ctx)
			require.NoError(t, err)
			require.Len(t, accounts, 2)
			assert.Equal(t, name, accounts[0].Name)
			assertDecimal(t, "10.50", accounts[0].Balance)

			// a full rewrite must quote the name the same way
			_, err = svc.Transfer(ctx, name, "plain", dec("0.50"))
			require.NoError(t, err)
			assertDecimal(t, "10.00", balanceOf(t, svc, name))
			assertDecimal(t, "1.50", balanceOf(t, svc, "plain"))
		})
	}
}
