package keeper

import (
	"context"
	"fmt"
	"sync"

	"github.com/paw-chain/cpamm/x/amm/ledger"
)

// MockBank wraps the reference ledger and can fail chosen calls.
type MockBank struct {
	*ledger.Bank

	mu       sync.Mutex
	failures map[string][]error
	calls    []string
}

// NewMockBank returns a mock delegating to bank.
func NewMockBank(bank *ledger.Bank) *MockBank {
	return &MockBank{Bank: bank, failures: make(map[string][]error)}
}

// FailNext makes the next call of method ("debit", "credit", "mint" or
// "burn") return err without touching balances. Repeated calls queue.
func (m *MockBank) FailNext(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = append(m.failures[method], err)
}

// FailAfter lets n calls of method succeed and fails the one after.
func (m *MockBank) FailAfter(method string, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := make([]error, n, n+1)
	m.failures[method] = append(queue, err)
}

// Calls returns the recorded calls in order.
func (m *MockBank) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Reset forgets recorded calls and pending failures.
func (m *MockBank) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.failures = make(map[string][]error)
}

func (m *MockBank) trip(method string, format string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, method+" "+fmt.Sprintf(format, args...))
	queue := m.failures[method]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	m.failures[method] = queue[1:]
	return err
}

func (m *MockBank) Debit(ctx context.Context, vault, account, asset string, amount uint64) error {
	if err := m.trip("debit", "%d %s %s->%s", amount, asset, account, vault); err != nil {
		return err
	}
	return m.Bank.Debit(ctx, vault, account, asset, amount)
}

func (m *MockBank) Credit(ctx context.Context, vault, account, asset string, amount uint64) error {
	if err := m.trip("credit", "%d %s %s->%s", amount, asset, vault, account); err != nil {
		return err
	}
	return m.Bank.Credit(ctx, vault, account, asset, amount)
}

func (m *MockBank) Mint(ctx context.Context, shareAsset, account string, amount uint64) error {
	if err := m.trip("mint", "%d %s ->%s", amount, shareAsset, account); err != nil {
		return err
	}
	return m.Bank.Mint(ctx, shareAsset, account, amount)
}

func (m *MockBank) Burn(ctx context.Context, shareAsset, account string, amount uint64) error {
	if err := m.trip("burn", "%d %s %s->", amount, shareAsset, account); err != nil {
		return err
	}
	return m.Bank.Burn(ctx, shareAsset, account, amount)
}
