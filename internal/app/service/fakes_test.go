package service

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"wallet_dashboard/internal/domain/entity"
)

const (
	walletW = "0x1111111111111111111111111111111111111111"
	walletX = "0x2222222222222222222222222222222222222222"
	tokenA  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	tokenB  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	tokenC  = "0xcccccccccccccccccccccccccccccccccccccccc"
	tokenD  = "0xdddddddddddddddddddddddddddddddddddddddd"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func bigInt(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func errUpstream(what string) error {
	return fmt.Errorf("%w: %s", entity.ErrUpstreamUnavailable, what)
}

// fakeBalanceSource implements port.BalanceSource.
type fakeBalanceSource struct {
	native      *big.Int
	nativeErr   error
	tokens      []entity.RawTokenBalance
	tokensErr   error
	metadata    map[string]entity.TokenMetadata
	metadataErr map[string]error

	mu            sync.Mutex
	metadataCalls []string
	calls         int
}

func (f *fakeBalanceSource) GetNativeBalance(_ context.Context, _ string) (*big.Int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	if f.native == nil {
		return new(big.Int), nil
	}
	return f.native, nil
}

func (f *fakeBalanceSource) GetTokenBalances(_ context.Context, _ string) ([]entity.RawTokenBalance, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.tokens, f.tokensErr
}

func (f *fakeBalanceSource) GetTokenMetadata(_ context.Context, contract string) (entity.TokenMetadata, error) {
	f.mu.Lock()
	f.metadataCalls = append(f.metadataCalls, contract)
	f.mu.Unlock()
	if err := f.metadataErr[contract]; err != nil {
		return entity.TokenMetadata{}, err
	}
	return f.metadata[contract], nil
}

type transferCall struct {
	role     entity.TransferRole
	maxCount int
}

// fakeTransferSource implements port.TransferSource.
type fakeTransferSource struct {
	inbound     []entity.RawTransfer
	outbound    []entity.RawTransfer
	inboundErr  error
	outboundErr error

	mu    sync.Mutex
	calls []transferCall
}

func (f *fakeTransferSource) GetAssetTransfers(_ context.Context, _ string, role entity.TransferRole, maxCount int) ([]entity.RawTransfer, error) {
	f.mu.Lock()
	f.calls = append(f.calls, transferCall{role: role, maxCount: maxCount})
	f.mu.Unlock()
	if role == entity.RoleRecipient {
		return f.inbound, f.inboundErr
	}
	return f.outbound, f.outboundErr
}

// fakeTokenPriceClient implements port.TokenPriceClient.
type fakeTokenPriceClient struct {
	prices map[string]float64
	errs   map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *fakeTokenPriceClient) GetTokenPriceUSD(_ context.Context, contract string) (float64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, contract)
	f.mu.Unlock()
	if err := f.errs[contract]; err != nil {
		return 0, err
	}
	p, ok := f.prices[contract]
	if !ok {
		return 0, errUpstream("no price for " + contract)
	}
	return p, nil
}

func (f *fakeTokenPriceClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeSimplePriceClient implements port.SimplePriceClient.
type fakeSimplePriceClient struct {
	prices map[string]float64
	err    error

	mu    sync.Mutex
	calls [][]string
}

func (f *fakeSimplePriceClient) GetSimplePricesUSD(_ context.Context, ids []string) (map[string]float64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]float64)
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// fakeFavoritesStore implements port.FavoritesStore in memory.
type fakeFavoritesStore struct {
	mu    sync.Mutex
	items []entity.FavoriteWallet
	clock time.Time
	err   error
}

func (f *fakeFavoritesStore) Add(_ context.Context, fav entity.FavoriteWallet) (entity.FavoriteWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return entity.FavoriteWallet{}, f.err
	}
	for _, it := range f.items {
		if it.UserID == fav.UserID && it.Address == fav.Address {
			return entity.FavoriteWallet{}, fmt.Errorf("%w: wallet already in favorites", entity.ErrAlreadyExists)
		}
	}
	f.clock = f.clock.Add(time.Second)
	fav.CreatedAt = f.clock
	f.items = append(f.items, fav)
	return fav, nil
}

func (f *fakeFavoritesStore) Remove(_ context.Context, userID, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, it := range f.items {
		if it.UserID == userID && it.Address == address {
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return f.err
}

func (f *fakeFavoritesStore) List(_ context.Context, userID string) ([]entity.FavoriteWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.FavoriteWallet
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// barrier releases its callers once n of them have arrived. wait reports false if
// the rest did not arrive within timeout.
type barrier struct {
	n       int
	mu      sync.Mutex
	arrived int
	open    chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, open: make(chan struct{})}
}

func (b *barrier) wait(timeout time.Duration) bool {
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.n {
		close(b.open)
	}
	b.mu.Unlock()
	select {
	case <-b.open:
		return true
	case <-time.After(timeout):
		return false
	}
}

const barrierTimeout = 2 * time.Second

// concurrentBalanceSource only answers when its calls overlap: both balance
// fetches must be in flight together, and so must every metadata lookup.
type concurrentBalanceSource struct {
	balances *barrier
	metadata *barrier
	tokens   []entity.RawTokenBalance
}

func (s *concurrentBalanceSource) GetNativeBalance(_ context.Context, _ string) (*big.Int, error) {
	if !s.balances.wait(barrierTimeout) {
		return nil, errUpstream("native balance fetched alone")
	}
	return big.NewInt(1), nil
}

func (s *concurrentBalanceSource) GetTokenBalances(_ context.Context, _ string) ([]entity.RawTokenBalance, error) {
	if !s.balances.wait(barrierTimeout) {
		return nil, errUpstream("token balances fetched alone")
	}
	return s.tokens, nil
}

func (s *concurrentBalanceSource) GetTokenMetadata(_ context.Context, contract string) (entity.TokenMetadata, error) {
	if !s.metadata.wait(barrierTimeout) {
		return entity.TokenMetadata{}, errUpstream("metadata for " + contract + " fetched alone")
	}
	return entity.TokenMetadata{Symbol: contract[2:5], Decimals: intPtr(0)}, nil
}

// concurrentTransferSource only answers when the recipient and sender fetches overlap.
type concurrentTransferSource struct {
	both *barrier
}

func (s *concurrentTransferSource) GetAssetTransfers(_ context.Context, _ string, role entity.TransferRole, _ int) ([]entity.RawTransfer, error) {
	if !s.both.wait(barrierTimeout) {
		return nil, errUpstream(role.String() + " transfers fetched alone")
	}
	return []entity.RawTransfer{{Hash: "0x" + role.String(), BlockTimestamp: stamp(int(role))}}, nil
}

// siblingCtxSource fails the native fetch and records what the token fetch saw of its context.
type siblingCtxSource struct {
	fakeBalanceSource
	tokenCtxErr chan error
}

func (s *siblingCtxSource) GetNativeBalance(_ context.Context, _ string) (*big.Int, error) {
	return nil, errUpstream("eth_getBalance")
}

func (s *siblingCtxSource) GetTokenBalances(ctx context.Context, _ string) ([]entity.RawTokenBalance, error) {
	select {
	case <-ctx.Done():
		s.tokenCtxErr <- ctx.Err()
	case <-time.After(100 * time.Millisecond):
		s.tokenCtxErr <- nil
	}
	return nil, nil
}
