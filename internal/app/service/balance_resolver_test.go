package service

import (
	"context"
	"errors"
	"math"
	"math/big"
	"testing"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/logger"
	"wallet_dashboard/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBalanceResolver_Resolve(t *testing.T) {
	src := &fakeBalanceSource{
		native: bigInt("2000000000000000000"),
		tokens: []entity.RawTokenBalance{
			{ContractAddress: tokenA, RawBalance: big.NewInt(1_500_000)},
			{ContractAddress: tokenB, RawBalance: new(big.Int)},
			{ContractAddress: tokenC, RawBalance: big.NewInt(7)},
			{ContractAddress: tokenD, RawBalance: bigInt("3000000000000000000")},
		},
		metadata: map[string]entity.TokenMetadata{
			tokenA: {Symbol: "USDC", Name: "USD Coin", Decimals: intPtr(6)},
			tokenD: {},
		},
		metadataErr: map[string]error{tokenC: errUpstream("metadata")},
	}
	r := NewBalanceResolver(src, logger.Nop(), 2)

	dropped := testutil.ToFloat64(metrics.DroppedTokensTotal)
	got, err := r.Resolve(context.Background(), "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []entity.AssetBalance{
		{ContractAddress: "ETH", Symbol: "ETH", Name: "Ethereum", Balance: 2, Decimals: 18},
		{ContractAddress: tokenA, Symbol: "USDC", Name: "USD Coin", Balance: 1.5, Decimals: 6},
		{ContractAddress: tokenD, Symbol: "UNKNOWN", Name: "Unknown Token", Balance: 3, Decimals: 18},
	}
	if len(got) != len(want) {
		t.Fatalf("Resolve() returned %d balances, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("balance[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if d := testutil.ToFloat64(metrics.DroppedTokensTotal) - dropped; d != 1 {
		t.Errorf("dropped tokens counter moved by %v, want 1", d)
	}
	for _, c := range src.metadataCalls {
		if c == tokenB {
			t.Errorf("metadata requested for a zero-balance token")
		}
	}
}

func TestBalanceResolver_NativeAlwaysFirstAndTokensNonZero(t *testing.T) {
	testCases := []struct {
		name   string
		native *big.Int
		tokens []entity.RawTokenBalance
	}{
		{name: "empty wallet", native: new(big.Int)},
		{name: "only zero tokens", native: new(big.Int), tokens: []entity.RawTokenBalance{
			{ContractAddress: tokenA, RawBalance: new(big.Int)},
			{ContractAddress: tokenB, RawBalance: nil},
		}},
		{name: "mixed", native: big.NewInt(1), tokens: []entity.RawTokenBalance{
			{ContractAddress: tokenA, RawBalance: big.NewInt(1)},
			{ContractAddress: tokenB, RawBalance: new(big.Int)},
			{ContractAddress: tokenC, RawBalance: bigInt("123456789012345678901234567890")},
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeBalanceSource{
				native: tc.native,
				tokens: tc.tokens,
				metadata: map[string]entity.TokenMetadata{
					tokenA: {Symbol: "A", Name: "A", Decimals: intPtr(0)},
					tokenC: {Symbol: "C", Name: "C", Decimals: intPtr(36)},
				},
			}
			got, err := NewBalanceResolver(src, logger.Nop(), 0).Resolve(context.Background(), walletW)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			natives := 0
			for i, b := range got {
				if b.IsNative() {
					natives++
					if i != 0 {
						t.Errorf("native entry at index %d", i)
					}
					continue
				}
				if b.Balance <= 0 {
					t.Errorf("token %s has non-positive balance %v", b.ContractAddress, b.Balance)
				}
			}
			if natives != 1 {
				t.Errorf("found %d native entries, want 1", natives)
			}
		})
	}
}

func TestBalanceResolver_InvalidAddress(t *testing.T) {
	for _, addr := range []string{"", "0x123", "1111111111111111111111111111111111111111ab", "0xZZ11111111111111111111111111111111111111"} {
		src := &fakeBalanceSource{}
		_, err := NewBalanceResolver(src, logger.Nop(), 0).Resolve(context.Background(), addr)
		if !errors.Is(err, entity.ErrInvalidInput) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidInput", addr, err)
		}
		if src.calls != 0 {
			t.Errorf("Resolve(%q) reached the source %d times", addr, src.calls)
		}
	}
}

func TestBalanceResolver_UpstreamFailures(t *testing.T) {
	testCases := []struct {
		name string
		src  *fakeBalanceSource
	}{
		{name: "native", src: &fakeBalanceSource{nativeErr: errUpstream("eth_getBalance")}},
		{name: "token list", src: &fakeBalanceSource{tokensErr: errUpstream("alchemy_getTokenBalances")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBalanceResolver(tc.src, logger.Nop(), 0).Resolve(context.Background(), walletW)
			if !errors.Is(err, entity.ErrUpstreamUnavailable) {
				t.Fatalf("Resolve() error = %v, want ErrUpstreamUnavailable", err)
			}
		})
	}
}

func TestBalanceResolver_AllMetadataFailuresStillSucceeds(t *testing.T) {
	src := &fakeBalanceSource{
		native: big.NewInt(0),
		tokens: []entity.RawTokenBalance{
			{ContractAddress: tokenA, RawBalance: big.NewInt(10)},
			{ContractAddress: tokenB, RawBalance: big.NewInt(20)},
		},
		metadataErr: map[string]error{tokenA: errUpstream("a"), tokenB: errUpstream("b")},
	}
	got, err := NewBalanceResolver(src, logger.Nop(), 1).Resolve(context.Background(), walletW)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 1 || !got[0].IsNative() {
		t.Errorf("Resolve() = %+v, want native entry only", got)
	}
	if len(src.metadataCalls) != 2 {
		t.Errorf("metadata calls = %d, want 2 (one failure must not stop the other)", len(src.metadataCalls))
	}
}

func TestBuildTokenBalance_DecimalConversion(t *testing.T) {
	ab := buildTokenBalance(
		entity.RawTokenBalance{ContractAddress: tokenA, RawBalance: bigInt("1234500000000000000")},
		entity.TokenMetadata{Symbol: "FOO", Name: "Foo"},
	)
	if math.Abs(ab.Balance-1.2345) > 1e-12 || ab.Decimals != 18 {
		t.Errorf("buildTokenBalance() = %+v, want balance 1.2345 with 18 decimals", ab)
	}
}

func TestBalanceResolver_FetchesRunConcurrently(t *testing.T) {
	src := &concurrentBalanceSource{
		balances: newBarrier(2),
		metadata: newBarrier(3),
		tokens: []entity.RawTokenBalance{
			{ContractAddress: tokenA, RawBalance: big.NewInt(1)},
			{ContractAddress: tokenB, RawBalance: big.NewInt(2)},
			{ContractAddress: tokenC, RawBalance: big.NewInt(3)},
		},
	}
	got, err := NewBalanceResolver(src, logger.Nop(), 3).Resolve(context.Background(), walletW)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Resolve() returned %d balances, want native + 3 tokens: %+v", len(got), got)
	}
	for i, want := range []string{"aaa", "bbb", "ccc"} {
		if got[i+1].Symbol != want {
			t.Errorf("balances[%d].Symbol = %q, want %q", i+1, got[i+1].Symbol, want)
		}
	}
}

func TestBalanceResolver_FailedFetchDoesNotCancelSibling(t *testing.T) {
	src := &siblingCtxSource{tokenCtxErr: make(chan error, 1)}
	_, err := NewBalanceResolver(src, logger.Nop(), 0).Resolve(context.Background(), walletW)
	if !errors.Is(err, entity.ErrUpstreamUnavailable) {
		t.Fatalf("Resolve() error = %v, want ErrUpstreamUnavailable", err)
	}
	if ctxErr := <-src.tokenCtxErr; ctxErr != nil {
		t.Errorf("token balance fetch saw its context end with %v", ctxErr)
	}
}
