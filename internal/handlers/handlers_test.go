package handlers

import (
	"context"
	"math/big"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testWallet   = "0x1111111111111111111111111111111111111111"
	testContract = "0x2222222222222222222222222222222222222222"
	testOperator = "0x3333333333333333333333333333333333333333"
	testTxHash   = "0xabc123"
)

// mockSigner implements services.CheckoutSigner.
type mockSigner struct {
	signedURL string
	err       error
	callCount int
}

func (m *mockSigner) SignedBuyURL(walletAddress, amount, email string) (string, error) {
	m.callCount++
	if m.err != nil {
		return "", m.err
	}
	return m.signedURL, nil
}

// mockRateSource implements services.RateSource.
type mockRateSource struct {
	rate      decimal.Decimal
	err       error
	callCount int
}

func (m *mockRateSource) Name() string { return "mock" }

func (m *mockRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	m.callCount++
	if m.err != nil {
		return decimal.Decimal{}, m.err
	}
	return m.rate, nil
}

// mockBalanceReader implements services.BalanceReader.
type mockBalanceReader struct {
	balance   *big.Int
	err       error
	callCount int
}

func (m *mockBalanceReader) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.balance, nil
}

// mockDispatcher implements services.Dispatcher with per-method call counters.
type mockDispatcher struct {
	txHash   string
	listings []models.ListedNFT
	err      error

	mintCalls     int
	approveCalls  int
	purchaseCalls int
	listCalls     int

	lastOperator common.Address
	lastContract common.Address
	lastTokenID  *big.Int
	lastValueWei *big.Int
}

func (m *mockDispatcher) Mint(ctx context.Context, tokenURI string) (string, error) {
	m.mintCalls++
	if m.err != nil {
		return "", m.err
	}
	return m.txHash, nil
}

func (m *mockDispatcher) Approve(ctx context.Context, operator common.Address, tokenID *big.Int) (string, error) {
	m.approveCalls++
	m.lastOperator = operator
	m.lastTokenID = tokenID
	if m.err != nil {
		return "", m.err
	}
	return m.txHash, nil
}

func (m *mockDispatcher) Purchase(ctx context.Context, nftContract common.Address, tokenID, valueWei *big.Int) (string, error) {
	m.purchaseCalls++
	m.lastContract = nftContract
	m.lastTokenID = tokenID
	m.lastValueWei = valueWei
	if m.err != nil {
		return "", m.err
	}
	return m.txHash, nil
}

func (m *mockDispatcher) ListedNFTs(ctx context.Context) ([]models.ListedNFT, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.listings, nil
}

// newTestPurchases builds a PurchaseService over the given mocks.
func newTestPurchases(rates services.RateSource, balances services.BalanceReader) *services.PurchaseService {
	return services.NewPurchaseService(rates, balances)
}

// performRequest executes one request against a fresh engine running handler.
func performRequest(t *testing.T, method, target, body string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	engine := gin.New()
	engine.Handle(method, pathOf(target), handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func pathOf(target string) string {
	if i := strings.Index(target, "?"); i >= 0 {
		return target[:i]
	}
	return target
}

func assertErrorCode(t *testing.T, body string, code models.ErrorCode) {
	t.Helper()
	if !strings.Contains(body, string(code)) {
		t.Fatalf("expected error code %s in response body, got: %s", code, body)
	}
}
