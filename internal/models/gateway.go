package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MintRequest is the body of POST /mint.
type MintRequest struct {
	WalletAddress string `json:"walletAddress"`
	TokenURI      string `json:"tokenURI"`
}

// ApproveRequest is the body of POST /approve.
type ApproveRequest struct {
	WalletAddress string      `json:"walletAddress"`
	Operator      string      `json:"operator"`
	TokenID       json.Number `json:"tokenId"`
}

// PurchaseRequest is the body of POST /buy-nft. The price is always
// denominated in EUR; conversion to ETH happens server-side at the
// current rate.
type PurchaseRequest struct {
	WalletAddress      string          `json:"walletAddress"`
	TokenID            json.Number     `json:"tokenId"`
	NFTContractAddress string          `json:"nftContractAddress"`
	PriceInEur         decimal.Decimal `json:"priceInEur"`
}

// WebhookRequest is the body MoonPay posts to /moonpay-webhook.
type WebhookRequest struct {
	Status        string `json:"status"`
	WalletAddress string `json:"walletAddress"`
	CurrencyCode  string `json:"currencyCode"`
}

// ListedNFT is the read-only view of a marketplace listing. Price is the
// listed amount rendered as a decimal ETH string ("0.05"), never a float.
type ListedNFT struct {
	Seller      string `json:"seller"`
	Price       string `json:"price"`
	TokenID     string `json:"tokenId"`
	NFTContract string `json:"nftContract"`
	IsListed    bool   `json:"isListed"`
}

// CheckoutURLResponse carries the signed MoonPay redirect URL.
type CheckoutURLResponse struct {
	SignedURL string `json:"signedURL"`
}

// RateResponse carries the current EUR value of one ETH. The rate is a
// decimal string to avoid float rounding in transit.
type RateResponse struct {
	EthToEurRate string `json:"ethToEurRate"`
}

// TxResponse is returned by every operation that submits a transaction.
type TxResponse struct {
	Message string `json:"message"`
	TxHash  string `json:"txHash"`
}

// MessageResponse is a bare acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
