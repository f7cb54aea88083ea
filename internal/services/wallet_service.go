package services

import (
	"strings"

	"aidagent_go_backend/internal/apperrors"
)

// TokenHolding is one token position inside a wallet report.
type TokenHolding struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Balance   float64 `json:"balance"`
	MarketCap float64 `json:"market_cap"`
	RiskScore float64 `json:"risk_score"`
	RiskLabel string  `json:"risk_label"`
}

// WalletReport is the synthetic analysis result for one address.
type WalletReport struct {
	Address    string         `json:"address"`
	Balance    float64        `json:"balance"`
	TotalValue float64        `json:"total_value"`
	RiskScore  float64        `json:"risk_score"`
	RiskLabel  string         `json:"risk_label"`
	Tokens     []TokenHolding `json:"tokens"`
}

// WalletService serves mock wallet analyses. The data is synthetic and
// in-memory; there is no chain indexer behind it.
type WalletService struct{}

func NewWalletService() *WalletService {
	return &WalletService{}
}

// RiskLabel bands a 0-10 risk score into Low/Medium/High.
func RiskLabel(score float64) string {
	switch {
	case score <= 3:
		return "Low Risk"
	case score <= 7:
		return "Medium Risk"
	default:
		return "High Risk"
	}
}

func (s *WalletService) Analyze(address string) (*WalletReport, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apperrors.Validation("wallet address must not be empty")
	}

	tokens := []TokenHolding{
		{Symbol: "ETH", Name: "Ethereum", Price: 1850.45, Balance: 3.45, MarketCap: 220_000_000_000, RiskScore: 2.1},
		{Symbol: "USDC", Name: "USD Coin", Price: 1.00, Balance: 5000, MarketCap: 55_000_000_000, RiskScore: 1.2},
		{Symbol: "PEPE", Name: "Pepe", Price: 0.00000123, Balance: 1_000_000, MarketCap: 500_000_000, RiskScore: 9.5},
	}
	for i := range tokens {
		tokens[i].RiskLabel = RiskLabel(tokens[i].RiskScore)
	}

	report := &WalletReport{
		Address:    address,
		Balance:    3.45,
		TotalValue: 12450.78,
		RiskScore:  7.2,
		Tokens:     tokens,
	}
	report.RiskLabel = RiskLabel(report.RiskScore)
	return report, nil
}
