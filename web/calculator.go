package web

import (
	"math"
	"net/url"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CalculatorInput holds the figures a visitor can adjust.
type CalculatorInput struct {
	HourlyRevenue float64 `yaml:"hourly_revenue"`
	OutageMinutes float64 `yaml:"outage_minutes"`
	MonthlyFee    float64 `yaml:"monthly_fee"`
	CreditPercent float64 `yaml:"credit_percent"`
}

// Estimate is the calculator output.
type Estimate struct {
	Input        CalculatorInput
	DowntimeCost float64
	CreditOwed   float64
}

// Estimate computes lost revenue for the outage and the SLA credit owed.
func (in CalculatorInput) Estimate() Estimate {
	return Estimate{
		Input:        in,
		DowntimeCost: in.HourlyRevenue * in.OutageMinutes / 60,
		CreditOwed:   in.MonthlyFee * in.CreditPercent / 100,
	}
}

// maxQueryValue bounds every calculator figure a visitor can supply.
const maxQueryValue = 1e9

// CalculatorInputFromQuery overlays query parameters on defaults. Missing,
// malformed, negative, non-finite or out-of-range values keep the default;
// credit is capped at 100%.
func CalculatorInputFromQuery(q url.Values, defaults CalculatorInput) CalculatorInput {
	in := defaults
	in.HourlyRevenue = queryFloat(q, "revenue", in.HourlyRevenue)
	in.OutageMinutes = queryFloat(q, "minutes", in.OutageMinutes)
	in.MonthlyFee = queryFloat(q, "fee", in.MonthlyFee)
	in.CreditPercent = math.Min(queryFloat(q, "credit", in.CreditPercent), 100)
	return in
}

func queryFloat(q url.Values, key string, fallback float64) float64 {
	raw := q.Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > maxQueryValue {
		return fallback
	}
	return v
}

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatMoney renders whole dollars with grouping, e.g. "$19,583".
func FormatMoney(v float64) string {
	return moneyPrinter.Sprintf("$%.0f", math.Round(v))
}
