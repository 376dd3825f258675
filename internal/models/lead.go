package models

import "time"

// ValuationLead is one completed questionnaire, flattened for persistence.
// Rows are append-only: a lead is written once when the conversation
// completes and never updated.
type ValuationLead struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserPhone     string    `json:"user_phone" gorm:"index"`
	AppStoreLink  string    `json:"app_store_link"`
	PlayStoreLink string    `json:"play_store_link"`
	Revenue       string    `json:"revenue"`
	MarketingCost string    `json:"marketing_cost"`
	ServerCost    string    `json:"server_cost"`
	Profit        string    `json:"profit"`
	RevenueType   string    `json:"revenue_type"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	ValuationMin  float64   `json:"valuation_min"`
	ValuationMax  float64   `json:"valuation_max"`
	ValuationMid  float64   `json:"valuation_mid"`
	CreatedAt     time.Time `json:"created_at"`
}

// Answer keys used across the question flow, the lead record and the
// spreadsheet columns.
const (
	AnswerAppStoreLink  = "appStoreLink"
	AnswerPlayStoreLink = "playStoreLink"
	AnswerRevenue       = "revenue"
	AnswerMarketingCost = "marketingCost"
	AnswerServerCost    = "serverCost"
	AnswerProfit        = "profit"
	AnswerRevenueType   = "revenueType"
	AnswerEmail         = "email"
	AnswerPhone         = "phone"
)
