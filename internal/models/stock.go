package models

type Stock struct {
	ID          int64   `json:"id" db:"id"`
	Symbol      string  `json:"symbol" db:"symbol"`
	CompanyName string  `json:"company_name" db:"company_name"`
	Sector      *string `json:"sector" db:"sector"`
	Exchange    string  `json:"exchange" db:"exchange"`
}

type StockDetail struct {
	Stock
	LastPrice      float64  `json:"last_price" db:"last_price"`
	DayChangePct   float64  `json:"day_change_pct" db:"day_change_pct"`
	MarketCap      float64  `json:"market_cap" db:"market_cap"`
	PERatio        *float64 `json:"pe_ratio" db:"pe_ratio"`
	FiftyTwoWkHigh float64  `json:"fifty_two_wk_high" db:"fifty_two_wk_high"`
	FiftyTwoWkLow  float64  `json:"fifty_two_wk_low" db:"fifty_two_wk_low"`
}
