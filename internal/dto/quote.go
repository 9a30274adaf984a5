package dto

import "time"

// QuoteQuery holds a comma separated list of ticker symbols
type QuoteQuery struct {
	Symbols string `query:"symbols" validate:"required,max=200"`
}

// Quote is the latest market price of a symbol
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
}

// QuoteResponse maps symbols to prices. Symbols the feed did not return are
// absent.
type QuoteResponse struct {
	Quotes map[string]float64 `json:"quotes"`
}

// YahooQuoteResponse is the upstream quote feed payload
type YahooQuoteResponse struct {
	QuoteResponse struct {
		Result []YahooQuote `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// YahooQuote is one entry of the upstream result list. Price is a pointer so
// entries without a numeric price can be dropped.
type YahooQuote struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}
