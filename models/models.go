package models

// ScreenContext is the structured result of analyzing a screenshot with a
// vision-capable model. It drives the web research decision downstream.
type ScreenContext struct {
	Description      string `json:"description"`
	HasBrand         bool   `json:"has_brand_or_product"`
	BrandName        string `json:"brand_name,omitempty"`
	HasPrice         bool   `json:"has_price"`
	PriceShown       string `json:"price_shown,omitempty"`
	NeedsWebResearch bool   `json:"needs_web_research"`
	SearchQuery      string `json:"search_query,omitempty"`
	WhyResearch      string `json:"why_research,omitempty"`
}
