package models

// Raw daily business records as exported by the site's analytics warehouse.
// One record per calendar date per domain; dates need not be contiguous.

// RevenueRecord carries one day of commerce totals.
type RevenueRecord struct {
	Date        string  `json:"date"`
	Revenue     float64 `json:"revenue"`
	GrossMargin float64 `json:"grossMargin"`
	Refunds     float64 `json:"refunds"`
}

// LeadRecord carries one day of demand-side counts.
type LeadRecord struct {
	Date          string  `json:"date"`
	Leads         float64 `json:"leads"`
	QuoteRequests float64 `json:"quoteRequests"`
}

// CustomerRecord carries one day of customer behavior aggregates.
type CustomerRecord struct {
	Date             string             `json:"date"`
	Reorders         float64            `json:"reorders"`
	ReorderInterval  float64            `json:"reorderInterval"` // days since previous order, 0 when unknown
	TopCustomerShare float64            `json:"topCustomerShare"`
	PersonaMix       map[string]float64 `json:"personaMix"`
	ProductMix       map[string]float64 `json:"productMix"`
}

// OperationalRecord carries one day of fulfillment performance.
type OperationalRecord struct {
	Date             string  `json:"date"`
	SLAPromiseMet    float64 `json:"slaPromiseMet"`    // fraction of promises met, [0,1]
	OnTimePercentage float64 `json:"onTimePercentage"` // OTIF, [0,100]
	RushShare        float64 `json:"rushShare"`        // rush/expedite share of shipments
	FreightShare     float64 `json:"freightShare"`
	ReceivablesAging float64 `json:"receivablesAging"` // weighted aging in days
}

// EngagementRecord carries one day of site/e-mail engagement counts.
type EngagementRecord struct {
	Date         string  `json:"date"`
	Sessions     float64 `json:"sessions"`
	EmailOpens   float64 `json:"emailOpens"`
	PortalLogins float64 `json:"portalLogins"`
}

// RawRecords bundles the five domain streams for one lookback window.
type RawRecords struct {
	Revenue     []RevenueRecord     `json:"revenue"`
	Leads       []LeadRecord        `json:"leads"`
	Customers   []CustomerRecord    `json:"customers"`
	Operational []OperationalRecord `json:"operational"`
	Engagement  []EngagementRecord  `json:"engagement"`
}
