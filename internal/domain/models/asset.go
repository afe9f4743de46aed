package models

import "time"

// ExecutionState signals whether an asset is actionable on the current tick.
type ExecutionState string

const (
	StateExecute ExecutionState = "EXECUTE"
	StateWait    ExecutionState = "WAIT"
)

// Regime classifies the structural market condition of an asset.
type Regime string

const (
	RegimeConfirmedBullish Regime = "Confirmed Bullish Trend"
	RegimeSafeFlat         Regime = "Safe Flat Market"
	RegimeSqueeze          Regime = "Consolidation (Squeeze)"
	RegimePullback         Regime = "Healthy Pullback within Bullish Trend"
	RegimeYoungUptrend     Regime = "Young Uptrend (Caution)"
	RegimeBearish          Regime = "Bearish Trend (Do Not Buy)"
	RegimeDangerousFlat    Regime = "Dangerous Flat Market (Do Not Trade)"
	RegimeTransitional     Regime = "Transitional Market"
)

// Bullish reports whether the regime permits middle-band entries.
func (r Regime) Bullish() bool {
	switch r {
	case RegimeConfirmedBullish, RegimePullback, RegimeYoungUptrend:
		return true
	}
	return false
}

// AssetSnapshot is one row of the ranked market universe.
type AssetSnapshot struct {
	ID        string
	Symbol    string
	Name      string
	Price     float64
	Volume    float64
	MarketCap float64
	Change24h float64
	Change7d  float64
	// HasChange24h and HasChange7d distinguish a true zero from a
	// missing field.
	HasChange24h bool
	HasChange7d  bool
}

// LiveQuote is a lightweight price/volume reading for a monitored asset.
type LiveQuote struct {
	ID     string
	Price  float64
	Volume float64
}

// Candidate is an asset that passed a funnel rule.
type Candidate struct {
	ID       string
	Name     string
	Score    float64
	Rule     string
	RSI      float64
	Combined float64
}

// PricePoint is one timestamped close observation.
type PricePoint struct {
	Timestamp int64
	Value     float64
}

// HistoricalSeries holds aligned raw market history for one asset.
type HistoricalSeries struct {
	Prices  []PricePoint
	Volumes []PricePoint
}

// FundamentalProfile holds developer and community signals for an asset.
type FundamentalProfile struct {
	DevActive        bool
	TwitterFollowers int64
	FollowersKnown   bool
}

// BollingerBands holds one Bollinger reading.
type BollingerBands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// AnalysisRecord is the immutable deep-analysis result for one asset.
type AnalysisRecord struct {
	AssetID         string
	Name            string
	Fundamental     int
	DevStatus       string
	CommunityStatus string
	PatternStatus   string
	Regime          Regime
	Support         float64
	Resistance      float64
	RSI             float64
	MACDValue       float64
	MACDSignal      float64
	VolumeMA        float64
	Bands           BollingerBands
	Headline        string
}

// TickEvaluation is the outcome of scoring one asset on one monitor tick.
type TickEvaluation struct {
	AssetID     string
	Name        string
	Price       float64
	Volume      float64
	Regime      Regime
	Technical   int
	Fundamental int
	Total       int
	State       ExecutionState
	EntryTarget float64
	Label       string
	Breakdown   map[string]int
	At          time.Time
}

// AlertEvent is the serialized form of a dispatched alert.
type AlertEvent struct {
	AssetID     string    `json:"asset_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Regime      string    `json:"regime"`
	Total       int       `json:"total"`
	Technical   int       `json:"technical"`
	Fundamental int       `json:"fundamental"`
	EntryTarget float64   `json:"entry_target"`
	Label       string    `json:"label"`
	At          time.Time `json:"at"`
}
