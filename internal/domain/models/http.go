package models

// WatchlistRequest filters the watchlist endpoint.
type WatchlistRequest struct {
	Limit int    `query:"limit" default:"20" validate:"gte=1,lte=100"`
	State string `query:"state" default:"any" validate:"oneof=any EXECUTE WAIT"`
}

// WatchlistEntry is the API view of one monitored asset.
type WatchlistEntry struct {
	AssetID     string         `json:"asset_id"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Regime      string         `json:"regime"`
	Total       int            `json:"total"`
	Technical   int            `json:"technical"`
	Fundamental int            `json:"fundamental"`
	State       ExecutionState `json:"state"`
	EntryTarget float64        `json:"entry_target,omitempty"`
	Label       string         `json:"label"`
	Headline    string         `json:"headline,omitempty"`
}

// StatusResponse reports pipeline state for the status endpoint.
type StatusResponse struct {
	Phase      string   `json:"phase"`
	PassCount  int      `json:"pass_count"`
	Watchlist  []string `json:"watchlist"`
	LastUpdate string   `json:"last_update,omitempty"`
}
