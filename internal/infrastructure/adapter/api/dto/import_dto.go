package dto

// SyncRequest selects the wallet addresses to pull from the block explorers.
// Empty addresses skip that chain.
type SyncRequest struct {
	EthAddress  string `json:"ethAddress"`
	BaseAddress string `json:"baseAddress"`
}

// ImportResponse reports how many transactions an import produced
type ImportResponse struct {
	Imported int `json:"imported"`
}
