package chainfile_dto

// CatalogRaw is the document layout of a chain catalog file.
type CatalogRaw struct {
	Chains []ChainRaw `json:"chains" yaml:"chains"`
}

// ChainRaw represents one chain entry as written in the catalog.
type ChainRaw struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	ChainID       int64  `json:"chainId" yaml:"chainId"`
	GasLimit      uint64 `json:"gasLimit" yaml:"gasLimit"`
	Confirmations int    `json:"confirmations" yaml:"confirmations"`
	BridgeAddress string `json:"bridgeAddress,omitempty" yaml:"bridgeAddress,omitempty"`
}
