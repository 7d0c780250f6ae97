package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

// 网络环境
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// 交易所注册键
const (
	DexDydx        = "dydx"
	DexHyperliquid = "hyperliquid"
	DexPerp        = "perp"
	DexSimulated   = "simulated"
)
