package settings

import (
	"net/url"
	"time"

	btcchaincfg "github.com/btcsuite/btcd/chaincfg"
)

type Settings struct {
	ClientName     string
	DataFolder     string
	LogLevel       string
	LoggerType     string
	PrettyLogs     bool
	Network        string
	ChainCfgParams *btcchaincfg.Params
	HTTPTimeout    time.Duration

	WalletStore WalletStoreSettings
	Signer      SignerSettings
	Statechain  StatechainSettings
	Bitcoind    BitcoindSettings
	Fee         FeeSettings
	Withdrawal  WithdrawalSettings
	API         APISettings
	Activity    ActivitySettings
	Tracing     TracingSettings
	Postgres    PostgresSettings
}

type WalletStoreSettings struct {
	URL *url.URL
}

type SignerSettings struct {
	URL *url.URL
}

type StatechainSettings struct {
	URL *url.URL
}

type BitcoindSettings struct {
	RPC *url.URL
}

type FeeSettings struct {
	// MaxFeeRate caps estimated rates in sat/byte. Zero disables the cap.
	MaxFeeRate uint64
}

type WithdrawalSettings struct {
	ConfirmationTarget uint32
	BroadcastRetries   int
	BroadcastBackoff   time.Duration
}

type APISettings struct {
	HTTPListenAddress string
	EchoDebug         bool
	Profiler          bool
}

type ActivitySettings struct {
	KafkaURL *url.URL
}

type TracingSettings struct {
	Enabled      bool
	CollectorURL *url.URL
	SampleRate   float64
	ServiceName  string
}

type PostgresSettings struct {
	MaxIdleConns int
	MaxOpenConns int
}
