package main

import (
	"io"
	"net/url"

	"github.com/commerceblock/mercuryclient/activity"
	"github.com/commerceblock/mercuryclient/chaincfg"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/services/chain"
	"github.com/commerceblock/mercuryclient/services/signer"
	"github.com/commerceblock/mercuryclient/services/withdrawal"
	"github.com/commerceblock/mercuryclient/settings"
	walletstore "github.com/commerceblock/mercuryclient/stores/wallet"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// runtime holds what every command needs. The signer and chain clients are only built by commands
// that talk to them.
type runtime struct {
	logger     ulogger.Logger
	settings   *settings.Settings
	store      walletstore.Store
	publisher  activity.Publisher
	activities *activity.Log
	out        io.Writer
}

func newRuntime(c *cli.Context) (*runtime, error) {
	if path := c.Path("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, errors.NewConfigurationError("failed to load env file %s", path, err)
		}
	}

	tSettings := settings.NewSettings()

	if v := c.String("data-folder"); v != "" {
		tSettings.DataFolder = v
	}

	if v := c.String("network"); v != "" {
		params, err := chaincfg.GetChainParams(v)
		if err != nil {
			return nil, err
		}

		tSettings.Network = chaincfg.Normalise(v)
		tSettings.ChainCfgParams = params
	}

	if v := c.String("wallet-store"); v != "" {
		storeURL, err := url.Parse(v)
		if err != nil {
			return nil, errors.NewConfigurationError("invalid wallet store URL %q", v, err)
		}

		tSettings.WalletStore.URL = storeURL
	}

	logger := ulogger.New(tSettings.ClientName,
		ulogger.WithLevel(tSettings.LogLevel),
		ulogger.WithLoggerType(tSettings.LoggerType),
		ulogger.WithPretty(tSettings.PrettyLogs),
		ulogger.WithWriter(c.App.ErrWriter),
	)

	store, err := walletstore.NewStore(logger, tSettings.WalletStore.URL, tSettings)
	if err != nil {
		return nil, err
	}

	publisher, err := activity.NewPublisher(logger, tSettings.Activity.KafkaURL)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &runtime{
		logger:     logger,
		settings:   tSettings,
		store:      store,
		publisher:  publisher,
		activities: activity.New(logger, store, publisher),
		out:        c.App.Writer,
	}, nil
}

func (r *runtime) clients() (*signer.Client, *chain.Client, error) {
	signerClient, err := signer.NewClient(r.logger, r.settings)
	if err != nil {
		return nil, nil, err
	}

	chainClient, err := chain.NewClient(r.logger, r.settings)
	if err != nil {
		return nil, nil, err
	}

	return signerClient, chainClient, nil
}

func (r *runtime) withdrawal() (*withdrawal.Withdrawal, error) {
	signerClient, chainClient, err := r.clients()
	if err != nil {
		return nil, err
	}

	return withdrawal.New(r.logger, r.settings, r.store, signerClient, chainClient, r.activities), nil
}

func (r *runtime) Close() {
	if err := r.publisher.Close(); err != nil {
		r.logger.Warnf("failed to close activity publisher: %v", err)
	}

	if err := r.store.Close(); err != nil {
		r.logger.Warnf("failed to close wallet store: %v", err)
	}
}

func (r *runtime) print(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.NewProcessingError("failed to encode output", err)
	}

	_, err = r.out.Write(append(b, '\n'))

	return err
}
