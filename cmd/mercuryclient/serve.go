package main

import (
	"context"

	"github.com/commerceblock/mercuryclient/services/api"
	"github.com/commerceblock/mercuryclient/services/withdrawal"
	"github.com/commerceblock/mercuryclient/util/health"
	"github.com/commerceblock/mercuryclient/util/servicemanager"
	"github.com/commerceblock/mercuryclient/util/tracing"
	"github.com/urfave/cli/v2"
)

func serveAction(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	if v := c.String("listen"); v != "" {
		r.settings.API.HTTPListenAddress = v
	}

	if r.settings.Tracing.Enabled {
		if err = tracing.InitTracer(r.settings); err != nil {
			return err
		}

		defer func() {
			if err := tracing.ShutdownTracer(context.Background()); err != nil {
				r.logger.Warnf("failed to shut down tracer: %v", err)
			}
		}()
	}

	signerClient, chainClient, err := r.clients()
	if err != nil {
		return err
	}

	w := withdrawal.New(r.logger, r.settings, r.store, signerClient, chainClient, r.activities)

	server := api.New(r.logger, r.settings, r.store, w, r.activities,
		health.Check{Name: "Signer", Check: signerClient.Health},
		health.Check{Name: "Chain", Check: chainClient.Health},
	)

	sm := servicemanager.NewServiceManager(c.Context, r.logger)

	if err = sm.AddService("API", server); err != nil {
		return err
	}

	r.logger.Infof("mercuryclient %s serving %s wallets on %s", version, r.settings.Network, r.settings.API.HTTPListenAddress)

	return sm.Wait()
}
