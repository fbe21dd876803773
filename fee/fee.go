// Package fee resolves the sat/byte rate of a withdrawal, either from the caller or from a network
// estimate.
package fee

import (
	"context"
	"strconv"
	"strings"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/ulogger"
)

// Estimator returns the current network fee rate in sat/byte.
type Estimator interface {
	EstimateFeeRate(ctx context.Context) (uint64, error)
}

type Resolver struct {
	logger     ulogger.Logger
	estimator  Estimator
	maxFeeRate uint64
}

// NewResolver returns a resolver that caps estimated rates at maxFeeRate. Zero disables the cap.
func NewResolver(logger ulogger.Logger, estimator Estimator, maxFeeRate uint64) *Resolver {
	return &Resolver{
		logger:     logger,
		estimator:  estimator,
		maxFeeRate: maxFeeRate,
	}
}

// Resolve returns explicitRate when it is given, which must be a positive integer. Otherwise the
// estimator is asked exactly once; there is no retry. Explicit rates are never capped.
func (r *Resolver) Resolve(ctx context.Context, explicitRate string) (uint64, error) {
	explicitRate = strings.TrimSpace(explicitRate)

	if explicitRate != "" {
		rate, err := strconv.ParseUint(explicitRate, 10, 64)
		if err != nil || rate == 0 {
			return 0, errors.NewInvalidFeeRateError("fee rate %q is not a positive integer", explicitRate)
		}

		return rate, nil
	}

	rate, err := r.estimator.EstimateFeeRate(ctx)
	if err != nil {
		return 0, errors.NewFeeEstimationError("failed to estimate fee rate", err)
	}

	if rate == 0 {
		return 0, errors.NewFeeEstimationError("fee estimate returned zero")
	}

	if r.maxFeeRate > 0 && rate > r.maxFeeRate {
		r.logger.Warnf("[Fee] estimated rate %d sat/byte capped at %d", rate, r.maxFeeRate)
		rate = r.maxFeeRate
	}

	return rate, nil
}
