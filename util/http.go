package util

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/ordishs/gocore"
)

var (
	// httpRequestTimeout applies to requests whose context carries no deadline
	httpRequestTimeout, _ = gocore.Config().GetInt("http_timeout", 60)
)

// DoHTTPRequest performs a GET, or a JSON POST when requestBody is given, and returns the
// response body. Transport failures map to network errors, non 2xx responses to service errors
// (not found errors for 404) carrying the response body.
func DoHTTPRequest(ctx context.Context, url string, requestBody ...[]byte) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, time.Duration(httpRequestTimeout)*time.Second)
		defer cancelFn()
	}

	method := http.MethodGet

	var body io.Reader

	if len(requestBody) > 0 && requestBody[0] != nil {
		method = http.MethodPost
		body = bytes.NewReader(requestBody[0])
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("failed to create http request", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError("http request [%s] failed to read body", url, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errFn := errors.NewServiceError
		if resp.StatusCode == http.StatusNotFound {
			errFn = errors.NewNotFoundError
		}

		return nil, errFn("http request [%s] returned status code [%d] with body [%s]", url, resp.StatusCode, string(b))
	}

	if resp.Header.Get("Content-Type") == "text/html" {
		return nil, errors.NewNetworkInvalidResponseError("http request [%s] returned HTML - assume bad URL", url)
	}

	return b, nil
}

func classifyTransportError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil {
		return errors.NewNetworkTimeoutError("http request [%s] timed out", url, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return errors.NewNetworkConnectionRefusedError("http request [%s] could not connect", url, err)
	}

	return errors.NewNetworkError("http request [%s] failed", url, err)
}
