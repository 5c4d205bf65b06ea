package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/9seconds/isitwindy/windlib"
)

func send(ctx context.Context, client windlib.HTTPClient, endpoint, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	return resp, nil
}

// fetch streams a body of GET response into dst.
func fetch(ctx context.Context, client windlib.HTTPClient, endpoint string, dst io.Writer) error {
	resp, err := send(ctx, client, endpoint, "")
	if err != nil {
		return err
	}

	defer drain(resp.Body)

	if _, err := io.Copy(dst, bufio.NewReader(resp.Body)); err != nil {
		return fmt.Errorf("cannot read a response: %w", err)
	}

	return nil
}

func fetchJSON(ctx context.Context, client windlib.HTTPClient, endpoint, accept string, target interface{}) error {
	resp, err := send(ctx, client, endpoint, accept)
	if err != nil {
		return err
	}

	defer drain(resp.Body)

	if err := json.NewDecoder(bufio.NewReader(resp.Body)).Decode(target); err != nil {
		return fmt.Errorf("cannot parse a response: %w", err)
	}

	return nil
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, body) // nolint: errcheck
	body.Close()
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', 4, 64)
}
