// Package client wraps authorized HTTP calls to the AssetFlow API for the
// CLI commands.
package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/assetflow/assetflow/cmd/cli/config"
)

// Do performs an authorized request against the API and returns the body.
// Non-2xx responses become errors carrying the response body.
func Do(method, path string, body []byte) ([]byte, error) {
	token, err := config.ReadToken()
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, config.APIURL()+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
