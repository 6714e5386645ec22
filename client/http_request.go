// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/builtin/reverts"
)

// ErrNot200Status is wrapped by every StatusError.
var ErrNot200Status = errors.New("not 200 status code")

// StatusError is returned when the server answers with a non 200 status.
// Kind is set when the server rejected the operation with a revert.
type StatusError struct {
	Code    int
	Kind    reverts.Kind
	Message string
}

func (e *StatusError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("http error - Status Code %d - %s: %s", e.Code, e.Kind, e.Message)
	}
	return fmt.Sprintf("http error - Status Code %d - %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrNot200Status }

// KindOf extracts the revert kind carried by err, if any.
func KindOf(err error) (reverts.Kind, bool) {
	var se *StatusError
	if errors.As(err, &se) && se.Kind != "" {
		return se.Kind, true
	}
	return "", false
}

func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Kind:    reverts.Kind(resp.Header.Get(utils.RevertHeader)),
			Message: strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(http.MethodPost, url, bytes.NewBuffer(data))
}

func getJSON[T any](c *Client, path, what string) (*T, error) {
	body, err := c.httpGET(c.url + path)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve %s - %w", what, err)
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &out, nil
}

func postJSON[T any](c *Client, path string, payload any, what string) (*T, error) {
	body, err := c.httpPOST(c.url+path, payload)
	if err != nil {
		return nil, fmt.Errorf("unable to request %s - %w", what, err)
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &out, nil
}
