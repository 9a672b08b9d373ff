package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed response ends up in an error.
const maxErrorBody = 512

// doJSON sends req with client and decodes a 2xx JSON response into out.
// Non-2xx responses become *Error carrying the status code and the start
// of the body.
func doJSON(client *http.Client, name, op string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return &Error{Provider: name, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Provider:   name,
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Provider: name, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
