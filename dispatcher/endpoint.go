package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// Endpoint executes a single write command against the backend. A nil
// return means the backend accepted the write. Errors are one of:
//   - *BusinessRejection: accepted transport, rejected semantics.
//   - *WriteError: terminal transport failure, outcome unknown.
//   - anything else: transient, safe to retry.
type Endpoint interface {
	Execute(ctx context.Context, cmd *Command) error
}

/*
	HTTPEndpoint posts commands as JSON to the write script. The script
	always answers 200 with {"status": "ok"} or {"status": "error",
	"error": ..., "code": ...}; a business rejection is a transport
	success. Non-2xx statuses only show up when the script itself is
	broken or the request never reached it.
*/
type HTTPEndpoint struct {
	Url   string
	Token string

	client *http.Client
}

func NewHTTPEndpoint(url string, token string) *HTTPEndpoint {
	return &HTTPEndpoint{Url: url, Token: token, client: &http.Client{}}
}

type endpointResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

func (e *HTTPEndpoint) Execute(ctx context.Context, cmd *Command) error {
	payload := map[string]string{
		"action":     cmd.Action,
		"client_ref": cmd.Ref,
	}
	for k, v := range cmd.Fields {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &WriteError{Action: cmd.Action, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.Url, bytes.NewReader(body))
	if err != nil {
		return &WriteError{Action: cmd.Action, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if e.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token)
	}

	res, err := e.client.Do(req)
	if err != nil {
		// Connection level failure, worth another attempt.
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		Logger.Log.Errorf("write endpoint returned %d for action %s", res.StatusCode, cmd.Action)
		return fmt.Errorf("endpoint status %d", res.StatusCode)
	}
	if res.StatusCode >= 300 {
		Logger.Log.Errorf("write endpoint rejected request with %d for action %s", res.StatusCode, cmd.Action)
		return &WriteError{Action: cmd.Action, StatusCode: res.StatusCode,
			Err: fmt.Errorf("endpoint status %d", res.StatusCode)}
	}

	raw, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return &WriteError{Action: cmd.Action, StatusCode: res.StatusCode, Err: err}
	}
	parsed := endpointResponse{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		Logger.Log.Errorf("unparseable endpoint response for action %s: %s", cmd.Action, string(raw))
		return &WriteError{Action: cmd.Action, StatusCode: res.StatusCode, Err: err}
	}
	if parsed.Status == "error" {
		return &BusinessRejection{Action: cmd.Action, Reason: parsed.Error, Code: parsed.Code}
	}
	return nil
}
