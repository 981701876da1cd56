package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	cerr "github.com/tarnlab/tarn/cmd/tarn/errors"
	apierr "github.com/tarnlab/tarn/pkg/api/types/errors"
)

// MessageFor titles error messages per HTTP status code range.
type MessageFor map[StatusCodeRange]string

// unmarshalJsonResponse decodes a JSON response body into v.
//
// A 4xx/5xx response becomes a cui error titled by messageFor, carrying
// whatever the server said as detail.
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			message := fmt.Sprintf("unexpected error: %s (status code = %d)", err.Error(), resp.StatusCode)
			return cerr.NewCuiError(message, cerr.WithCause(err))
		}
		return nil
	}

	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cerr.NewCuiError(
			fmt.Sprintf("%s\ncannot read server message: %s", message, err.Error()),
			cerr.WithCause(err),
		)
	}

	return cerr.NewCuiError(
		message,
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + parseErrorMessage(body), nil
		}),
	)
}

func jsonUnmarshal[T any](buf []byte) (*T, error) {
	ret := new(T)
	if err := json.Unmarshal(buf, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// unmarshalStreamResponse passes a streaming response body through, or
// turns a 4xx/5xx response into a cui error like unmarshalJsonResponse.
func unmarshalStreamResponse(resp *http.Response, messageFor MessageFor) (io.ReadCloser, error) {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		return resp.Body, nil
	}

	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerr.NewCuiError(
			fmt.Sprintf("%s\ncannot read server message: %s", message, err.Error()),
			cerr.WithCause(err),
		)
	}

	return nil, cerr.NewCuiError(
		message,
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + parseErrorMessage(body), nil
		}),
	)
}

func unmarshalResponseDiscardingPayload(resp *http.Response, messageFor MessageFor) error {
	rc, err := unmarshalStreamResponse(resp, messageFor)
	if rc != nil {
		io.ReadAll(rc)
		rc.Close()
	}
	return err
}

// parseErrorMessage renders a server error body: the platform's error
// shape when it parses as one, the raw body otherwise.
func parseErrorMessage(body []byte) string {
	if eresp, err := jsonUnmarshal[apierr.ErrorResponse](body); err == nil && eresp.Message.Reason != "" {
		return eresp.Message.String()
	}

	if msg, err := jsonUnmarshal[struct {
		Message *string `json:"message"`
	}](body); err == nil && msg.Message != nil {
		return *msg.Message
	}

	return string(body)
}
