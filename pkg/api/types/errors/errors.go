// Package errors holds the error body the platform API returns.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

// ErrorMessage explains a refused request. Reason is always there; Advice
// tells the caller what to do about it; See points at related material.
type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	See    string `json:"see,omitempty"`
	Cause  error  `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(b []byte) error {
	f := new(struct {
		Reason *string `json:"reason"`
		Advice *string `json:"advice"`
		See    *string `json:"see"`
	})
	if err := json.Unmarshal(b, f); err != nil {
		return err
	}

	if f.Reason == nil {
		return fmt.Errorf(`required field missing: "reason"`)
	}
	em.Reason = *f.Reason

	if f.Advice != nil {
		em.Advice = *f.Advice
	}
	if f.See != nil {
		em.See = *f.See
	}

	return nil
}

func (em ErrorMessage) Equal(o ErrorMessage) bool {
	return em.Reason == o.Reason && em.Advice == o.Advice && em.See == o.See
}

func (em ErrorMessage) String() string {
	lines := []string{em.Reason}
	if em.Advice != "" {
		lines = append(lines, em.Advice)
	}
	if em.See != "" {
		lines = append(lines, "see: "+em.See)
	}
	if em.Cause != nil {
		lines = append(lines, "caused by: "+em.Cause.Error())
	}
	return strings.Join(lines, "\n")
}

func (em ErrorMessage) Error() string {
	return em.String()
}

func (em ErrorMessage) Unwrap() error {
	return em.Cause
}
