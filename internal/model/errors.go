package model

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPError wraps a non-2xx status returned by an upstream API.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Error kinds. Match with errors.Is against any error returned by a Harvester.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrUpstream      = errors.New("upstream error")
	ErrParse         = errors.New("parse error")
)

// User-facing messages.
const (
	MsgMissingCriteria = "Please select both a province and a university."
	MsgMissingAPIKey   = "API key is required. Enter one or set it in the config or environment."
	MsgInvalidAPIKey   = "Your API key is not valid. Please check it and try again."
	MsgUpstreamFailure = "Failed to fetch data from the model API. Check your API key and network, and see the log for details."
)

// HarvestError is returned by harvest operations. Kind is one of the Err* sentinels,
// Message is safe to show to the user, and Err is the underlying cause.
type HarvestError struct {
	Kind    error
	Message string
	Err     error
}

func (e *HarvestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *HarvestError) Unwrap() error {
	return e.Err
}

// Is matches the error kind so callers can write errors.Is(err, ErrParse).
func (e *HarvestError) Is(target error) bool {
	return target == e.Kind
}

// UserMessage returns the message to display for err. Errors that carry no
// user-facing message collapse to the generic upstream failure text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var he *HarvestError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return MsgUpstreamFailure
}

// UpstreamFailure classifies a transport error into the invalid-key message or
// the generic failure message.
func UpstreamFailure(err error) *HarvestError {
	msg := MsgUpstreamFailure
	if mentionsInvalidKey(err) {
		msg = MsgInvalidAPIKey
	}
	return &HarvestError{Kind: ErrUpstream, Message: msg, Err: err}
}

func mentionsInvalidKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	hasKey := strings.Contains(s, "api key") || strings.Contains(s, "api_key")
	hasInvalid := strings.Contains(s, "invalid") || strings.Contains(s, "not valid")
	return hasKey && hasInvalid
}
