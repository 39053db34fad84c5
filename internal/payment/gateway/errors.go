package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	apperrors "vitashop/internal/errors"
)

var (
	ipWord        = regexp.MustCompile(`(?i)\bip\b`)
	ipAllowPhrase = regexp.MustCompile(`(?i)whitelist|allowlist|allow list|not allowed|not authorized`)
)

type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

type errorItem struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// errorMessages collects every human readable message from an error body.
// The gateway sends errors either as a list of objects or as a map from
// field name to a list of strings.
func errorMessages(body []byte) []string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		text := strings.TrimSpace(string(body))
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var messages []string

	var list []errorItem
	if err := json.Unmarshal(eb.Errors, &list); err == nil {
		for _, e := range list {
			if e.Message == "" {
				continue
			}
			if e.Field != "" {
				messages = append(messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
				continue
			}
			messages = append(messages, e.Message)
		}
	}

	var byField map[string][]string
	if err := json.Unmarshal(eb.Errors, &byField); err == nil {
		fields := make([]string, 0, len(byField))
		for f := range byField {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			for _, m := range byField[f] {
				messages = append(messages, fmt.Sprintf("%s: %s", f, m))
			}
		}
	}

	if eb.Message != "" {
		messages = append([]string{eb.Message}, messages...)
	}
	return messages
}

func isIPNotAllowed(messages []string) bool {
	for _, m := range messages {
		if ipWord.MatchString(m) && ipAllowPhrase.MatchString(m) {
			return true
		}
	}
	return false
}

// responseError turns a non-2xx answer into a GatewayError.
func responseError(statusCode int, body []byte) *apperrors.GatewayError {
	messages := errorMessages(body)

	if isIPNotAllowed(messages) {
		return &apperrors.GatewayError{
			Kind:       apperrors.GatewayIPNotAllowed,
			Message:    "this server's IP address is not allow-listed at the payment gateway; add it in the gateway dashboard",
			StatusCode: statusCode,
		}
	}

	message := strings.Join(messages, "; ")
	if message == "" {
		message = fmt.Sprintf("gateway answered with status %d", statusCode)
	}
	return &apperrors.GatewayError{
		Kind:       apperrors.GatewayRejected,
		Message:    message,
		StatusCode: statusCode,
	}
}
