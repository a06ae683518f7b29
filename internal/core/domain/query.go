package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ResultType enumerates the aggregate result shapes the proxy will forward.
type ResultType string

const (
	ResultTypeCount             ResultType = "COUNT"
	ResultTypeCrossCount        ResultType = "CROSS_COUNT"
	ResultTypeInfoColumnListing ResultType = "INFO_COLUMN_LISTING"
)

// ValidResultType reports whether s names a recognized result type.
func ValidResultType(s string) bool {
	switch ResultType(s) {
	case ResultTypeCount, ResultTypeCrossCount, ResultTypeInfoColumnListing:
		return true
	}
	return false
}

// QueryRequest is the inbound envelope for every resource operation. Query is
// kept opaque: the gateway only inspects the expectedResultType discriminator
// and forwards the rest untouched.
type QueryRequest struct {
	ResourceUUID  uuid.UUID       `json:"resourceUUID"`
	Query         json.RawMessage `json:"query,omitempty"`
	ResultRequest map[string]any  `json:"resultRequest,omitempty"`
}

// ExpectedResultType extracts the expectedResultType discriminator from the
// opaque query payload. ok is false when the payload is not a JSON object or
// the field is absent.
func (r *QueryRequest) ExpectedResultType() (string, bool) {
	if len(r.Query) == 0 {
		return "", false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(r.Query, &obj); err != nil {
		return "", false
	}
	raw, present := obj["expectedResultType"]
	if !present {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// QueryResult is the proxy's answer to a sync query: the upstream body after
// the obfuscation policy has been applied.
type QueryResult struct {
	Body        []byte
	ContentType string
}
