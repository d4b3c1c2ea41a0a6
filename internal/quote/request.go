package quote

import (
	"fmt"
	"strings"

	"github.com/hydrolab/quoteflow/pkg/utils"
)

// Field names recognized in the inbound issue payload.
const (
	FieldClientName      = "clientName"
	FieldPOCName         = "pocName"
	FieldTitle           = "title"
	FieldClientCode      = "clientCode"
	FieldIssueKey        = "key"
	FieldShippingAddress = "shippingAddress"
	FieldAddress         = "address"
)

// Request is the field bag carried by a quote-request issue webhook.
// Values are normalized to strings on construction; the payload mixes
// strings and numbers depending on how the issue form was filled in.
type Request struct {
	fields map[string]string
}

// NewRequest builds a Request from the decoded `issue` JSON object.
func NewRequest(raw map[string]interface{}) *Request {
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64:
			// JSON numbers decode as float64; keep integral values clean
			if val == float64(int64(val)) {
				fields[k] = fmt.Sprintf("%d", int64(val))
			} else {
				fields[k] = fmt.Sprintf("%v", val)
			}
		case bool:
			fields[k] = fmt.Sprintf("%t", val)
		case nil:
			// treat explicit nulls as absent
		default:
			fields[k] = fmt.Sprintf("%v", val)
		}
	}
	return &Request{fields: fields}
}

// Field returns the raw value for name, or "" when absent.
func (r *Request) Field(name string) string {
	return r.fields[name]
}

// Has reports whether name is present with a non-empty value.
func (r *Request) Has(name string) bool {
	return strings.TrimSpace(r.fields[name]) != ""
}

// ClientName returns the client name, or "" when the field is absent.
func (r *Request) ClientName() string {
	return r.fields[FieldClientName]
}

// IssueKey returns the originating issue key, or "" when absent.
func (r *Request) IssueKey() string {
	return r.fields[FieldIssueKey]
}

// BaseFilename derives the artifact filename stem {clientName}_{issueKey}.
// Missing fields fall back to explicit placeholders so the artifacts are
// still traceable.
func (r *Request) BaseFilename() string {
	name := utils.SanitizeFilename(r.ClientName())
	if name == "" {
		name = "Unknown_Client"
	}
	key := utils.SanitizeFilename(r.IssueKey())
	if key == "" {
		key = "Unknown_Key"
	}
	return name + "_" + key
}
