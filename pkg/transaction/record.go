// Package transaction turns a validated form into an immutable record and
// keeps the append-only history of submitted records.
package transaction

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

// Record is the persisted artifact of a successful submission.
type Record struct {
	ID           string            `json:"id"`
	ServiceName  string            `json:"serviceName"`
	ProviderName string            `json:"providerName"`
	FormData     map[string]string `json:"formData"`
}

// Keys returns the formData keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.FormData))
	for k := range r.FormData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot is the state a record is built from. Values are keyed by
// schema.FieldKey.
type Snapshot struct {
	Service  schema.Service
	Provider schema.Provider
	Values   map[string]string
}

// Build assembles a Record from snapshot. It does not re-validate: callers
// must have validated every field first. Unnamed fields are dropped.
func Build(snapshot Snapshot, newID IDFunc) Record {
	if newID == nil {
		newID = NewID
	}
	data := make(map[string]string, len(snapshot.Provider.Fields))
	for i, field := range snapshot.Provider.Fields {
		if !field.Named() {
			continue
		}
		key := schema.FieldKey(i, field)
		data[key] = validation.Normalize(snapshot.Values[key])
	}
	return Record{
		ID:           newID(),
		ServiceName:  snapshot.Service.Name,
		ProviderName: snapshot.Provider.Name,
		FormData:     data,
	}
}

// Detail renders record as indented JSON for the history detail view.
func Detail(record Record) (string, error) {
	if record.FormData == nil {
		record.FormData = map[string]string{}
	}
	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("transaction: encode detail: %w", err)
	}
	return string(out), nil
}
