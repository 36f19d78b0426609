package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"ledger/internal/core"
)

var ErrMalformedPayload = errors.New("malformed ledger payload")

// record is the persisted shape of an Entry. Field names match payloads
// written by earlier versions of the app and must not change.
type record struct {
	ID          string      `json:"id"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Type        core.Kind   `json:"type"`
}

// Encode serializes the collection as a JSON array. Amounts are written as
// JSON numbers using their exact decimal representation.
func Encode(entries []core.Entry) (string, error) {
	recs := make([]record, len(entries))
	for i, e := range entries {
		recs[i] = record{
			ID:          e.ID,
			Amount:      json.Number(e.Amount.String()),
			Description: e.Description,
			Category:    e.Category,
			Date:        e.Date,
			Type:        e.Kind,
		}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encode ledger: %w", err)
	}
	return string(b), nil
}

// Decode parses a payload produced by Encode. Amounts may be JSON numbers or
// numeric strings. Every failure wraps ErrMalformedPayload.
func Decode(payload string) ([]core.Entry, error) {
	var recs []record
	if err := json.Unmarshal([]byte(payload), &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if recs == nil {
		return nil, fmt.Errorf("%w: not an array", ErrMalformedPayload)
	}

	entries := make([]core.Entry, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrMalformedPayload, i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedPayload, r.ID)
		}
		seen[r.ID] = struct{}{}

		if !r.Type.IsValid() {
			return nil, fmt.Errorf("%w: entry %q has kind %q", ErrMalformedPayload, r.ID, r.Type)
		}
		amount, err := core.ParseAmount(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q amount: %v", ErrMalformedPayload, r.ID, err)
		}

		entries = append(entries, core.Entry{
			ID:          r.ID,
			Amount:      amount,
			Description: r.Description,
			Category:    r.Category,
			Date:        r.Date,
			Kind:        r.Type,
		})
	}
	return entries, nil
}
