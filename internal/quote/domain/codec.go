package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	pricingdomain "github.com/ifgsrl/gestionale/internal/pricing/domain"
)

// Discount keys of the general data. The first spelling is written; the
// others are accepted when reading older documents.
var (
	discountTier1Keys       = []string{"Sconto 1", "Sconto1"}
	discountTier2Keys       = []string{"Sconto 2", "Sconto2"}
	discountTier3Keys       = []string{"Sconto 3", "Sconto3"}
	discountCombinedKeys    = []string{"Sconto in decimali", "Sconto_in_decimali"}
	discountDescriptionKeys = []string{"Dicitura sconto", "Dicitura_sconto"}

	protocolKeys  = []string{"numero_protocollo", "Numero_protocollo"}
	clientKeys    = []string{"nome_cliente", "Nome_cliente"}
	referenceKeys = []string{"rif_cliente"}
)

type documentJSON struct {
	ID        string            `json:"id,omitempty"`
	Protocol  string            `json:"numero_protocollo"`
	Client    string            `json:"nome_cliente"`
	Reference string            `json:"rif_cliente"`
	General   map[string]any    `json:"dati_b1"`
	Extra     map[string]any    `json:"dati_b2,omitempty"`
	Lines     []json.RawMessage `json:"posizioni"`
	CreatedAt *time.Time        `json:"creato_il,omitempty"`
	UpdatedAt *time.Time        `json:"modificato_il,omitempty"`
}

// MarshalJSON writes the document with every line as an object whose keys
// follow the record column order.
func (d Document) MarshalJSON() ([]byte, error) {
	general := make(map[string]any, len(d.General)+5)
	for k, v := range d.General {
		general[k] = v
	}
	general[discountTier1Keys[0]] = d.Discounts.Tier1
	general[discountTier2Keys[0]] = d.Discounts.Tier2
	general[discountTier3Keys[0]] = d.Discounts.Tier3
	general[discountCombinedKeys[0]] = d.Discounts.Combined
	general[discountDescriptionKeys[0]] = d.Discounts.Description

	out := documentJSON{
		Protocol:  d.Protocol,
		Client:    d.ClientName,
		Reference: d.ClientReference,
		General:   general,
		Lines:     make([]json.RawMessage, 0, len(d.Lines)),
	}
	if d.ID != uuid.Nil {
		out.ID = d.ID.String()
	}
	if !d.CreatedAt.IsZero() {
		out.CreatedAt = &d.CreatedAt
	}
	if !d.UpdatedAt.IsZero() {
		out.UpdatedAt = &d.UpdatedAt
	}
	for _, l := range d.Lines {
		raw, err := marshalRecord(l.Record())
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a document. Only the input columns of each line are
// kept; derived fields must be recomputed by the caller. Lines that fail
// validation are kept with an invalid_position issue.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	general := stringMap(in.General)
	extra := stringMap(in.Extra)

	doc := Document{
		Protocol:        firstNonEmpty(in.Protocol, lookup(extra, protocolKeys), lookup(general, protocolKeys)),
		ClientName:      firstNonEmpty(in.Client, lookup(extra, clientKeys), lookup(general, clientKeys)),
		ClientReference: firstNonEmpty(in.Reference, lookup(extra, referenceKeys), lookup(general, referenceKeys)),
		Discounts: pricingdomain.DiscountSettings{
			Tier1:       lookup(general, discountTier1Keys),
			Tier2:       lookup(general, discountTier2Keys),
			Tier3:       lookup(general, discountTier3Keys),
			Combined:    lookup(general, discountCombinedKeys),
			Description: lookup(general, discountDescriptionKeys),
		},
	}
	for _, keys := range [][]string{discountTier1Keys, discountTier2Keys, discountTier3Keys, discountCombinedKeys, discountDescriptionKeys} {
		for _, k := range keys {
			delete(general, k)
		}
	}
	if len(general) > 0 {
		doc.General = general
	}
	if id, err := uuid.Parse(strings.TrimSpace(in.ID)); err == nil {
		doc.ID = id
	}
	if in.CreatedAt != nil {
		doc.CreatedAt = *in.CreatedAt
	}
	if in.UpdatedAt != nil {
		doc.UpdatedAt = *in.UpdatedAt
	}

	for i, raw := range in.Lines {
		var values map[string]any
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidDocument, i+1, err)
		}
		p, issues, err := InputFromRecord(stringMap(values)).Position()
		if err != nil {
			issues = append(issues, pricingdomain.Issue{
				Kind:    pricingdomain.IssueInvalidPosition,
				Message: err.Error(),
			})
		}
		doc.Lines = append(doc.Lines, Line{Number: i + 1, Position: p, Issues: issues})
	}

	*d = doc
	return nil
}

func marshalRecord(fields []pricingdomain.Field) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func stringMap(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = stringify(v)
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func lookup(m map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
