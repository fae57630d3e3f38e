package cortex

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/katalvlaran/manifold/core"
)

// Payload encoding tags stored in entity properties.
const (
	kindNumber = "number"
	kindVector = "vector"
	kindText   = "text"
	kindJSON   = "json"
)

// errUnencodable marks payloads no encoding covers (channels, funcs).
var errUnencodable = errors.New("cortex: payload cannot be encoded")

// encodePayload renders a payload as a (kind, value) string pair.
// Numbers and vectors get compact dedicated forms; everything else goes
// through JSON.
func encodePayload(p core.Payload) (kind, encoded string, err error) {
	switch v := p.(type) {
	case float64:
		return kindNumber, strconv.FormatFloat(v, 'g', -1, 64), nil
	case []float64:
		raw, jerr := json.Marshal(v)
		if jerr != nil {
			return "", "", errUnencodable
		}
		return kindVector, string(raw), nil
	case string:
		return kindText, v, nil
	default:
		raw, jerr := json.Marshal(v)
		if jerr != nil {
			return "", "", errUnencodable
		}
		return kindJSON, string(raw), nil
	}
}

// decodePayload inverts encodePayload.
func decodePayload(kind, encoded string) (core.Payload, error) {
	switch kind {
	case kindNumber:
		return strconv.ParseFloat(encoded, 64)
	case kindVector:
		var vec []float64
		if err := json.Unmarshal([]byte(encoded), &vec); err != nil {
			return nil, err
		}
		return vec, nil
	case kindText:
		return encoded, nil
	case kindJSON:
		var out any
		if err := json.Unmarshal([]byte(encoded), &out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, errUnencodable
	}
}
