package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// ErrBodyNotObject is returned when a payload is not a flat JSON object
var ErrBodyNotObject = errors.New("request body must be a JSON object of scalar values")

// QueryParams flattens a query string to its first value per key
func QueryParams(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// DecodeParams reads a flat JSON object into raw text parameters.
// Strings are kept verbatim, numbers keep their literal text, booleans
// become "true"/"false" and null values are treated as absent.
func DecodeParams(body io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]string{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyNotObject, err)
	}

	params := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case nil:
			continue
		case string:
			params[key] = v
		case json.Number:
			params[key] = v.String()
		case bool:
			params[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("%w: %q holds a nested value", ErrBodyNotObject, key)
		}
	}
	return params, nil
}
