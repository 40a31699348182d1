// Package bind decodes, sanitizes and validates an HTTP request body.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nberchet/apothecary/pkg/validate"
)

// JSON decodes r.Body as JSON into dest, sanitizes its string fields and
// runs tag validation. The body is capped at maxBytes to prevent memory
// exhaustion.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}, maxBytes int64) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	validate.Sanitize(dest)

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}
