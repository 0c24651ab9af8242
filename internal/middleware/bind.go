package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/twester/twester/internal/apperror"
)

// JSONRequest is implemented by request DTOs. RequiredFields lists the JSON
// keys that must be present and non-null; an empty string is a value.
type JSONRequest interface {
	RequiredFields() []string
}

// BindJSON decodes the request body into dst. Keys are matched exactly
// (no case folding), required keys must be present and non-null, and
// nothing but whitespace may follow the object. Any failure becomes a
// malformed-body error, rendered as {"error": "<message>"} with status 400.
func BindJSON(c echo.Context, dst JSONRequest) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// The body limit middleware reports 413 through the reader.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return apperror.NewMalformedBody(err.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewMalformedBody("EOF while parsing a value")
		}
		return apperror.NewMalformedBody(err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperror.NewMalformedBody("trailing characters after the JSON value")
	}

	for _, key := range dst.RequiredFields() {
		raw, ok := fields[key]
		if !ok || bytes.Equal(raw, []byte("null")) {
			return apperror.NewMalformedBody(fmt.Sprintf("missing field `%s`", key))
		}
	}

	// Decode field by field so a case-folded duplicate key cannot shadow
	// the exact one.
	exact := make(map[string]json.RawMessage, len(fields))
	for _, key := range dst.RequiredFields() {
		exact[key] = fields[key]
	}
	normalized, err := json.Marshal(exact)
	if err != nil {
		return apperror.NewMalformedBody(err.Error())
	}
	if err := json.Unmarshal(normalized, dst); err != nil {
		return apperror.NewMalformedBody(err.Error())
	}
	return nil
}
