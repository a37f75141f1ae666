package validators

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/validation"
)

const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes and validates the request body into dest.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return validation.Struct(dest)
}

// PathInt parses a positive integer path segment already extracted by the router.
func PathInt(raw, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a positive integer").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
