package types

import (
	"encoding/json"
	"errors"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestResultOK(t *testing.T) {
	res := OK(map[string]int{"id": 1})
	require.True(t, res.Success)
	require.NoError(t, res.Err())
	require.Empty(t, res.Error)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t, `{"success":true,"data":{"id":1}}`, string(raw))
}

func TestResultFailKeepsTypedError(t *testing.T) {
	cause := pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	res := Fail[*struct{}](cause)

	require.False(t, res.Success)
	require.Equal(t, "cart is empty", res.Error)
	require.Equal(t, pkgerrors.CodeValidation, res.Code)
	require.True(t, errors.Is(res.Err(), cause))

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"error":"cart is empty","code":"VALIDATION_ERROR"}`, string(raw))
}

func TestResultFailNilError(t *testing.T) {
	res := Fail[Empty](nil)
	require.False(t, res.Success)
	require.Equal(t, pkgerrors.CodeInternal, res.Code)
	require.Error(t, res.Err())
}

func TestErrorBodyText(t *testing.T) {
	require.Equal(t, "a", ErrorBody{Error: "a", Message: "b"}.Text())
	require.Equal(t, "b", ErrorBody{Message: "b"}.Text())
	require.Empty(t, ErrorBody{}.Text())
}
