package powercom

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_UnwrapAndAs(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := newError(SystemResource, "OpenUPSLoadSensor", cause)

	var pcErr *Error
	require := errors.As(err, &pcErr)
	assert.True(t, require)
	assert.Equal(t, SystemResource, pcErr.Kind)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_MessageIncludesKindAndOp(t *testing.T) {
	err := newError(InvalidArgument, "ChannelParameters.Validate", fmt.Errorf("carrier must be > 0"))
	assert.Contains(t, err.Error(), "ChannelParameters.Validate")
	assert.Contains(t, err.Error(), "invalid argument")
	assert.Contains(t, err.Error(), "carrier must be > 0")
}

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		InvalidArgument:  "invalid argument",
		SystemResource:   "system resource",
		PermissionDenied: "permission denied",
		RateExceeded:     "rate exceeded",
		Interrupted:      "interrupted",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}
