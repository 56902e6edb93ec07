package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/cs2hx/providers"
	"github.com/oxhq/cs2hx/translator"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ECNone},
		{"parse", &providers.ParseError{Path: "a.cs"}, ECParse},
		{"wrapped translate", fmt.Errorf("a.cs: %w", &translator.Error{Kind: translator.RethrowOutsideCatch}), ECTranslate},
		{"write", &WriteError{Path: "A.hx", Err: errors.New("disk full")}, ECWrite},
		{"read", &ReadError{Path: "a.cs", Err: errors.New("denied")}, ECRead},
		{"other", errors.New("boom"), ECUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestFileErrorsUnwrap(t *testing.T) {
	cause := errors.New("denied")
	assert.ErrorIs(t, &ReadError{Path: "a.cs", Err: cause}, cause)
	assert.ErrorIs(t, &WriteError{Path: "A.hx", Err: cause}, cause)
	assert.Equal(t, "write A.hx: denied", (&WriteError{Path: "A.hx", Err: cause}).Error())
}

func TestUnitResultFailed(t *testing.T) {
	assert.False(t, UnitResult{Path: "a.cs"}.Failed())
	u := failed(UnitResult{Path: "a.cs", Outputs: []OutputFile{{Path: "A.hx"}}}, &ReadError{Path: "a.cs", Err: errors.New("x")})
	assert.True(t, u.Failed())
	assert.Equal(t, ECRead, u.Code)
	assert.Nil(t, u.Outputs)
}
