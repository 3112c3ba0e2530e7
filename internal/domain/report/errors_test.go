package report

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidate(t *testing.T) {
	assert.NoError(t, Input{PatientName: "Jane Doe"}.Validate())

	err := Input{PatientName: "   "}.Validate()
	assert.Error(t, err)
	assert.True(t, Is(err, KindConstraint))
	assert.ErrorIs(t, err, ErrPatientNameRequired)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindBackend, KindOf(errors.New("boom")))

	inner := E("open", KindConnection, errors.New("refused"))
	assert.Equal(t, KindConnection, KindOf(inner))

	// повторная обертка сохраняет исходный вид
	outer := E("insert", KindBackend, fmt.Errorf("wrapped: %w", inner))
	assert.Equal(t, KindConnection, KindOf(outer))
	assert.Contains(t, outer.Error(), "insert: connection error")

	assert.Nil(t, E("noop", KindBackend, nil))
	assert.False(t, Is(nil, KindBackend))
}
