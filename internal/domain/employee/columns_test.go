package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMapperIsBidirectional(t *testing.T) {
	headers := ImportHeaders()
	require.Len(t, headers, 11)
	for _, h := range headers {
		field, ok := FieldForHeader(h)
		require.True(t, ok, h)
		back, ok := HeaderForField(field)
		require.True(t, ok, field)
		assert.Equal(t, h, back)
	}
}

func TestColumnMapperIsCaseSensitive(t *testing.T) {
	_, ok := FieldForHeader("personnel_records.surname")
	assert.False(t, ok)
	_, ok = FieldForHeader("Surname")
	assert.False(t, ok)
	field, ok := FieldForHeader("Personnel_Records.EMail_Home")
	require.True(t, ok)
	assert.Equal(t, FieldEmailHome, field)
}
