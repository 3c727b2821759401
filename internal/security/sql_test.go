package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("rec_order"))
	assert.NoError(t, ValidateIdentifier("_hidden"))

	for _, bad := range []string{"", "Order", "1abc", "a-b", `a"b`, strings.Repeat("a", MaxIdentifierLength+1)} {
		assert.Error(t, ValidateIdentifier(bad), bad)
	}
}

func TestQuoteIdentifier_Dialects(t *testing.T) {
	assert.Equal(t, `"order"`, QuoteIdentifier("postgres", "order"))
	assert.Equal(t, "`order`", QuoteIdentifier("mysql", "order"))
	assert.Equal(t, "`a``b`", QuoteIdentifier("mysql", "a`b"))
}

func TestSafeIdentifier(t *testing.T) {
	q, err := SafeIdentifier("postgres", "rec_order")
	require.NoError(t, err)
	assert.Equal(t, `"rec_order"`, q)

	_, err = SafeIdentifier("postgres", "drop table")
	assert.Error(t, err)
}
