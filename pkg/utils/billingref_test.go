package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInvoiceNumber(t *testing.T) {
	inv := NewInvoiceNumber()
	assert.True(t, strings.HasPrefix(inv, "INV-SUB-"), "got %s", inv)

	other := NewInvoiceNumber()
	assert.NotEqual(t, inv, other)
}

func TestNewCartID(t *testing.T) {
	id := NewCartID()
	assert.True(t, strings.HasPrefix(id, "SUB-"))
	assert.LessOrEqual(t, len(id), 64)
	assert.NotEqual(t, id, NewCartID())
}
