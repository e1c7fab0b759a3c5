package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
}

func TestOrderResult(t *testing.T) {
	ok := NewOrderResult("12345", 50010, 0.003)
	assert.True(t, ok.Success)
	assert.Equal(t, "12345", ok.OrderID)
	assert.Empty(t, ok.Error)
	assert.False(t, ok.Timestamp.IsZero())

	fail := FailedOrderResult("Insufficient funds")
	assert.False(t, fail.Success)
	assert.Equal(t, "Insufficient funds", fail.Error)
}
