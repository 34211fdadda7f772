package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestParseCategoryRejectsUnknown(t *testing.T) {
	_, err := ParseCategory("web3")
	require.ErrorIs(t, err, ErrBadCategory)

	_, err = ParseCategory("")
	require.ErrorIs(t, err, ErrBadCategory)

	// Case sensitive: the enum is lowercase on the wire.
	_, err = ParseCategory("Mobile_App")
	require.ErrorIs(t, err, ErrBadCategory)
}

func TestUsesAppStores(t *testing.T) {
	assert.True(t, CategoryMobileApp.UsesAppStores())
	assert.True(t, CategoryFintech.UsesAppStores())
	assert.False(t, CategoryHardware.UsesAppStores())
	assert.False(t, CategorySaaSWeb.UsesAppStores())
}
