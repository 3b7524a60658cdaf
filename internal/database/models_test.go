package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatRedBalls(t *testing.T) {
	require.Equal(t, "01,05,12,18,25,33", FormatRedBalls([]int{1, 5, 12, 18, 25, 33}))
	require.Equal(t, "", FormatRedBalls(nil))
}

func TestParseRedBalls(t *testing.T) {
	numbers, err := ParseRedBalls("01,05,12,18,25,33")
	require.NoError(t, err)
	require.Equal(t, []int{1, 5, 12, 18, 25, 33}, numbers)
}

func TestParseRedBallsRoundTrip(t *testing.T) {
	original := []int{3, 7, 14, 21, 28, 32}
	parsed, err := ParseRedBalls(FormatRedBalls(original))
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestParseRedBallsErrors(t *testing.T) {
	_, err := ParseRedBalls("")
	require.Error(t, err)

	_, err = ParseRedBalls("01,xx,03")
	require.Error(t, err)
}
