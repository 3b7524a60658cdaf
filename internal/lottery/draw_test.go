package lottery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrawUnmarshalSnakeCase(t *testing.T) {
	payload := `{"period":"2024001","red_balls":[1,5,12,18,25,33],"blue_ball":9}`

	var draw Draw
	require.NoError(t, json.Unmarshal([]byte(payload), &draw))
	require.Equal(t, "2024001", draw.Period)
	require.Equal(t, []int{1, 5, 12, 18, 25, 33}, draw.RedBalls)
	require.Equal(t, 9, draw.BlueBall)
}

func TestDrawUnmarshalCamelCase(t *testing.T) {
	payload := `{"issue":"2024002","redBalls":[2,6,13,19,26,32],"blueBall":10}`

	var draw Draw
	require.NoError(t, json.Unmarshal([]byte(payload), &draw))
	require.Equal(t, "2024002", draw.Period)
	require.Equal(t, []int{2, 6, 13, 19, 26, 32}, draw.RedBalls)
	require.Equal(t, 10, draw.BlueBall)
}

func TestDrawUnmarshalInvalid(t *testing.T) {
	var draw Draw
	require.Error(t, json.Unmarshal([]byte(`{"red_balls":"oops"}`), &draw))
}

func TestExtractRedDrawsFiltersInvalid(t *testing.T) {
	history := []Draw{
		{RedBalls: []int{1, 2, 3, 4, 5, 6}},
		{RedBalls: []int{1, 2, 3}},    // 残缺期次
		{RedBalls: nil},               // 无数据
		{RedBalls: []int{7, 8, 9, 10, 11, 12}},
	}

	reds := ExtractRedDraws(history)
	require.Len(t, reds, 2)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, reds[0])
}

func TestExtractBlueBallsFiltersOutOfRange(t *testing.T) {
	history := []Draw{
		{BlueBall: 1},
		{BlueBall: 16},
		{BlueBall: 0},
		{BlueBall: 17},
		{BlueBall: -3},
	}

	blues := ExtractBlueBalls(history)
	require.Equal(t, []int{1, 16}, blues)
}

func TestTruncate(t *testing.T) {
	history := []Draw{{Period: "3"}, {Period: "2"}, {Period: "1"}}

	require.Len(t, Truncate(history, 2), 2)
	require.Equal(t, "3", Truncate(history, 2)[0].Period)
	require.Len(t, Truncate(history, 10), 3)
	require.Len(t, Truncate(history, 0), 3)
	require.Len(t, Truncate(history, -1), 3)
}
