package filter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/record"
)

func eval(t *testing.T, src, input string) ([]any, error) {
	t.Helper()
	v, err := loader.Decode(strings.NewReader(input))
	require.NoError(t, err)
	f, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return f.Run(context.Background(), v)
}

func encode(t *testing.T, v any) string {
	t.Helper()
	data, err := record.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestEval(t *testing.T) {
	input := `{"users":[{"name":"ann","age":31,"admin":true},{"name":"bob","age":17}],"n":1.5}`

	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"identity field", ".n", []string{"1.5"}},
		{"iterate", ".users[].name", []string{`"ann"`, `"bob"`}},
		{"select", `.users[] | select(.age > 18) | .name`, []string{`"ann"`}},
		{"not equal", `.users[] | select(.name != "ann") | .age`, []string{"17"}},
		{"arithmetic", ".users[0].age + 1", []string{"32"}},
		{"length", ".users | length", []string{"2"}},
		{"construct", `{names: [.users[].name]}`, []string{`{"names":["ann","bob"]}`}},
		{"not", ".users[1].admin | not", []string{"true"}},
		{"empty", "empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := eval(t, tt.filter, input)

			require.NoError(t, err)
			var got []string
			for _, v := range out {
				got = append(got, encode(t, v))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_BigIntegers(t *testing.T) {
	out, err := eval(t, ".n", `{"n":123456789012345678901234567890}`)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "123456789012345678901234567890", encode(t, out[0]))
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		hint   string
	}{
		{"escaped bang", `.a \!= 1`, "`\\!` detected"},
		{"unary bang", `!.a`, "Unary `!`"},
		{"parse error", `.a |`, ""},
		{"runtime error", `.a | keys`, ""},
		{"error builtin", `error("boom")`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval(t, tt.filter, `{"a":1}`)

			require.Error(t, err)
			assert.True(t, jerrors.Is(err, jerrors.ErrFilterFailed))
			if tt.hint != "" {
				var e *jerrors.Error
				require.True(t, jerrors.As(err, &e))
				assert.Contains(t, e.Suggestion, tt.hint)
			}
		})
	}
}

func TestCollapse(t *testing.T) {
	_, ok := Collapse(nil)
	assert.False(t, ok)

	v, ok := Collapse([]any{1})
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = Collapse([]any{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2}, v)
}

func TestNormalize(t *testing.T) {
	v, err := loader.Decode(strings.NewReader(`{"i":3,"f":2.5,"e":1e2,"xs":[-7]}`))
	require.NoError(t, err)

	got := Normalize(v).(map[string]any)

	assert.Equal(t, 3, got["i"])
	assert.Equal(t, 2.5, got["f"])
	assert.Equal(t, 100.0, got["e"])
	assert.Equal(t, []any{-7}, got["xs"])
}
