package scan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContainer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		anchor  string
		want    byte
		wantErr bool
	}{
		{"typed array", `export const sessionsData: SessionData[] = [{}]`, "sessionsData", '[', false},
		{"record map", `export const sessionsData: Record<number, SessionData> = {1: {}}`, "sessionsData", '{', false},
		{"untyped", `const sessionsData=[]`, "sessionsData", '[', false},
		{"record map without blank", `export const sessionsData: Record<number, SessionData>= {1: {}}`, "sessionsData", '{', false},
		{"nested type arguments", `const sessionsData: Map<number, Array<SessionData>>= new Map([[1, {}]])`, "sessionsData", '[', false},
		{"arrow in type arguments", `const sessionsData: Array<() => SessionData> = [{}]`, "sessionsData", '[', false},
		{"name only in comment", `// sessionsData = []` + "\nconst x = []", "sessionsData", 0, true},
		{"name only in string", `const x = 'sessionsData = []'`, "sessionsData", 0, true},
		{"longer identifier skipped", `const sessionsDataOld = [1]; const sessionsData = [{}]`, "sessionsData", '[', false},
		{"no assignment", `export { sessionsData }`, "sessionsData", 0, true},
		{"no literal", `const sessionsData = load()`, "sessionsData", 0, true},
		{"missing", `const x = []`, "sessionsData", 0, true},
		{"empty name", `const x = []`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []byte(tt.input)
			open, err := FindContainer(buf, tt.anchor)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAnchorNotFound))
				assert.Equal(t, -1, open)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf[open])
		})
	}
}

func TestFindContainer_SkipsTypeAnnotation(t *testing.T) {
	buf := []byte(`export const sessionsData: SessionData[] = [{ a: 1 }]`)
	open, err := FindContainer(buf, "sessionsData")
	require.NoError(t, err)

	// the '[' after '=' rather than the one in "SessionData[]"
	assert.Equal(t, byte(' '), buf[open-1])
	assert.Equal(t, byte('='), buf[open-2])
}

func TestFindContainer_ComparisonBeforeAssignment(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"greater or equal", "if (sessionsData >= 1) {}\nsessionsData = [{ a: 1 }]"},
		{"less or equal", "if (sessionsData <= 1) {}\nsessionsData = [{ a: 1 }]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []byte(tt.input)
			open, err := FindContainer(buf, "sessionsData")
			require.NoError(t, err)
			assert.Equal(t, byte('['), buf[open])
			assert.Equal(t, "= [", string(buf[open-2:open+1]))
		})
	}
}

func TestAnchorError(t *testing.T) {
	_, err := FindContainer([]byte(`x`), "lessons")

	var anchorErr *AnchorError
	require.True(t, errors.As(err, &anchorErr))
	assert.Equal(t, "lessons", anchorErr.Name)
	assert.Contains(t, err.Error(), `anchor "lessons" not found`)
}

func TestFindIdent(t *testing.T) {
	buf := []byte(`title: 'x', subtitle: 'y', title2: 1, title: 2`)

	assert.Equal(t, 0, FindIdent(buf, Span{Start: 0, End: len(buf)}, "title"))
	assert.Equal(t, 12, FindIdent(buf, Span{Start: 0, End: len(buf)}, "subtitle"))
	assert.Equal(t, 38, FindIdent(buf, Span{Start: 1, End: len(buf)}, "title"))
	assert.Equal(t, -1, FindIdent(buf, Span{Start: 1, End: 30}, "title"))
	assert.Equal(t, -1, FindIdent(buf, Span{Start: 5, End: 2}, "title"))
}

func TestIndexCode(t *testing.T) {
	buf := []byte(`'=' /* = */ =`)
	got := IndexCode(buf, 0, func(pos int) bool { return buf[pos] == '=' })
	assert.Equal(t, len(buf)-1, got)
	assert.Equal(t, -1, IndexCode(buf, 0, func(pos int) bool { return buf[pos] == '#' }))
}
