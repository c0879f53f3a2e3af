package homework

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/pkg/core/errors"
)

const tricky = "Graba un audio de 'dos' minutos.\nGuárdalo en C:\\tareas"

func fixtureTable() *Table {
	return NewTable(map[int]Instruction{
		1: Text(tricky),
		2: None(),
		3: Text("sin recursos"),
		4: Text("nuevo"),
		5: Text("no existe"),
	})
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	buf, err := os.ReadFile(filepath.Join("testdata", "sessions.ts"))
	require.NoError(t, err)
	return buf
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"it's", `it\'s`},
		{`a\b`, `a\\b`},
		{"two\nlines", `two\nlines`},
		{"crlf\r\n", `crlf\r\n`},
		{`\'`, `\\\'`},
		{`say "hi"`, `say "hi"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestEdit_Report(t *testing.T) {
	_, report, err := Edit(readFixture(t), fixtureTable(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4}, report.Inserted)
	assert.Equal(t, []int{2, 4}, report.Removed)
	assert.Equal(t, []int{3}, report.Skipped)
	assert.Equal(t, []int{5}, report.Missing)
}

func TestEdit_Output(t *testing.T) {
	buf := readFixture(t)
	out, _, err := Edit(buf, fixtureTable(), Options{})
	require.NoError(t, err)
	text := string(out)

	t.Run("inserted after resources", func(t *testing.T) {
		assert.Contains(t, text, "    ],\n    homeworkInstructions: '"+Escape(tricky)+"',\n  },")
	})

	t.Run("none removes the field", func(t *testing.T) {
		assert.Contains(t, text, "    resources: [],\n  },")
		assert.NotContains(t, text, "old text")
	})

	t.Run("comma added after last resources", func(t *testing.T) {
		assert.Contains(t, text, "    sessionNumber: 4,\n    resources:")
		assert.Contains(t, text, "}],\n    homeworkInstructions: 'nuevo',\n  },")
		assert.NotContains(t, text, "stale")
	})

	t.Run("untouched record", func(t *testing.T) {
		assert.Contains(t, text, "    sessionNumber: 3,\n    title: 'Tres',\n  },")
	})

	t.Run("surrounding bytes preserved", func(t *testing.T) {
		head := "export const sessionsData: SessionData[] = [\n"
		assert.True(t, strings.HasPrefix(text, head))
		assert.True(t, strings.HasSuffix(text, "\n  },\n];\n"))
		assert.Equal(t, strings.Count(string(buf), "sessionNumber"), strings.Count(text, "sessionNumber"))
	})
}

func TestEdit_RoundTrip(t *testing.T) {
	out, _, err := Edit(readFixture(t), fixtureTable(), Options{})
	require.NoError(t, err)

	res, err := session.Extract(out, session.Options{})
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	assert.Equal(t, []int{1, 2, 3, 4}, res.Numbers())

	one, ok := res.Session(1)
	require.True(t, ok)
	require.NotNil(t, one.Homework)
	assert.Equal(t, tricky, *one.Homework)
	assert.Len(t, one.Resources, 1)

	two, _ := res.Session(2)
	assert.Nil(t, two.Homework)

	three, _ := res.Session(3)
	assert.Nil(t, three.Homework)

	four, _ := res.Session(4)
	require.NotNil(t, four.Homework)
	assert.Equal(t, "nuevo", *four.Homework)
}

func TestEdit_Idempotent(t *testing.T) {
	first, _, err := Edit(readFixture(t), fixtureTable(), Options{})
	require.NoError(t, err)

	second, report, err := Edit(first, fixtureTable(), Options{})
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, []int{1, 4}, report.Inserted)
	assert.Equal(t, []int{1, 4}, report.Removed)
}

func TestEdit_EmptyTable(t *testing.T) {
	buf := readFixture(t)
	out, report, err := Edit(buf, NewTable(nil), Options{})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
	assert.Empty(t, report.Inserted)
	assert.Empty(t, report.Missing)
}

func TestEdit_Duplicates(t *testing.T) {
	src := "const sessionsData = [\n" +
		"  { sessionNumber: 7, resources: [] },\n" +
		"  { sessionNumber: 7, resources: [], homeworkInstructions: 'x' },\n" +
		"];\n"

	out, report, err := Edit([]byte(src), NewTable(map[int]Instruction{7: Text("y")}), Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, report.Inserted)
	assert.Equal(t, 2, strings.Count(string(out), "homeworkInstructions: 'y'"))
	assert.NotContains(t, string(out), "'x'")
}

func TestEdit_CustomField(t *testing.T) {
	src := "const lessons = [{\n  sessionNumber: 1,\n  resources: [],\n}];\n"
	out, _, err := Edit([]byte(src), NewTable(map[int]Instruction{1: Text("t")}), Options{
		Anchor: "lessons",
		Field:  "tarea",
	})
	require.NoError(t, err)
	assert.Equal(t, "const lessons = [{\n  sessionNumber: 1,\n  resources: [],\n  tarea: 't',\n}];\n", string(out))
}

func TestEdit_MapForm(t *testing.T) {
	buf, err := os.ReadFile(filepath.Join("..", "session", "testdata", "sessions_map.ts"))
	require.NoError(t, err)

	out, report, err := Edit(buf, NewTable(map[int]Instruction{1: Text("uno"), 2: Text("dos")}), Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, report.Inserted)

	res, err := session.Extract(out, session.Options{})
	require.NoError(t, err)
	for n, want := range map[int]string{1: "uno", 2: "dos"} {
		s, ok := res.Session(n)
		require.True(t, ok)
		require.NotNil(t, s.Homework)
		assert.Equal(t, want, *s.Homework)
	}
}

func TestEdit_UnmodeledProperties(t *testing.T) {
	src := "const sessionsData = [\n" +
		"  { sessionNumber: 8, ...base, resources: [] },\n" +
		"  { sessionNumber: 9, [key]: 1, resources: [], fmt() { return 1 } },\n" +
		"];\n"

	out, report, err := Edit([]byte(src), NewTable(map[int]Instruction{8: Text("ocho"), 9: Text("nueve")}), Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9}, report.Inserted)
	assert.Empty(t, report.Missing)
	assert.Contains(t, string(out), "...base")
	assert.Contains(t, string(out), "fmt() { return 1 }")

	res, err := session.Extract(out, session.Options{})
	require.NoError(t, err)
	for n, want := range map[int]string{8: "ocho", 9: "nueve"} {
		s, ok := res.Session(n)
		require.True(t, ok)
		require.NotNil(t, s.Homework)
		assert.Equal(t, want, *s.Homework)
	}
}

func TestEdit_AnchorNotFound(t *testing.T) {
	_, _, err := Edit([]byte("const other = [];"), fixtureTable(), Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAnchorNotFound))
}

func TestEditFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.ts")
	orig := readFixture(t)
	require.NoError(t, os.WriteFile(path, orig, 0o640))

	t.Run("dry run", func(t *testing.T) {
		report, err := EditFile(path, fixtureTable(), FileOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 4}, report.Inserted)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})

	t.Run("write", func(t *testing.T) {
		_, err := EditFile(path, fixtureTable(), FileOptions{})
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(got), "homeworkInstructions: 'nuevo'")

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := EditFile(filepath.Join(dir, "nope.ts"), fixtureTable(), FileOptions{})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeIO))
	})
}
