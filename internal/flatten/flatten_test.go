package flatten

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(pairs []Pair) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.Key)
	}
	return out
}

func TestDocument_NestedObjects(t *testing.T) {
	pairs, err := Document([]byte(`{"a":{"b":{"c":"hi {x}"}}}`), "en/app.json")
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Equal(t, "a.b.c", pairs[0].Key)
	assert.Equal(t, Leaf{Value: "hi {x}", SourceFile: "en/app.json"}, pairs[0].Leaf)
}

func TestDocument_DocumentOrder(t *testing.T) {
	doc := `{
		"messages": {"welcome": "Hello", "bye": "Bye"},
		"common": {"ok": "OK"},
		"title": "Home"
	}`

	pairs, err := Document([]byte(doc), "en/app.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"messages.welcome", "messages.bye", "common.ok", "title"}, keys(pairs))
}

func TestDocument_ArrayIsSingleLeaf(t *testing.T) {
	pairs, err := Document([]byte(`{"list": [ "x", "y" ]}`), "en/app.json")
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Equal(t, "list", pairs[0].Key)
	assert.Equal(t, `["x","y"]`, pairs[0].Leaf.Value)
	assert.True(t, pairs[0].Leaf.Array)
}

func TestDocument_ArrayFlagOnlyOnArrays(t *testing.T) {
	pairs, err := Document([]byte(`{"opts": [{"label": "Ja"}], "name": "{user}"}`), "de/app.json")
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.True(t, pairs[0].Leaf.Array)
	assert.Equal(t, `[{"label":"Ja"}]`, pairs[0].Leaf.Value)
	assert.False(t, pairs[1].Leaf.Array)

	back := Flatten(Unflatten(pairs), "de/app.json")
	assert.True(t, back[0].Leaf.Array)
}

func TestDocument_ScalarLeaves(t *testing.T) {
	pairs, err := Document([]byte(`{"n": 1.50, "t": true, "f": false, "z": null, "s": ""}`), "en/app.json")
	require.NoError(t, err)

	got := make(map[string]string)
	for _, p := range pairs {
		got[p.Key] = p.Leaf.Value
	}

	want := map[string]string{"n": "1.50", "t": "true", "f": "false", "z": "null", "s": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("leaf values mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_EmptyObjectsProduceNoKeys(t *testing.T) {
	pairs, err := Document([]byte(`{"empty": {}, "nested": {"also": {}}, "k": "v"}`), "en/app.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"k"}, keys(pairs))

	pairs, err = Document([]byte(`{}`), "en/empty.json")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"a": "b"`},
		{"root array", `["a", "b"]`},
		{"root string", `"hello"`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Document([]byte(tt.data), "de/broken.json")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument))

			var malformed *MalformedDocumentError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "de/broken.json", malformed.File)
		})
	}
}

func TestUnflatten_RoundTrip(t *testing.T) {
	docs := []string{
		`{"a":{"b":{"c":"hi {x}"}}}`,
		`{"common":{"greeting":"Hello","bye":"Bye"},"title":"Home","list":["x","y"]}`,
	}

	for _, doc := range docs {
		root, err := Parse([]byte(doc), "en/app.json")
		require.NoError(t, err)

		rebuilt := Unflatten(Flatten(root, "en/app.json"))
		if diff := cmp.Diff(root, rebuilt); diff != "" {
			t.Errorf("round trip mismatch for %s (-parsed +rebuilt):\n%s", doc, diff)
		}
	}
}

func TestUnflatten_LaterPairWins(t *testing.T) {
	root := Unflatten([]Pair{
		{Key: "a.b", Leaf: Leaf{Value: "first"}},
		{Key: "a.b", Leaf: Leaf{Value: "second"}},
	})

	require.Len(t, root.Fields, 1)
	a := root.child("a")
	require.NotNil(t, a)
	assert.Equal(t, "second", a.child("b").Value)
}
