package document_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
)

const baseContent = `{
	"title": "조합규약",
	"sections": [
		{"id": "name", "body": "본 조합은 알파 1호 조합이라 한다."},
		{"id": "members", "rows": [["홍길동", "10"], ["김철수", "5"]]}
	],
	"footer": "2024"
}`

func TestCompare_SameDocumentIsEmpty(t *testing.T) {
	changes, err := document.Compare([]byte(baseContent), []byte(baseContent))
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestCompare_SingleLeafModified(t *testing.T) {
	to := `{
		"title": "조합규약",
		"sections": [
			{"id": "name", "body": "본 조합은 베타 1호 조합이라 한다."},
			{"id": "members", "rows": [["홍길동", "10"], ["김철수", "5"]]}
		],
		"footer": "2024"
	}`
	changes, err := document.Compare([]byte(baseContent), []byte(to))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "sections[0].body", changes[0].Path)
	assert.Equal(t, document.ChangeModified, changes[0].ChangeType)
	assert.Equal(t, "본 조합은 알파 1호 조합이라 한다.", changes[0].Before)
	assert.Equal(t, "본 조합은 베타 1호 조합이라 한다.", changes[0].After)
}

func TestCompare_AddedAndRemovedKeys(t *testing.T) {
	changes, err := document.Compare(
		[]byte(`{"title": "a", "footer": "f"}`),
		[]byte(`{"title": "a", "subtitle": "s"}`),
	)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, document.Change{Path: "footer", ChangeType: document.ChangeRemoved, Before: "f"}, changes[0])
	assert.Equal(t, document.Change{Path: "subtitle", ChangeType: document.ChangeAdded, After: "s"}, changes[1])
}

func TestCompare_ArraysArePositional(t *testing.T) {
	changes, err := document.Compare(
		[]byte(`{"rows": ["a", "b", "c"]}`),
		[]byte(`{"rows": ["c", "a", "b"]}`),
	)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	for i, c := range changes {
		assert.Equal(t, document.ChangeModified, c.ChangeType)
		assert.Equal(t, "rows["+string(rune('0'+i))+"]", c.Path)
	}
}

func TestCompare_ArrayGrowthAndShrink(t *testing.T) {
	changes, err := document.Compare([]byte(`[1, 2]`), []byte(`[1, 2, 3]`))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "[2]", changes[0].Path)
	assert.Equal(t, document.ChangeAdded, changes[0].ChangeType)
	assert.Equal(t, json.Number("3"), changes[0].After)

	changes, err = document.Compare([]byte(`{"a": [1, 2]}`), []byte(`{"a": [1]}`))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "a[1]", changes[0].Path)
	assert.Equal(t, document.ChangeRemoved, changes[0].ChangeType)
}

func TestCompare_TypeChangeIsOneModification(t *testing.T) {
	changes, err := document.Compare([]byte(`{"a": {"b": 1}}`), []byte(`{"a": "flat"}`))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "a", changes[0].Path)
	assert.Equal(t, document.ChangeModified, changes[0].ChangeType)
}

func TestCompare_InvalidJSON(t *testing.T) {
	_, err := document.Compare([]byte(`{`), []byte(`{}`))
	assert.Error(t, err)
}
