package contentapi

import (
	"testing"
	"time"

	"lineage/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeList_BareArray(t *testing.T) {
	// Arrange
	body := []byte(`[
		{"id": 1, "unique_id": "abc", "name": "Master", "image": "uploads/m.jpg", "parents": [],
		 "created_at": "2024-03-01T10:00:00Z", "linked_biography_id": 12},
		{"id": "2", "uniqueId": "def", "name": "Student", "image": null,
		 "parents": [{"parent_id": 1, "parent": {"id": 1, "name": "Master", "unique_id": "abc"},
		              "created_at": "2024-03-02T10:00:00Z"}]}
	]`)

	// Act
	nodes, err := NewNormalizer(zap.NewNop()).NormalizeList(body)

	// Assert
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	master := nodes[0]
	assert.Equal(t, valueobjects.NodeID(1), master.ID)
	assert.Equal(t, "abc", master.UniqueID)
	assert.Equal(t, "uploads/m.jpg", master.ImageRef())
	assert.True(t, master.IsRoot())
	require.NotNil(t, master.LinkedBiographyID)
	assert.Equal(t, valueobjects.NodeID(12), *master.LinkedBiographyID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), master.CreatedAt)

	student := nodes[1]
	assert.Equal(t, valueobjects.NodeID(2), student.ID)
	assert.Equal(t, "def", student.UniqueID)
	assert.Nil(t, student.Image)
	require.Len(t, student.Parents, 1)
	assert.Equal(t, valueobjects.NodeID(1), student.Parents[0].TeacherNodeID)
	assert.Equal(t, "Master", student.Parents[0].Teacher.Name)
	assert.Equal(t, "abc", student.Parents[0].Teacher.UniqueID)
}

func TestNormalizeList_Envelope(t *testing.T) {
	body := []byte(`{"data": [{"id": 5, "name": "Five"}], "meta": {"total": 1}}`)

	nodes, err := NewNormalizer(nil).NormalizeList(body)

	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Five", nodes[0].Name)
	assert.True(t, nodes[0].IsRoot())
}

func TestNormalizeList_ParentKeyVariants(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		teacherID valueobjects.NodeID
		teacher   string
	}{
		{
			name:      "parent_relations with teacher_id",
			record:    `{"id": 9, "parent_relations": [{"teacher_id": 3, "parent_name": "Three"}]}`,
			teacherID: 3,
			teacher:   "Three",
		},
		{
			name:      "chart_parents with numeric parent",
			record:    `{"id": 9, "chart_parents": [{"parent": 4}]}`,
			teacherID: 4,
		},
		{
			name:      "nested teacher object",
			record:    `{"id": 9, "parents": [{"teacher": {"id": "6", "name": "Six", "uniqueId": "six"}}]}`,
			teacherID: 6,
			teacher:   "Six",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := NewNormalizer(nil).NormalizeList([]byte("[" + tt.record + "]"))

			require.NoError(t, err)
			require.Len(t, nodes, 1)
			require.Len(t, nodes[0].Parents, 1)
			assert.Equal(t, tt.teacherID, nodes[0].Parents[0].TeacherNodeID)
			assert.Equal(t, tt.teacher, nodes[0].Parents[0].Teacher.Name)
		})
	}
}

func TestNormalizeList_NullParentsAndUnusableRelations(t *testing.T) {
	body := []byte(`[
		{"id": 1, "parents": null},
		{"id": 2, "parents": [{"parent_name": "Nobody"}, {"parent_id": 1}]}
	]`)

	nodes, err := NewNormalizer(nil).NormalizeList(body)

	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.True(t, nodes[0].IsRoot())
	require.Len(t, nodes[1].Parents, 1)
	assert.Equal(t, valueobjects.NodeID(1), nodes[1].Parents[0].TeacherNodeID)
}

func TestNormalizeList_SkipsRecordsWithoutID(t *testing.T) {
	body := []byte(`[{"name": "no id"}, {"id": "x"}, {"id": 3, "name": "ok"}]`)

	nodes, err := NewNormalizer(nil).NormalizeList(body)

	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ok", nodes[0].Name)
}

func TestNormalizeList_BadTimestampBecomesZero(t *testing.T) {
	nodes, err := NewNormalizer(nil).NormalizeList([]byte(`[{"id": 1, "created_at": "yesterday"}]`))

	require.NoError(t, err)
	assert.True(t, nodes[0].CreatedAt.IsZero())
}

func TestNormalizeList_InvalidBodies(t *testing.T) {
	for _, body := range []string{"", "not json", `{"data": {"id": 1}}`, `"text"`} {
		_, err := NewNormalizer(nil).NormalizeList([]byte(body))
		assert.Error(t, err, "body %q", body)
	}
}

func TestNormalizeNode_BareAndWrapped(t *testing.T) {
	n := NewNormalizer(nil)

	bare, err := n.NormalizeNode([]byte(`{"id": 4, "name": "Four"}`))
	require.NoError(t, err)
	assert.Equal(t, "Four", bare.Name)

	wrapped, err := n.NormalizeNode([]byte(`{"data": {"id": 4, "name": "Four"}}`))
	require.NoError(t, err)
	assert.Equal(t, valueobjects.NodeID(4), wrapped.ID)
}
