package hierarchy

import (
	"context"
	"testing"

	"github.com/homeqr/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_EmptyQuery(t *testing.T) {
	s := newTestService(t)
	hits, err := s.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestSearch_ByContainerName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	cab, _, box := buildTree(t, s)

	hits, err := s.Search(ctx, "Screws")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, box.ID, hits[0].Container.ID)
	assert.Equal(t, "Top Shelf", hits[0].ParentName)
	assert.Equal(t, model.NodeShelf, hits[0].ParentType)
	assert.Equal(t, cab.ID, hits[0].TopID)
	assert.Equal(t, "Garage Cabinet", hits[0].TopName)
	assert.Empty(t, hits[0].Items)
}

func TestSearch_ByItemName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	_, _, box := buildTree(t, s)

	hammer := model.Item{ContainerID: box.ID, Name: "Claw hammer", Qty: 1}
	require.NoError(t, s.db.Create(&hammer).Error)
	require.NoError(t, s.db.Create(&model.Item{ContainerID: box.ID, Name: "Pliers", Qty: 1}).Error)

	hits, err := s.Search(ctx, "hammer")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, box.ID, hits[0].Container.ID)
	// Only the matching item is attached, not the whole container.
	require.Len(t, hits[0].Items, 1)
	assert.Equal(t, hammer.ID, hits[0].Items[0].ID)
}

func TestSearch_ByItemNote(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	_, _, box := buildTree(t, s)
	require.NoError(t, s.db.Create(&model.Item{ContainerID: box.ID, Name: "Cable", Qty: 1, Note: "HDMI 2.1"}).Error)

	hits, err := s.Search(ctx, "HDMI")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Len(t, hits[0].Items, 1)
}

func TestSearch_ByParentNodeName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	_, _, box := buildTree(t, s)

	hits, err := s.Search(ctx, "Garage")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, box.ID, hits[0].Container.ID)
}

func TestSearch_NoDuplicateHits(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	_, _, box := buildTree(t, s)

	// Two matching items in the same container must not duplicate the hit.
	require.NoError(t, s.db.Create(&model.Item{ContainerID: box.ID, Name: "Screwdriver big", Qty: 1}).Error)
	require.NoError(t, s.db.Create(&model.Item{ContainerID: box.ID, Name: "Screwdriver small", Qty: 1}).Error)

	hits, err := s.Search(ctx, "Screwdriver")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Len(t, hits[0].Items, 2)
}

func TestSearch_NoMatch(t *testing.T) {
	s := newTestService(t)
	buildTree(t, s)
	hits, err := s.Search(context.Background(), "zzz-nothing")
	require.NoError(t, err)
	assert.Nil(t, hits)
}
