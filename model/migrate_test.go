package model_test

import (
	"testing"

	"github.com/homeqr/server/model"
	"github.com/homeqr/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// Node
	node := &model.Node{ID: "AB12CD34", Type: model.NodeCabinet, Name: "Hallway cabinet"}
	require.NoError(t, db.Create(node).Error)

	shelf := &model.Node{ID: "EF56AB78", Type: model.NodeShelf, Name: "Top shelf", ParentID: &node.ID}
	require.NoError(t, db.Create(shelf).Error)

	// Container
	box := &model.Container{ID: "12345678", Type: model.ContainerBox, Name: "Screws", ParentID: shelf.ID}
	require.NoError(t, db.Create(box).Error)

	// ItemType + FieldDef
	typ := &model.ItemType{Name: "Electronics"}
	require.NoError(t, db.Create(typ).Error)
	assert.Greater(t, typ.ID, int64(0))

	field := &model.FieldDef{TypeID: typ.ID, Key: "voltage", Label: "Voltage", Kind: model.KindNumber, OrderIndex: 1}
	require.NoError(t, db.Create(field).Error)

	// Item + ValueEntry
	item := &model.Item{ContainerID: box.ID, Name: "Power supply", Qty: 2, TypeID: &typ.ID}
	require.NoError(t, db.Create(item).Error)
	assert.Greater(t, item.ID, int64(0))

	val := &model.ValueEntry{ItemID: item.ID, FieldID: field.ID, Value: "12"}
	require.NoError(t, db.Create(val).Error)

	var found model.Item
	require.NoError(t, db.First(&found, item.ID).Error)
	assert.Equal(t, "Power supply", found.Name)
	assert.Equal(t, 2, found.Qty)

	// AuditLog
	al := &model.AuditLog{TraceID: "trace-001", Action: "field_create"}
	require.NoError(t, db.Create(al).Error)
}

func TestFieldDef_TypeKeyUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)

	typ := &model.ItemType{Name: "Tools"}
	require.NoError(t, db.Create(typ).Error)

	f1 := &model.FieldDef{TypeID: typ.ID, Key: "size", Label: "Size", Kind: model.KindText, OrderIndex: 1}
	require.NoError(t, db.Create(f1).Error)

	dup := &model.FieldDef{TypeID: typ.ID, Key: "size", Label: "Other size", Kind: model.KindText, OrderIndex: 2}
	assert.Error(t, db.Create(dup).Error)

	// Same key under a different type is fine.
	other := &model.ItemType{Name: "Garden"}
	require.NoError(t, db.Create(other).Error)
	f2 := &model.FieldDef{TypeID: other.ID, Key: "size", Label: "Size", Kind: model.KindText, OrderIndex: 1}
	assert.NoError(t, db.Create(f2).Error)
}

func TestItemType_NameUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, db.Create(&model.ItemType{Name: "Books"}).Error)
	assert.Error(t, db.Create(&model.ItemType{Name: "Books"}).Error)
}
