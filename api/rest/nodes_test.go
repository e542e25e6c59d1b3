package rest_test

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestNode(t *testing.T, r *gin.Engine, nodeType, name string, parentID interface{}) string {
	t.Helper()
	body := map[string]interface{}{"type": nodeType, "name": name}
	if parentID != nil {
		body["parent_id"] = parentID
	}
	w := postJSON(r, "/api/nodes", body)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode(t, w)["id"].(string)
}

func TestNodeCreate_RulesEnforced(t *testing.T) {
	r, _ := newAPISetup(t)

	// A shelf cannot live at the top level.
	w := postJSON(r, "/api/nodes", map[string]interface{}{"type": "Shelf", "name": "Floating"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cabID := createTestNode(t, r, "Cabinet", "Garage", nil)

	// A cabinet cannot nest inside a cabinet.
	w = postJSON(r, "/api/nodes", map[string]interface{}{
		"type": "Cabinet", "name": "Nested", "parent_id": cabID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing parent is a 404.
	w = postJSON(r, "/api/nodes", map[string]interface{}{
		"type": "Shelf", "name": "Orphan", "parent_id": "ZZZZZZZZ",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNodeList_TopLevel(t *testing.T) {
	r, _ := newAPISetup(t)
	cabID := createTestNode(t, r, "Cabinet", "Garage", nil)
	createTestNode(t, r, "Shelf", "S1", cabID)

	w := getReq(r, "/api/nodes")
	require.Equal(t, http.StatusOK, w.Code)
	nodes := decode(t, w)["nodes"].([]interface{})
	// Only the cabinet: shelves are children, not top-level entries.
	require.Len(t, nodes, 1)
	assert.Equal(t, cabID, nodes[0].(map[string]interface{})["id"])
}

func TestNodeDetail(t *testing.T) {
	r, _ := newAPISetup(t)
	cabID := createTestNode(t, r, "Cabinet", "Garage", nil)
	shelfID := createTestNode(t, r, "Shelf", "S1", cabID)
	w := postJSON(r, "/api/containers", map[string]interface{}{
		"type": "Box", "name": "Bits", "parent_id": shelfID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = getReq(r, "/api/nodes/"+shelfID)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, shelfID, resp["node"].(map[string]interface{})["id"])
	assert.Equal(t, cabID, resp["parent"].(map[string]interface{})["id"])
	assert.Len(t, resp["containers"].([]interface{}), 1)
	assert.Empty(t, resp["children"])

	assert.Equal(t, http.StatusNotFound, getReq(r, "/api/nodes/MISSING1").Code)
}

func TestNodeDelete_Cascade(t *testing.T) {
	r, _ := newAPISetup(t)
	cabID := createTestNode(t, r, "Cabinet", "Garage", nil)
	shelfID := createTestNode(t, r, "Shelf", "S1", cabID)
	w := postJSON(r, "/api/containers", map[string]interface{}{
		"type": "Box", "name": "Bits", "parent_id": shelfID,
	})
	boxID := decode(t, w)["id"].(string)
	postJSON(r, fmt.Sprintf("/api/containers/%s/items", boxID), map[string]interface{}{"name": "Rope"})

	w = deleteReq(r, "/api/nodes/"+cabID)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, getReq(r, "/api/nodes/"+shelfID).Code)
	assert.Equal(t, http.StatusNotFound, getReq(r, "/api/containers/"+boxID).Code)
}

func TestContainerDetail(t *testing.T) {
	r, _ := newAPISetup(t)
	cabID := createTestNode(t, r, "Cabinet", "Garage", nil)
	shelfID := createTestNode(t, r, "Shelf", "S1", cabID)
	w := postJSON(r, "/api/containers", map[string]interface{}{
		"type": "Box", "name": "Bits", "parent_id": shelfID,
	})
	boxID := decode(t, w)["id"].(string)

	w = getReq(r, "/api/containers/"+boxID)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, boxID, resp["container"].(map[string]interface{})["id"])
	assert.Equal(t, shelfID, resp["parent"].(map[string]interface{})["id"])
	assert.Equal(t, cabID, resp["top"].(map[string]interface{})["id"])
}

func TestContainerCreate_RuleViolation(t *testing.T) {
	r, _ := newAPISetup(t)
	cabID := createTestNode(t, r, "Cabinet", "Garage", nil)
	drawerID := createTestNode(t, r, "Drawer", "D1", cabID)

	w := postJSON(r, "/api/containers", map[string]interface{}{
		"type": "Box", "name": "Too big", "parent_id": drawerID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContainerQRPNG(t *testing.T) {
	r, _ := newAPISetup(t)
	boxID := createTestContainer(t, r)

	w := getReq(r, fmt.Sprintf("/api/containers/%s/qr.png", boxID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, getReq(r, "/api/containers/MISSING1/qr.png").Code)
}

func TestContainerRefreshQR(t *testing.T) {
	r, _ := newAPISetup(t)
	boxID := createTestContainer(t, r)

	w := postJSON(r, fmt.Sprintf("/api/containers/%s/qr/refresh", boxID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContainerMove(t *testing.T) {
	r, _ := newAPISetup(t)
	cabID := createTestNode(t, r, "Cabinet", "Garage", nil)
	shelfID := createTestNode(t, r, "Shelf", "S1", cabID)
	drawerID := createTestNode(t, r, "Drawer", "D1", cabID)
	w := postJSON(r, "/api/containers", map[string]interface{}{
		"type": "Box", "name": "Bits", "parent_id": shelfID,
	})
	boxID := decode(t, w)["id"].(string)

	// A box cannot be moved into a drawer.
	w = postJSON(r, fmt.Sprintf("/api/containers/%s/move", boxID), map[string]interface{}{
		"dest_parent_id": drawerID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	shelf2 := createTestNode(t, r, "Shelf", "S2", cabID)
	w = postJSON(r, fmt.Sprintf("/api/containers/%s/move", boxID), map[string]interface{}{
		"dest_parent_id": shelf2,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestContainerDelete(t *testing.T) {
	r, _ := newAPISetup(t)
	boxID := createTestContainer(t, r)

	w := deleteReq(r, "/api/containers/"+boxID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["parent_id"])

	assert.Equal(t, http.StatusNotFound, deleteReq(r, "/api/containers/"+boxID).Code)
}

func TestSearchEndpoint(t *testing.T) {
	r, _ := newAPISetup(t)
	boxID := createTestContainer(t, r)
	postJSON(r, fmt.Sprintf("/api/containers/%s/items", boxID), map[string]interface{}{
		"name": "Claw hammer",
	})

	w := getReq(r, "/api/search?q=hammer")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "hammer", resp["q"])
	results := resp["results"].([]interface{})
	require.Len(t, results, 1)
	hit := results[0].(map[string]interface{})
	assert.Equal(t, boxID, hit["container"].(map[string]interface{})["id"])

	// An empty query returns an empty list, not an error.
	w = getReq(r, "/api/search?q=")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["results"])
}
