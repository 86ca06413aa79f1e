package orderControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/armkstore/ecommerce-api/models"
)

func TestExportOrdersToExcel(t *testing.T) {
	db := setupTestDB(t)
	user := seedTestUser(t, db, "Asha", "asha@example.com")
	seedOrder(t, db, user, "ref-export", time.Now())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/admin/orders/export-excel", ExportOrdersToExcel(db))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/export-excel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "orders.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	require.GreaterOrEqual(t, len(sheet.Rows), 2, "header plus one data row")
	assert.Equal(t, "OrderRef", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "ref-export", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Asha", sheet.Rows[1].Cells[1].String())
	assert.Equal(t, "asha@example.com", sheet.Rows[1].Cells[2].String())
	assert.Equal(t, "Kochi", sheet.Rows[1].Cells[8].String())
}

func TestOrderFeedBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", OrderFeedHandler)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The handler registers the client before entering its read loop; give it
	// a moment on slow runners.
	require.Eventually(t, func() bool {
		wsMu.Lock()
		defer wsMu.Unlock()
		return len(wsClients) > 0
	}, time.Second, 10*time.Millisecond)

	BroadcastOrderUpdate(models.Order{OrderRef: "ref-live", TotalPrice: 1000})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Order
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "ref-live", got.OrderRef)
}

func TestBroadcastWithNoListeners(t *testing.T) {
	assert.NotPanics(t, func() {
		BroadcastOrderUpdate(models.Order{OrderRef: "ref-nobody"})
	})
}
