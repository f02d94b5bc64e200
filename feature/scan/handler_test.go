package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupHandlerApp(t *testing.T) (*fiber.App, *notes.MemStore) {
	store := notes.NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "imp", Kind: models.KindImport, Status: models.StatusCreated},
		[]models.Detail{{ID: "i1", NoteID: "imp", Code: "12", TargetQuantity: 2, Status: models.DetailPending}},
	))
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "exp", Kind: models.KindExport, Status: models.StatusFulfilled},
		[]models.Detail{{ID: "e1", NoteID: "exp", Code: "1234", TargetQuantity: 1, FulfilledQuantity: 1,
			Series: []string{"A1B2"}, Status: models.DetailFulfilled}},
	))
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "war", Kind: models.KindWarranty, Status: models.StatusCreated}, nil,
	))

	app := fiber.New()
	service := NewService(store, nil, "", nil, zap.NewNop(), DefaultConfig())
	NewHandler(service).RegisterRoutes(app)
	return app, store
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestHandler_HandleScan(t *testing.T) {
	t.Run("RecordsScan", func(t *testing.T) {
		app, _ := setupHandlerApp(t)

		status, body := postJSON(t, app, "/scan/imp", scanRequest{Kind: "import", Code: "12"})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, float64(1), body["new_count"])
	})

	t.Run("NoMatchIsBusinessRejection", func(t *testing.T) {
		app, _ := setupHandlerApp(t)

		status, body := postJSON(t, app, "/scan/imp", scanRequest{Kind: "import", Code: "99"})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, false, body["ok"])
	})

	t.Run("InvalidKind", func(t *testing.T) {
		app, _ := setupHandlerApp(t)

		status, _ := postJSON(t, app, "/scan/imp", scanRequest{Kind: "lease", Code: "12"})
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		app, _ := setupHandlerApp(t)

		req := httptest.NewRequest("POST", "/scan/imp", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandler_HandleClaim(t *testing.T) {
	t.Run("RecordsClaim", func(t *testing.T) {
		app, _ := setupHandlerApp(t)

		status, body := postJSON(t, app, "/scan/war/claim", claimRequest{Series: "A1B2"})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, true, body["item_completed"])
	})

	t.Run("UnknownSeries", func(t *testing.T) {
		app, _ := setupHandlerApp(t)

		status, body := postJSON(t, app, "/scan/war/claim", claimRequest{Series: "ZZZZ"})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, false, body["ok"])
	})
}

func TestHandler_Session(t *testing.T) {
	app, _ := setupHandlerApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/scan/imp/session", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap SessionSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "imp", snap.NoteID)
	assert.Equal(t, 2, snap.Target)
	assert.False(t, snap.AllSatisfied)

	del, err := app.Test(httptest.NewRequest("DELETE", "/scan/imp/session", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, del.StatusCode)
}
