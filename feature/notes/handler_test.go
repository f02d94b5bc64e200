package notes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupNotesApp(t *testing.T) (*fiber.App, *notes.MemStore) {
	store := notes.NewMemStore()
	app := fiber.New()
	notes.NewHandler(notes.NewService(store, zap.NewNop())).RegisterRoutes(app)
	return app, store
}

func TestHandler_CreateNote(t *testing.T) {
	app, store := setupNotesApp(t)

	payload, err := json.Marshal(notes.CreateNoteRequest{
		Kind:    models.KindImport,
		Name:    "Morning delivery",
		Details: []notes.CreateDetailInput{{Code: "12", TargetQuantity: 4}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/notes/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var note models.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	assert.NotEmpty(t, note.ID)

	stored, err := store.GetNote(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning delivery", stored.Name)
}

func TestHandler_CreateNote_BadRequest(t *testing.T) {
	app, _ := setupNotesApp(t)

	req := httptest.NewRequest("POST", "/notes/", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandler_GetNote(t *testing.T) {
	app, store := setupNotesApp(t)

	require.NoError(t, store.CreateNote(context.Background(),
		models.Note{ID: "n1", Kind: models.KindExport, Name: "Outbound", Status: models.StatusCreated}, nil,
	))

	resp, err := app.Test(httptest.NewRequest("GET", "/notes/n1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var note models.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))
	assert.Equal(t, "Outbound", note.Name)

	missing, err := app.Test(httptest.NewRequest("GET", "/notes/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, missing.StatusCode)
}

func TestHandler_ListNotes(t *testing.T) {
	app, store := setupNotesApp(t)
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx, models.Note{ID: "n1", Kind: models.KindImport, Status: models.StatusCreated}, nil))
	require.NoError(t, store.CreateNote(ctx, models.Note{ID: "n2", Kind: models.KindExport, Status: models.StatusCreated}, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/notes/?kind=export", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result []models.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result, 1)
	assert.Equal(t, "n2", result[0].ID)

	bad, err := app.Test(httptest.NewRequest("GET", "/notes/?kind=lease", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, bad.StatusCode)
}

func TestHandler_GetProgress(t *testing.T) {
	app, store := setupNotesApp(t)

	require.NoError(t, store.CreateNote(context.Background(),
		models.Note{ID: "n1", Kind: models.KindImport, Status: models.StatusCreated},
		[]models.Detail{
			{ID: "d1", NoteID: "n1", Code: "12", TargetQuantity: 4, FulfilledQuantity: 1, Status: models.DetailPending},
		},
	))

	resp, err := app.Test(httptest.NewRequest("GET", "/notes/n1/progress", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var progress notes.Progress
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&progress))
	assert.Equal(t, 1, progress.Scanned)
	assert.Equal(t, 4, progress.Target)
}
