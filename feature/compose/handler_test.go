package compose

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doc-composer/core/docx"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, opts Options) *fiber.App {
	t.Helper()
	app := fiber.New()
	svc, _ := setupService(t, opts)
	feature := NewFeature(svc)
	require.NoError(t, feature.Load(app))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestLoader(t *testing.T) {
	svc, _ := setupService(t, defaultOptions())
	feature := NewFeature(svc)

	assert.Equal(t, "compose", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}

func TestHandleLibrary(t *testing.T) {
	app := setupTestApp(t, defaultOptions())

	resp, err := app.Test(httptest.NewRequest("GET", "/library", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp)
	items := body["items"].([]any)
	assert.Len(t, items, 4)
	assert.Empty(t, body["collisions"])
	first := items[0].(map[string]any)
	assert.Equal(t, "Conclusion", first["name"])
}

func TestHandleResolve(t *testing.T) {
	app := setupTestApp(t, defaultOptions())

	t.Run("Success", func(t *testing.T) {
		payload, _ := json.Marshal(ResolveRequest{Manifest: quarterly})
		resp := postJSON(t, app, "/resolve", string(payload))
		assert.Equal(t, 200, resp.StatusCode)

		body := decode(t, resp)
		results := body["results"].([]any)
		require.Len(t, results, 4)
		assert.Equal(t, "fuzzy", results[1].(map[string]any)["kind"])

		summary := body["summary"].(map[string]any)
		assert.EqualValues(t, 2, summary["exact"])
		assert.EqualValues(t, 1, summary["fuzzy"])
		assert.EqualValues(t, 1, summary["no_match"])
	})

	t.Run("Threshold Override", func(t *testing.T) {
		resp := postJSON(t, app, "/resolve", `{"manifest": "- Financial Data", "threshold": 0.5}`)
		assert.Equal(t, 200, resp.StatusCode)

		body := decode(t, resp)
		result := body["results"].([]any)[0].(map[string]any)
		assert.Equal(t, "fuzzy", result["kind"])
	})

	t.Run("Empty Manifest", func(t *testing.T) {
		resp := postJSON(t, app, "/resolve", `{"manifest": "no bullets here"}`)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Missing Manifest", func(t *testing.T) {
		resp := postJSON(t, app, "/resolve", `{}`)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Contains(t, decode(t, resp)["error"], "manifest is required")
	})

	t.Run("Threshold Out Of Range", func(t *testing.T) {
		resp := postJSON(t, app, "/resolve", `{"manifest": "- x", "threshold": 2}`)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		resp := postJSON(t, app, "/resolve", `{`)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleCompose(t *testing.T) {
	app := setupTestApp(t, defaultOptions())

	t.Run("Accept Fuzzy", func(t *testing.T) {
		payload, _ := json.Marshal(ComposeRequest{Manifest: quarterly, AcceptFuzzy: true})
		resp := postJSON(t, app, "/compose", string(payload))
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, docx.MediaType, resp.Header.Get("Content-Type"))
		assert.Equal(t, "3", resp.Header.Get("X-Compose-Pages"))
		assert.Equal(t, "1", resp.Header.Get("X-Compose-Skipped"))

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		doc, err := docx.Open(data)
		require.NoError(t, err)
		paras, err := doc.Paragraphs()
		require.NoError(t, err)
		assert.Contains(t, paras, "Executive-Summary")
	})

	t.Run("Reject Fuzzy", func(t *testing.T) {
		payload, _ := json.Marshal(ComposeRequest{Manifest: quarterly})
		resp := postJSON(t, app, "/compose", string(payload))
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-Compose-Pages"))
	})

	t.Run("Local Master Refused", func(t *testing.T) {
		resp := postJSON(t, app, "/compose", `{"manifest": "- Cover Page", "master": "/etc/master.docx"}`)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Nothing To Compose", func(t *testing.T) {
		resp := postJSON(t, app, "/compose", `{"manifest": "- Glossary"}`)
		assert.Equal(t, 422, resp.StatusCode)
	})
}

func TestHandleCompose_Abort(t *testing.T) {
	opts := defaultOptions()
	opts.OnReject = RejectAbort
	app := setupTestApp(t, opts)

	resp := postJSON(t, app, "/compose", `{"manifest": "- Executive Sumary"}`)
	assert.Equal(t, 409, resp.StatusCode)
}
