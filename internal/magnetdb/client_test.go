package magnetdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := &log.Logger{Handler: discard.Default, Level: log.DebugLevel}
	c, err := NewClient(server.URL, Options{Logger: logger, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseForm(t *testing.T, r *http.Request) (url.Values, map[string]string) {
	t.Helper()
	require.NoError(t, r.ParseMultipartForm(1<<20))
	files := map[string]string{}
	for name, headers := range r.MultipartForm.File {
		f, err := headers[0].Open()
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		_ = f.Close()
		files[name] = headers[0].Filename + ":" + string(data)
	}
	return url.Values(r.MultipartForm.Value), files
}

func TestParseBaseURL(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, u.String())

	u, err = parseBaseURL("magnetdb.local:8000")
	require.NoError(t, err)
	assert.Equal(t, "http://magnetdb.local:8000", u.String())

	u, err = parseBaseURL("https://lab.example.org/magnetdb/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://lab.example.org/magnetdb", u.String())

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestListMapsOptionsToQuery(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(w, http.StatusOK, Page[Magnet]{CurrentPage: 2, LastPage: 3, Total: 21, Items: []Magnet{{ID: 7, Name: "M7"}}})
	})

	page, err := c.Magnets.List(testContext(t), ListOptions{
		Query: "x", Page: 2, PerPage: 10, SortBy: "name", SortDesc: true, Status: "defunct",
	})
	require.NoError(t, err)

	assert.Equal(t, url.Values{
		"page":      {"2"},
		"query":     {"x"},
		"sort_by":   {"name"},
		"sort_desc": {"true"},
		"per_page":  {"10"},
		"status":    {"defunct"},
	}, got)
	assert.Equal(t, 21, page.Total)
	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrev())
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(7), page.Items[0].ID)
}

func TestListOmitsZeroOptions(t *testing.T) {
	var raw string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		writeJSON(w, http.StatusOK, Page[Site]{CurrentPage: 1, LastPage: 1})
	})

	_, err := c.Sites.List(testContext(t), ListOptions{Type: "helix"})
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestListSendsQueryVerbatim(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(w, http.StatusOK, Page[Site]{CurrentPage: 1, LastPage: 1})
	})

	_, err := c.Sites.List(testContext(t), ListOptions{Query: " M1 "})
	require.NoError(t, err)
	assert.Equal(t, []string{" M1 "}, got["query"])

	_, err = c.Parts.List(testContext(t), ListOptions{Query: "  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"  "}, got["query"])
}

func TestListTypeOnlyForParts(t *testing.T) {
	queries := map[string]url.Values{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries[r.URL.Path] = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{"current_page": 1, "last_page": 1, "items": []any{}})
	})
	ctx := testContext(t)
	opts := ListOptions{Type: "helix", Status: "in_study"}

	_, err := c.Parts.List(ctx, opts)
	require.NoError(t, err)
	_, err = c.Magnets.List(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, "helix", queries["/api/parts"].Get("type"))
	assert.Equal(t, "in_study", queries["/api/parts"].Get("status"))
	assert.NotContains(t, queries["/api/magnets"], "type")
}

func TestSortDescSentWithSortBy(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(w, http.StatusOK, Page[Part]{})
	})

	_, err := c.Parts.List(testContext(t), ListOptions{SortBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, "false", got.Get("sort_desc"))
}

func TestFindIssuesSingleGetWithoutBody(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/magnets/42", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     42,
			"name":   "M42",
			"status": "in_study",
			"magnet_parts": []map[string]any{
				{"id": 1, "part": map[string]any{"id": 9, "name": "H1"}, "commissioned_at": "2024-01-02T03:04:05"},
				{"id": 2, "decommissioned_at": "2024-02-02T03:04:05"},
			},
		})
	})

	magnet, err := c.Magnets.Find(testContext(t), 42)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "M42", magnet.Name)
	require.Len(t, magnet.ActiveParts(), 1)
	assert.Equal(t, "H1", magnet.ActiveParts()[0].Part.Name)
}

func TestDecommissionPartPostsEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/magnets/1/parts/2/decommission", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		assert.Empty(t, r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 5, "decommissioned_at": "2024-03-01T00:00:00"})
	})

	link, err := c.Magnets.DecommissionPart(testContext(t), 1, 2)
	require.NoError(t, err)
	assert.False(t, link.Active())
}

func TestDecommissionPartToleratesEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	link, err := c.Magnets.DecommissionPart(testContext(t), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), link.ID)
}

func TestCreateOmitsFalsyValues(t *testing.T) {
	var (
		fields url.Values
		files  map[string]string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/magnets", r.URL.Path)
		fields, files = parseForm(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "name": "M3"})
	})

	var nilName *string
	magnet, err := c.Magnets.Create(testContext(t), Values{
		"name":                    "M3",
		"description":             "",
		"design_office_reference": nil,
		"count":                   0,
		"ratio":                   math.NaN(),
		"archived":                false,
		"alias":                   nilName,
		"cao":                     Upload{Filename: "empty.step"},
		"enabled":                 true,
		"inner":                   1.5,
		"metadata":                map[string]any{"a": 1},
		"geometry":                Upload{Filename: "M3.yaml", Reader: strings.NewReader("a: 1")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), magnet.ID)

	assert.Equal(t, url.Values{
		"name":     {"M3"},
		"enabled":  {"true"},
		"inner":    {"1.5"},
		"metadata": {`{"a":1}`},
	}, fields)
	assert.Equal(t, map[string]string{"geometry": "M3.yaml:a: 1"}, files)
}

func TestUpdatePatchesResource(t *testing.T) {
	var fields url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/parts/11", r.URL.Path)
		fields, _ = parseForm(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"id": 11, "name": "H11", "type": "helix"})
	})

	part, err := c.Parts.Update(testContext(t), 11, Values{
		"name":        "H11",
		"type":        "helix",
		"material_id": int64(4),
		"description": "",
	})
	require.NoError(t, err)
	assert.Equal(t, "helix", part.Type)
	assert.Equal(t, url.Values{
		"name":        {"H11"},
		"type":        {"helix"},
		"material_id": {"4"},
	}, fields)
}

func TestAddPartKeepsExplicitZero(t *testing.T) {
	var fields url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/magnet_parts", r.URL.Path)
		fields, _ = parseForm(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"id": 8, "outer_bore": 0})
	})

	link, err := c.Magnets.AddPart(testContext(t), AddPartParams{
		MagnetID:  3,
		PartID:    9,
		OuterBore: Float(0),
		Angle:     Float(12.5),
	})
	require.NoError(t, err)
	require.NotNil(t, link.OuterBore)
	assert.Zero(t, *link.OuterBore)

	assert.Equal(t, url.Values{
		"magnet_id":  {"3"},
		"part_id":    {"9"},
		"outer_bore": {"0"},
		"angle":      {"12.5"},
	}, fields)
}

func TestAddMagnetKeepsExplicitZero(t *testing.T) {
	var fields url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/site_magnets", r.URL.Path)
		fields, _ = parseForm(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"id": 4})
	})

	_, err := c.Sites.AddMagnet(testContext(t), AddMagnetParams{
		SiteID:   1,
		MagnetID: 2,
		ZOffset:  Float(0),
		Parallax: Float(-0.25),
	})
	require.NoError(t, err)
	assert.Equal(t, url.Values{
		"site_id":   {"1"},
		"magnet_id": {"2"},
		"z_offset":  {"0"},
		"parallax":  {"-0.25"},
	}, fields)
}

func TestLifecycleEndpoints(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	})
	ctx := testContext(t)

	_, err := c.Magnets.Defunct(ctx, 1)
	require.NoError(t, err)
	_, err = c.Magnets.DeletePart(ctx, 2)
	require.NoError(t, err)
	_, err = c.Magnets.Destroy(ctx, 3)
	require.NoError(t, err)
	_, err = c.Parts.Defunct(ctx, 4)
	require.NoError(t, err)
	_, err = c.Parts.DeleteGeometry(ctx, 5, "salome")
	require.NoError(t, err)
	_, err = c.Parts.Destroy(ctx, 6)
	require.NoError(t, err)
	_, err = c.Sites.PutInOperation(ctx, 7)
	require.NoError(t, err)
	_, err = c.Sites.Shutdown(ctx, 8)
	require.NoError(t, err)
	_, err = c.Sites.DeleteMagnet(ctx, 9)
	require.NoError(t, err)
	_, err = c.Sites.Destroy(ctx, 10)
	require.NoError(t, err)
	_, err = c.MeshAttachments.Destroy(ctx, 11)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/magnets/1/defunct",
		"DELETE /api/magnet_parts/2",
		"DELETE /api/magnets/3",
		"POST /api/parts/4/defunct",
		"DELETE /api/parts/5/geometries/salome",
		"DELETE /api/parts/6",
		"POST /api/sites/7/put_in_operation",
		"POST /api/sites/8/shutdown",
		"DELETE /api/site_magnets/9",
		"DELETE /api/sites/10",
		"DELETE /api/mesh_attachments/11",
	}, seen)
}

func TestCreateGeometryUploadsFile(t *testing.T) {
	var (
		fields url.Values
		files  map[string]string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/parts/5/geometries", r.URL.Path)
		fields, files = parseForm(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"id": 2, "type": "salome", "attachment": map[string]any{"id": 3, "filename": "H1.med"}})
	})

	geometry, err := c.Parts.CreateGeometry(testContext(t), 5, Values{
		"type":       "salome",
		"attachment": &Upload{Filename: "H1.med", Reader: strings.NewReader("mesh")},
	})
	require.NoError(t, err)
	assert.Equal(t, "H1.med", geometry.Attachment.Filename)
	assert.Equal(t, url.Values{"type": {"salome"}}, fields)
	assert.Equal(t, map[string]string{"attachment": "H1.med:mesh"}, files)
}

func TestMeshAttachmentCreate(t *testing.T) {
	var fields url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mesh_attachments", r.URL.Path)
		fields, _ = parseForm(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"id": 6, "type": "axi"})
	})

	mesh, err := c.MeshAttachments.Create(testContext(t), Values{
		"resource_type": "site",
		"resource_id":   12,
		"type":          MeshAxi,
		"file":          Upload{Filename: "site.msh", Reader: strings.NewReader("m")},
	})
	require.NoError(t, err)
	assert.Equal(t, MeshAxi, mesh.Type)
	assert.Equal(t, url.Values{
		"resource_type": {"site"},
		"resource_id":   {"12"},
		"type":          {"axi"},
	}, fields)
}

func TestPartSitesAndRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/parts/3/sites":
			writeJSON(w, http.StatusOK, map[string]any{"sites": []map[string]any{{"id": 1, "name": "M9"}}})
		case "/api/parts/3/records":
			writeJSON(w, http.StatusOK, map[string]any{"records": []map[string]any{{"id": 2, "name": "run.txt"}}})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := testContext(t)

	sites, err := c.Parts.Sites(ctx, 3)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "M9", sites[0].Name)

	records, err := c.Parts.Records(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "run.txt", records[0].Name)
}

func TestGeometryConfigDecodesYAML(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/parts/3/geometry.yaml", r.URL.Path)
		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = io.WriteString(w, "__tag__: Helix\n__value__:\n  name: H1\n  r: [19.3, 24.2]\n")
	})

	cfg, err := c.Parts.GeometryConfig(testContext(t), 3)
	require.NoError(t, err)
	assert.Equal(t, "Helix", cfg.Tag)
	assert.Equal(t, "H1", cfg.Value["name"])
	assert.Contains(t, string(cfg.Raw), "__tag__: Helix")
}

func TestNotFoundIsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Magnet not found"})
	})

	_, err := c.Magnets.Find(testContext(t), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrAPI))
	assert.False(t, errors.Is(err, ErrUnprocessable))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Equal(t, "/api/magnets/404", apiErr.Path)
	assert.Equal(t, "Magnet not found", apiErr.Detail)
}

func TestValidationErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []any{"body", "name"}, "msg": "field required"}},
		})
	})

	_, err := c.Sites.Create(testContext(t), Values{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnprocessable))
	assert.Contains(t, err.Error(), "name: field required")
}

func TestPlainTextErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := c.Parts.Find(testContext(t), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream exploded", apiErr.Detail)
}

func TestDecodeErrorIsWrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	})

	_, err := c.Sites.Find(testContext(t), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find site: decode response")
	assert.False(t, errors.Is(err, ErrAPI))
}

func TestTransportErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, Options{Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Magnets.Find(testContext(t), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find magnet: execute request")
}

func TestTokenAndUserAgentHeaders(t *testing.T) {
	var auth, agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		agent = r.Header.Get("User-Agent")
		writeJSON(w, http.StatusOK, Page[Magnet]{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{Token: " secret ", UserAgent: "tests/1"})
	require.NoError(t, err)
	_, err = c.Magnets.List(testContext(t), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "tests/1", agent)
}

func TestClientKeepsPathPrefix(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/magnetdb/", Options{})
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/magnetdb", c.BaseURL())
	_, err = c.Sites.Find(testContext(t), 1)
	require.NoError(t, err)
	assert.Equal(t, "/magnetdb/api/sites/1", path)
}
