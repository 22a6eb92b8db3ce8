package magnetdb

import (
	"context"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

// PartService reaches /api/parts and the per-part geometry files.
type PartService struct {
	client *Client
}

// GeometryConfig is the decoded geometry.yaml of a part. The document is a
// tagged object such as {"__tag__": "Helix", "__value__": {...}}.
type GeometryConfig struct {
	Raw   []byte         `yaml:"-"`
	Tag   string         `yaml:"__tag__"`
	Value map[string]any `yaml:"__value__"`
}

// List returns one page of parts. Parts are the only index honouring Type.
func (s *PartService) List(ctx context.Context, opts ListOptions) (*Page[Part], error) {
	var page Page[Part]
	err := s.client.do(ctx, "list parts", request{
		method: http.MethodGet,
		path:   "/api/parts",
		query:  opts.values(true),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Find fetches a part with its material, attachments and magnets.
func (s *PartService) Find(ctx context.Context, id int64) (*Part, error) {
	return s.send(ctx, "find part", http.MethodGet, "/api/parts/{id}", id)
}

// Create submits a new part.
func (s *PartService) Create(ctx context.Context, values Values) (*Part, error) {
	return s.submit(ctx, "create part", http.MethodPost, "/api/parts", nil, values)
}

// Update patches an existing part.
func (s *PartService) Update(ctx context.Context, id int64, values Values) (*Part, error) {
	return s.submit(ctx, "update part", http.MethodPatch, "/api/parts/{id}",
		map[string]string{"id": idParam(id)}, values)
}

// Defunct retires a part.
func (s *PartService) Defunct(ctx context.Context, id int64) (*Part, error) {
	return s.send(ctx, "defunct part", http.MethodPost, "/api/parts/{id}/defunct", id)
}

// Destroy deletes a part.
func (s *PartService) Destroy(ctx context.Context, id int64) (*Part, error) {
	return s.send(ctx, "destroy part", http.MethodDelete, "/api/parts/{id}", id)
}

// CreateGeometry uploads the geometry file of one type, replacing any
// previous one. Values usually carry "type" and an "attachment" Upload.
func (s *PartService) CreateGeometry(ctx context.Context, partID int64, values Values) (*PartGeometry, error) {
	form, err := buildForm(values.fields(), omitFalsy)
	if err != nil {
		return nil, err
	}
	var geometry PartGeometry
	err = s.client.do(ctx, "create geometry", request{
		method:     http.MethodPost,
		path:       "/api/parts/{id}/geometries",
		pathParams: map[string]string{"id": idParam(partID)},
		form:       form,
		multipart:  true,
	}, &geometry)
	if err != nil {
		return nil, err
	}
	return &geometry, nil
}

// DeleteGeometry removes the geometry file stored under typ.
func (s *PartService) DeleteGeometry(ctx context.Context, partID int64, typ string) (*PartGeometry, error) {
	var geometry PartGeometry
	err := s.client.do(ctx, "delete geometry", request{
		method: http.MethodDelete,
		path:   "/api/parts/{id}/geometries/{type}",
		pathParams: map[string]string{
			"id":   idParam(partID),
			"type": typ,
		},
	}, &geometry)
	if err != nil {
		return nil, err
	}
	return &geometry, nil
}

// Sites lists the sites the part is installed on through its magnets.
func (s *PartService) Sites(ctx context.Context, id int64) ([]Site, error) {
	var payload struct {
		Sites []Site `json:"sites"`
	}
	if err := s.client.do(ctx, "part sites", idRequest(http.MethodGet, "/api/parts/{id}/sites", id), &payload); err != nil {
		return nil, err
	}
	return payload.Sites, nil
}

// Records lists the measurement records of every site the part reached.
func (s *PartService) Records(ctx context.Context, id int64) ([]Record, error) {
	var payload struct {
		Records []Record `json:"records"`
	}
	if err := s.client.do(ctx, "part records", idRequest(http.MethodGet, "/api/parts/{id}/records", id), &payload); err != nil {
		return nil, err
	}
	return payload.Records, nil
}

// GeometryConfig downloads and decodes the part's geometry.yaml.
func (s *PartService) GeometryConfig(ctx context.Context, id int64) (*GeometryConfig, error) {
	const op = "part geometry config"
	resp, err := s.client.execute(ctx, op, idRequest(http.MethodGet, "/api/parts/{id}/geometry.yaml", id))
	if err != nil {
		return nil, err
	}
	cfg := GeometryConfig{Raw: resp.Body()}
	if err := yaml.Unmarshal(cfg.Raw, &cfg); err != nil {
		return nil, fmt.Errorf("%s: decode yaml: %w", op, err)
	}
	return &cfg, nil
}

func (s *PartService) send(ctx context.Context, op, method, path string, id int64) (*Part, error) {
	var part Part
	if err := s.client.do(ctx, op, idRequest(method, path, id), &part); err != nil {
		return nil, err
	}
	return &part, nil
}

func (s *PartService) submit(ctx context.Context, op, method, path string, params map[string]string, values Values) (*Part, error) {
	form, err := buildForm(values.fields(), omitFalsy)
	if err != nil {
		return nil, err
	}
	var part Part
	err = s.client.do(ctx, op, request{
		method:     method,
		path:       path,
		pathParams: params,
		form:       form,
		multipart:  true,
	}, &part)
	if err != nil {
		return nil, err
	}
	return &part, nil
}
