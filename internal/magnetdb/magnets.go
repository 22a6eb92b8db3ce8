package magnetdb

import (
	"context"
	"net/http"
)

// MagnetService reaches /api/magnets and the magnet_parts link table.
type MagnetService struct {
	client *Client
}

// AddPartParams attaches a part to a magnet. Nil geometry fields are not sent;
// an explicit zero is.
type AddPartParams struct {
	MagnetID  int64
	PartID    int64
	InnerBore *float64
	OuterBore *float64
	Angle     *float64
}

func (p AddPartParams) fields() []formField {
	return []formField{
		{name: "magnet_id", value: p.MagnetID},
		{name: "part_id", value: p.PartID},
		{name: "inner_bore", value: p.InnerBore},
		{name: "outer_bore", value: p.OuterBore},
		{name: "angle", value: p.Angle},
	}
}

// List returns one page of magnets.
func (s *MagnetService) List(ctx context.Context, opts ListOptions) (*Page[Magnet], error) {
	var page Page[Magnet]
	err := s.client.do(ctx, "list magnets", request{
		method: http.MethodGet,
		path:   "/api/magnets",
		query:  opts.values(false),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Find fetches a single magnet with its parts and sites.
func (s *MagnetService) Find(ctx context.Context, id int64) (*Magnet, error) {
	return s.send(ctx, "find magnet", http.MethodGet, "/api/magnets/{id}", id)
}

// Create submits a new magnet.
func (s *MagnetService) Create(ctx context.Context, values Values) (*Magnet, error) {
	form, err := buildForm(values.fields(), omitFalsy)
	if err != nil {
		return nil, err
	}
	var magnet Magnet
	err = s.client.do(ctx, "create magnet", request{
		method:    http.MethodPost,
		path:      "/api/magnets",
		form:      form,
		multipart: true,
	}, &magnet)
	if err != nil {
		return nil, err
	}
	return &magnet, nil
}

// Update patches an existing magnet.
func (s *MagnetService) Update(ctx context.Context, id int64, values Values) (*Magnet, error) {
	form, err := buildForm(values.fields(), omitFalsy)
	if err != nil {
		return nil, err
	}
	var magnet Magnet
	err = s.client.do(ctx, "update magnet", request{
		method:     http.MethodPatch,
		path:       "/api/magnets/{id}",
		pathParams: map[string]string{"id": idParam(id)},
		form:       form,
		multipart:  true,
	}, &magnet)
	if err != nil {
		return nil, err
	}
	return &magnet, nil
}

// DecommissionPart ends the service of a part inside a magnet.
func (s *MagnetService) DecommissionPart(ctx context.Context, magnetID, partID int64) (*MagnetPart, error) {
	var link MagnetPart
	err := s.client.do(ctx, "decommission part", request{
		method: http.MethodPost,
		path:   "/api/magnets/{id}/parts/{partId}/decommission",
		pathParams: map[string]string{
			"id":     idParam(magnetID),
			"partId": idParam(partID),
		},
	}, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Defunct retires a magnet.
func (s *MagnetService) Defunct(ctx context.Context, id int64) (*Magnet, error) {
	return s.send(ctx, "defunct magnet", http.MethodPost, "/api/magnets/{id}/defunct", id)
}

// Destroy deletes a magnet.
func (s *MagnetService) Destroy(ctx context.Context, id int64) (*Magnet, error) {
	return s.send(ctx, "destroy magnet", http.MethodDelete, "/api/magnets/{id}", id)
}

// AddPart links a part into a magnet.
func (s *MagnetService) AddPart(ctx context.Context, params AddPartParams) (*MagnetPart, error) {
	form, err := buildForm(params.fields(), omitUnset)
	if err != nil {
		return nil, err
	}
	var link MagnetPart
	err = s.client.do(ctx, "add part", request{
		method:    http.MethodPost,
		path:      "/api/magnet_parts",
		form:      form,
		multipart: true,
	}, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// DeletePart removes a magnet/part link.
func (s *MagnetService) DeletePart(ctx context.Context, magnetPartID int64) (*MagnetPart, error) {
	var link MagnetPart
	if err := s.client.do(ctx, "delete part", idRequest(http.MethodDelete, "/api/magnet_parts/{id}", magnetPartID), &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *MagnetService) send(ctx context.Context, op, method, path string, id int64) (*Magnet, error) {
	var magnet Magnet
	if err := s.client.do(ctx, op, idRequest(method, path, id), &magnet); err != nil {
		return nil, err
	}
	return &magnet, nil
}
