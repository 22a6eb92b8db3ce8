package magnetdb

import (
	"context"
	"net/http"
)

// SiteService reaches /api/sites and the site_magnets link table.
type SiteService struct {
	client *Client
}

// AddMagnetParams installs a magnet on a site. Nil offsets are not sent; an
// explicit zero is.
type AddMagnetParams struct {
	SiteID   int64
	MagnetID int64
	ZOffset  *float64
	ROffset  *float64
	Parallax *float64
}

func (p AddMagnetParams) fields() []formField {
	return []formField{
		{name: "site_id", value: p.SiteID},
		{name: "magnet_id", value: p.MagnetID},
		{name: "z_offset", value: p.ZOffset},
		{name: "r_offset", value: p.ROffset},
		{name: "parallax", value: p.Parallax},
	}
}

// List returns one page of sites.
func (s *SiteService) List(ctx context.Context, opts ListOptions) (*Page[Site], error) {
	var page Page[Site]
	err := s.client.do(ctx, "list sites", request{
		method: http.MethodGet,
		path:   "/api/sites",
		query:  opts.values(false),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Find fetches a site with its installed magnets.
func (s *SiteService) Find(ctx context.Context, id int64) (*Site, error) {
	return s.send(ctx, "find site", http.MethodGet, "/api/sites/{id}", id)
}

// Create submits a new site.
func (s *SiteService) Create(ctx context.Context, values Values) (*Site, error) {
	return s.submit(ctx, "create site", request{method: http.MethodPost, path: "/api/sites"}, values)
}

// Update patches an existing site.
func (s *SiteService) Update(ctx context.Context, id int64, values Values) (*Site, error) {
	return s.submit(ctx, "update site", idRequest(http.MethodPatch, "/api/sites/{id}", id), values)
}

// PutInOperation commissions every magnet of the site.
func (s *SiteService) PutInOperation(ctx context.Context, id int64) (*Site, error) {
	return s.send(ctx, "put site in operation", http.MethodPost, "/api/sites/{id}/put_in_operation", id)
}

// Shutdown decommissions the site and its magnets.
func (s *SiteService) Shutdown(ctx context.Context, id int64) (*Site, error) {
	return s.send(ctx, "shutdown site", http.MethodPost, "/api/sites/{id}/shutdown", id)
}

// Destroy deletes a site.
func (s *SiteService) Destroy(ctx context.Context, id int64) (*Site, error) {
	return s.send(ctx, "destroy site", http.MethodDelete, "/api/sites/{id}", id)
}

// AddMagnet links a magnet to a site.
func (s *SiteService) AddMagnet(ctx context.Context, params AddMagnetParams) (*SiteMagnet, error) {
	form, err := buildForm(params.fields(), omitUnset)
	if err != nil {
		return nil, err
	}
	var link SiteMagnet
	err = s.client.do(ctx, "add magnet", request{
		method:    http.MethodPost,
		path:      "/api/site_magnets",
		form:      form,
		multipart: true,
	}, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteMagnet removes a site/magnet link.
func (s *SiteService) DeleteMagnet(ctx context.Context, siteMagnetID int64) (*SiteMagnet, error) {
	var link SiteMagnet
	if err := s.client.do(ctx, "delete magnet", idRequest(http.MethodDelete, "/api/site_magnets/{id}", siteMagnetID), &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *SiteService) send(ctx context.Context, op, method, path string, id int64) (*Site, error) {
	var site Site
	if err := s.client.do(ctx, op, idRequest(method, path, id), &site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *SiteService) submit(ctx context.Context, op string, req request, values Values) (*Site, error) {
	form, err := buildForm(values.fields(), omitFalsy)
	if err != nil {
		return nil, err
	}
	req.form = form
	req.multipart = true
	var site Site
	if err := s.client.do(ctx, op, req, &site); err != nil {
		return nil, err
	}
	return &site, nil
}
