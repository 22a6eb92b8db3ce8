package magnetdb

import (
	"context"
	"net/http"
)

// MeshAttachmentService reaches /api/mesh_attachments.
type MeshAttachmentService struct {
	client *Client
}

// Create uploads a mesh. The server expects resource_type ("magnet" or
// "site"), resource_id, type (axi or 3d) and a file Upload.
func (s *MeshAttachmentService) Create(ctx context.Context, values Values) (*MeshAttachment, error) {
	form, err := buildForm(values.fields(), omitFalsy)
	if err != nil {
		return nil, err
	}
	var mesh MeshAttachment
	err = s.client.do(ctx, "create mesh attachment", request{
		method:    http.MethodPost,
		path:      "/api/mesh_attachments",
		form:      form,
		multipart: true,
	}, &mesh)
	if err != nil {
		return nil, err
	}
	return &mesh, nil
}

// Destroy deletes a mesh attachment.
func (s *MeshAttachmentService) Destroy(ctx context.Context, id int64) (*MeshAttachment, error) {
	var mesh MeshAttachment
	if err := s.client.do(ctx, "destroy mesh attachment", idRequest(http.MethodDelete, "/api/mesh_attachments/{id}", id), &mesh); err != nil {
		return nil, err
	}
	return &mesh, nil
}
