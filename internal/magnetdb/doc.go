// Package magnetdb provides an HTTP client for the MagnetDB API.
//
// # Overview
//
// MagnetDB tracks magnets, the parts they are assembled from and the sites
// they are installed on. This package maps each API resource onto a service
// hanging off Client:
//
//   - Magnets: /api/magnets and the /api/magnet_parts link table
//   - Parts: /api/parts, per-part geometries, sites, records and geometry.yaml
//   - Sites: /api/sites and the /api/site_magnets link table
//   - MeshAttachments: /api/mesh_attachments
//
// # Client Usage
//
//	client, err := magnetdb.NewClient("http://127.0.0.1:8000", magnetdb.Options{Token: token})
//	if err != nil {
//		return err
//	}
//
//	page, err := client.Magnets.List(ctx, magnetdb.ListOptions{Status: "in_study", PerPage: 10})
//	if err != nil {
//		return err
//	}
//
//	magnet, err := client.Magnets.Find(ctx, page.Items[0].ID)
//
// # Query Parameters
//
// ListOptions fields map onto snake_case query parameters: query, page,
// per_page, sort_by, sort_desc, status and type (parts only). Zero values are
// left out so the server defaults apply.
//
// # Form Bodies
//
// Writes are sent as multipart/form-data. Two omission policies exist and
// must not be merged:
//
//   - Create, Update, CreateGeometry and MeshAttachments.Create take Values
//     and drop falsy entries: nil, "", 0, NaN, false, nil pointers and
//     uploads without a reader.
//   - AddPart and AddMagnet take typed params whose optional numbers are
//     pointers. Only nil is dropped, so Float(0) submits "0".
//
// Upload values become file parts. Maps, slices and structs are sent as JSON
// text, which is what the server expects for fields such as metadata.
//
// # Error Handling
//
// Calls are sent once; there are no retries. A non-2xx answer is returned as
// *APIError carrying the status code and the server's detail message:
//
//	if errors.Is(err, magnetdb.ErrNotFound) {
//		// 404
//	}
//
// Transport and decode failures are wrapped with the operation name, for
// example "find magnet: execute request: dial tcp: connection refused".
//
// # Timestamps
//
// Timestamps are kept as the strings the server sent. ParseTime understands
// RFC 3339 and the zone-less isoformat() layout, returning the zero time for
// anything else.
//
// # Thread Safety
//
// A Client is safe for concurrent use.
package magnetdb
