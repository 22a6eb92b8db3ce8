package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magnetdb/magnetcli/internal/format"
	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

func partsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:     "parts",
		Aliases: []string{"part"},
		Short:   "List and manage parts",
	}

	c.AddCommand(
		partsListCmd(opts),
		partsShowCmd(opts),
		partsCreateCmd(opts),
		partsUpdateCmd(opts),
		partsDeleteCmd(opts),
		partsDefunctCmd(opts),
		partsAddGeometryCmd(opts),
		partsRemoveGeometryCmd(opts),
		partsSitesCmd(opts),
		partsRecordsCmd(opts),
		partsGeometryCmd(opts),
	)
	return c
}

func partsListCmd(opts *rootOptions) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				page, err := s.env.Client.Parts.List(ctx, list.opts)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(page.Items))
				for _, p := range page.Items {
					var material string
					if p.Material != nil {
						material = p.Material.Name
					}
					rows = append(rows, []string{
						idString(p.ID),
						p.Name,
						format.Humanize(p.Type),
						statusCell(p.Status),
						material,
						format.Date(p.UpdatedAt),
					})
				}
				if err := s.out.table(page, []string{"ID", "Name", "Type", "Status", "Material", "Updated"}, rows); err != nil {
					return err
				}
				return s.out.pageFooter(page.CurrentPage, page.LastPage, page.Total)
			})
		},
	}

	list.register(cmd, true)
	return cmd
}

func partsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a part with its geometries and magnets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				part, err := s.env.Client.Parts.Find(ctx, id)
				if err != nil {
					return err
				}
				return s.out.record(part, partFields(part), geometriesSection(part), partMagnetsSection(part.MagnetParts))
			})
		},
	}
}

func partsCreateCmd(opts *rootOptions) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a part from --set and --file fields",
		Example: `  magnetcli parts create --set name=H15101601 --set type=helix --set material_id=3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				values, closer, err := form.values()
				if err != nil {
					return err
				}
				defer closer.Close()

				part, err := s.env.Client.Parts.Create(ctx, values)
				if err != nil {
					return err
				}
				return s.out.done(part, "created part #%d %s", part.ID, part.Name)
			})
		},
	}

	form.register(cmd)
	return cmd
}

func partsUpdateCmd(opts *rootOptions) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a part from --set and --file fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if form.empty() {
				return errors.New("nothing to update: pass --set or --file")
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				values, closer, err := form.values()
				if err != nil {
					return err
				}
				defer closer.Close()

				part, err := s.env.Client.Parts.Update(ctx, id, values)
				if err != nil {
					return err
				}
				return s.out.done(part, "updated part #%d %s", part.ID, part.Name)
			})
		},
	}

	form.register(cmd)
	return cmd
}

func partsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				part, err := s.env.Client.Parts.Destroy(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(part, "deleted part #%d", id)
			})
		},
	}
}

func partsDefunctCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "defunct ID",
		Short: "Retire a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				part, err := s.env.Client.Parts.Defunct(ctx, id)
				if err != nil {
					return err
				}
				return s.out.done(part, "part #%d is now %s", part.ID, format.StatusLabel(part.Status))
			})
		},
	}
}

func partsAddGeometryCmd(opts *rootOptions) *cobra.Command {
	var (
		form formFlags
		typ  string
		file string
	)

	cmd := &cobra.Command{
		Use:   "add-geometry PART_ID",
		Short: "Upload a geometry file for a part",
		Example: `  magnetcli parts add-geometry 12 --type default --attachment H1.yaml
  magnetcli parts add-geometry 12 --set type=salome --file attachment=H1.xao`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if typ != "" {
				form.sets = append(form.sets, "type="+typ)
			}
			if file != "" {
				form.files = append(form.files, "attachment="+file)
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				values, closer, err := form.values()
				if err != nil {
					return err
				}
				defer closer.Close()

				geometry, err := s.env.Client.Parts.CreateGeometry(ctx, id, values)
				if err != nil {
					return err
				}
				return s.out.done(geometry, "stored %s geometry for part #%d", orDefault(geometry.Type, typ), id)
			})
		},
	}

	form.register(cmd)
	cmd.Flags().StringVar(&typ, "type", "", "geometry type, e.g. default, salome, catia, cam, shape, hts")
	cmd.Flags().StringVar(&file, "attachment", "", "geometry file to upload")
	return cmd
}

func partsRemoveGeometryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-geometry PART_ID TYPE",
		Short: "Delete the geometry file of one type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				geometry, err := s.env.Client.Parts.DeleteGeometry(ctx, id, args[1])
				if err != nil {
					return err
				}
				return s.out.done(geometry, "removed %s geometry from part #%d", args[1], id)
			})
		},
	}
}

func partsSitesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sites PART_ID",
		Short: "List the sites a part is installed on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				sites, err := s.env.Client.Parts.Sites(ctx, id)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(sites))
				for _, site := range sites {
					rows = append(rows, []string{idString(site.ID), site.Name, statusCell(site.Status), format.Date(site.UpdatedAt)})
				}
				return s.out.table(sites, []string{"ID", "Name", "Status", "Updated"}, rows)
			})
		},
	}
}

func partsRecordsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "records PART_ID",
		Short: "List the measurement records of a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				records, err := s.env.Client.Parts.Records(ctx, id)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					var file string
					if r.Attachment != nil {
						file = r.Attachment.Filename
					}
					rows = append(rows, []string{idString(r.ID), r.Name, file, format.DateTime(r.CreatedAt)})
				}
				return s.out.table(records, []string{"ID", "Name", "File", "Created"}, rows)
			})
		},
	}
}

func partsGeometryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "geometry PART_ID",
		Short: "Print the part's generated geometry.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				config, err := s.env.Client.Parts.GeometryConfig(ctx, id)
				if err != nil {
					return err
				}
				if s.out.json {
					return s.out.writeJSON(config)
				}
				_, err = fmt.Fprint(s.out.w, string(config.Raw))
				return err
			})
		},
	}
}

func partFields(p *magnetdb.Part) []field {
	var material string
	if p.Material != nil {
		material = p.Material.Name
		if p.Material.Nuance != "" {
			material += " (" + p.Material.Nuance + ")"
		}
	}
	fields := []field{
		{"ID", idString(p.ID)},
		{"Name", p.Name},
		{"Type", format.Humanize(p.Type)},
		{"Status", statusCell(p.Status)},
		{"Description", p.Description},
		{"Design ref.", p.DesignOfficeReference},
		{"Material", material},
		{"Created", format.DateTime(p.CreatedAt)},
		{"Updated", format.DateTime(p.UpdatedAt)},
	}
	if p.AllowHTSFile || p.HTS != nil {
		fields = append(fields, field{"HTS file", attachmentName(p.HTS)})
	}
	if p.AllowShapeFile || p.Shape != nil {
		fields = append(fields, field{"Shape file", attachmentName(p.Shape)})
	}
	return fields
}

func geometriesSection(p *magnetdb.Part) section {
	s := section{title: "Geometries", headers: []string{"Type", "File", "Uploaded"}}
	for _, typ := range magnetdb.GeometryTypes(p.Type) {
		g, ok := p.GeometryByType(typ)
		if !ok || g.Attachment == nil {
			s.rows = append(s.rows, []string{typ, "", ""})
			continue
		}
		s.rows = append(s.rows, []string{typ, g.Attachment.Filename, format.Date(g.Attachment.CreatedAt)})
	}
	return s
}

func partMagnetsSection(links []magnetdb.MagnetPart) section {
	s := section{
		title:   "Magnets",
		headers: []string{"Link", "Magnet", "Status", "Commissioned", "Decommissioned"},
	}
	for _, mp := range links {
		var name, status string
		if mp.Magnet != nil {
			name = "#" + idString(mp.Magnet.ID) + " " + mp.Magnet.Name
			status = statusCell(mp.Magnet.Status)
		}
		s.rows = append(s.rows, []string{
			idString(mp.ID),
			name,
			status,
			format.Date(mp.CommissionedAt),
			format.Date(mp.DecommissionedAt),
		})
	}
	return s
}

func attachmentName(a *magnetdb.Attachment) string {
	if a == nil {
		return ""
	}
	return a.Filename
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
