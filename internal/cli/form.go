package cli

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

// formFlags collects --set and --file form fields.
type formFlags struct {
	sets  []string
	files []string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "form field as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "file field as key=path (repeatable)")
}

// values opens the referenced files and returns the form. The returned
// closer releases the files and must be called once the request is sent.
func (f formFlags) values() (magnetdb.Values, io.Closer, error) {
	values := magnetdb.Values{}
	files := fileSet{}

	for _, raw := range f.sets {
		k, v, err := splitAssignment(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("--set: %w", err)
		}
		values[k] = v
	}

	for _, raw := range f.files {
		k, path, err := splitAssignment(raw)
		if err != nil {
			_ = files.Close()
			return nil, nil, fmt.Errorf("--file: %w", err)
		}
		file, err := os.Open(path)
		if err != nil {
			_ = files.Close()
			return nil, nil, fmt.Errorf("--file %s: %w", k, err)
		}
		files = append(files, file)
		values[k] = magnetdb.Upload{
			Filename:    filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Reader:      file,
		}
	}
	return values, files, nil
}

func (f formFlags) empty() bool {
	return len(f.sets) == 0 && len(f.files) == 0
}

// splitAssignment splits "key=value". The value may be empty; the key may not.
func splitAssignment(raw string) (string, string, error) {
	k, v, ok := strings.Cut(raw, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("%q is not key=value", raw)
	}
	return k, v, nil
}

type fileSet []*os.File

func (fs fileSet) Close() error {
	var errs []error
	for _, f := range fs {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// floatFlag returns a pointer to the flag value when the user set it, so an
// explicit zero is still submitted.
func floatFlag(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil, err
	}
	return magnetdb.Float(v), nil
}

// listFlags maps list options onto command flags.
type listFlags struct {
	opts magnetdb.ListOptions
}

func (l *listFlags) register(cmd *cobra.Command, withType bool) {
	flags := cmd.Flags()
	flags.StringVarP(&l.opts.Query, "query", "q", "", "search by name")
	flags.IntVar(&l.opts.Page, "page", 0, "page number (server default 1)")
	flags.IntVar(&l.opts.PerPage, "per-page", 0, "items per page (server default)")
	flags.StringVar(&l.opts.SortBy, "sort-by", "", "sort field, e.g. name or updated_at")
	flags.BoolVar(&l.opts.SortDesc, "sort-desc", false, "sort descending")
	flags.StringVar(&l.opts.Status, "status", "", "filter by status")
	if withType {
		flags.StringVar(&l.opts.Type, "type", "", "filter by part type")
	}
}
