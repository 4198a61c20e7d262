package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"postboard/internal/observability"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

const (
	maxExtLen   = 16
	maxAttempts = 5
)

// Receiver stores post attachments in a flat directory.
type Receiver struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewReceiver creates dir on fs if it is absent.
func NewReceiver(fs afero.Fs, dir string) (*Receiver, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Receiver{fs: fs, dir: dir, now: time.Now}, nil
}

// Save writes src under a generated name and returns its /uploads/ reference.
// Names are <unix-millis>-<random hex><ext>; an existing name is never overwritten.
func (r *Receiver) Save(ctx context.Context, originalName string, src io.Reader) (string, error) {
	ext := extension(originalName)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name, err := r.generateName(ext)
		if err != nil {
			return "", err
		}

		f, err := r.fs.OpenFile(filepath.Join(r.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			observability.UploadsTotal.WithLabelValues("error").Inc()
			return "", fmt.Errorf("create upload file: %w", err)
		}

		written, err := io.Copy(f, src)
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			_ = r.fs.Remove(filepath.Join(r.dir, name))
			observability.UploadsTotal.WithLabelValues("error").Inc()
			return "", fmt.Errorf("write upload file: %w", err)
		}

		observability.UploadsTotal.WithLabelValues("stored").Inc()
		observability.UploadBytesTotal.Add(float64(written))
		return URLPrefix + name, nil
	}

	observability.UploadsTotal.WithLabelValues("error").Inc()
	return "", fmt.Errorf("no free upload name after %d attempts", maxAttempts)
}

// Remove deletes a file previously returned by Save. A missing file is not
// an error.
func (r *Receiver) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimPrefix(ref, URLPrefix)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid upload reference %q", ref)
	}
	err := r.fs.Remove(filepath.Join(r.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

func (r *Receiver) generateName(ext string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate upload name: %w", err)
	}
	return fmt.Sprintf("%d-%s%s", r.now().UnixMilli(), id.String()[:8], ext), nil
}

// extension returns the lower-cased extension of name, or "" when it is
// missing, overlong or contains anything but letters and digits.
func extension(name string) string {
	ext := strings.ToLower(path.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
