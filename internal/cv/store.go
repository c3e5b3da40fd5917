package cv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
)

// ObjectStore is the remote bucket the CVs go to. Upload must fail when the
// key already exists.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	PublicURL(bucket, key string) string
}

// Store persists a résumé under a key derived from the applicant's dni and
// returns a dereferenceable URL. With no remote bucket configured, or when
// both remote attempts fail, the file lands in a local uploads directory
// served by the HTTP layer.
type Store struct {
	objects ObjectStore
	bucket  string
	dir     string
	baseURL string
	log     *logrus.Logger
	now     func() time.Time
}

// NewStore builds a Store. objects may be nil for local-only operation.
func NewStore(objects ObjectStore, bucket, dir, baseURL string, log *logrus.Logger) *Store {
	return &Store{
		objects: objects,
		bucket:  bucket,
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

// Save uploads the CV as {dni}.pdf. On any upload failure, including a name
// collision, it rewinds the file and retries exactly once under a
// timestamped key. When no remote URL could be produced, the original
// filename is written to the local uploads dir instead.
func (s *Store) Save(ctx context.Context, dni string, file io.ReadSeeker) (string, error) {
	filename := Sanitize(dni + ".pdf")

	if s.objects != nil {
		if u := s.upload(ctx, filename, file); u != "" {
			return u, nil
		}
		ts := s.now().UTC().Format("20060102150405")
		alt := Sanitize(fmt.Sprintf("%s-%s.pdf", dni, ts))
		if _, err := file.Seek(0, io.SeekStart); err == nil {
			if u := s.upload(ctx, alt, file); u != "" {
				return u, nil
			}
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + filename, nil
}

func (s *Store) upload(ctx context.Context, key string, file io.Reader) string {
	if err := s.objects.Upload(ctx, s.bucket, key, file, "application/pdf"); err != nil {
		s.log.WithError(err).WithField("objeto", key).Warn("subida de CV al bucket falló")
		return ""
	}
	return s.objects.PublicURL(s.bucket, key)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Sanitize reduces a filename to a safe flat name: spaces become
// underscores, anything outside [A-Za-z0-9_.-] is dropped, and leading or
// trailing dots, dashes and underscores are stripped.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilename.ReplaceAllString(name, "")
	return strings.Trim(name, "._-")
}

// ValidatePDF checks that the upload really is a well-formed PDF and leaves
// the reader rewound for the subsequent upload.
func ValidatePDF(file io.ReadSeeker) error {
	if err := api.Validate(file, nil); err != nil {
		return fmt.Errorf("el archivo no es un PDF válido: %w", err)
	}
	_, err := file.Seek(0, io.SeekStart)
	return err
}
