package override

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/schedule"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var ErrInvalidKey = fmt.Errorf("invalid override key")

// FileSource reads overrides from files named exactly after their key, e.g. "weekday_times" or "mon".
type FileSource struct {
	fs afero.Fs
}

// NewFileSource serves overrides from the files in dir.
func NewFileSource(dir string) *FileSource {
	return NewFileSourceFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewFileSourceFs serves overrides from the root of fs.
func NewFileSourceFs(fs afero.Fs) *FileSource {
	return &FileSource{fs: fs}
}

func (s *FileSource) Lookup(_ context.Context, key string) ([]schedule.TimeEntry, bool, error) {
	path, err := resolvePath(key)
	if err != nil {
		return nil, false, err
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, false, fmt.Errorf("unable to check override %s: %w", key, err)
	}
	if !exists {
		return nil, false, nil
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, false, fmt.Errorf("unable to read override %s: %w", key, err)
	}
	entries, err := schedule.ParseEntries(data)
	if err != nil {
		return nil, false, fmt.Errorf("override %s: %w", key, err)
	}
	log.Debugf("read %d entries from override %s", len(entries), key)
	return entries, true, nil
}

// resolvePath maps a key to its file, relative to the source root.
func resolvePath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}
