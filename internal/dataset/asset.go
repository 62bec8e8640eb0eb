package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"bikeshare/internal/core"
)

// Asset is the optional sidebar image.
type Asset struct {
	Name        string
	ContentType string
	Data        []byte
	ModTime     time.Time
}

// LoadAsset reads the image at path. A missing or empty file yields
// core.ErrAssetMissing.
func LoadAsset(path string) (Asset, error) {
	if path == "" {
		return Asset{}, core.ErrAssetMissing
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Asset{}, fmt.Errorf("%w: %s", core.ErrAssetMissing, path)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("stat asset %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Asset{}, fmt.Errorf("read asset %s: %w", path, err)
	}
	if len(data) == 0 {
		return Asset{}, fmt.Errorf("%w: %s is empty", core.ErrAssetMissing, path)
	}
	return Asset{
		Name:        info.Name(),
		ContentType: http.DetectContentType(data),
		Data:        data,
		ModTime:     info.ModTime(),
	}, nil
}
