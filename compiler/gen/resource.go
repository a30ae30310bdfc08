package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/syssam/nodegen/nodetree"
)

// AssetsDir is the directory, relative to the package target, holding
// externalized resources.
const AssetsDir = "assets"

var formatExt = map[string]string{
	"PNG":      ".png",
	"JPEG":     ".jpg",
	"JPG":      ".jpg",
	"OPEN_EXR": ".exr",
	"EXR":      ".exr",
	"TARGA":    ".tga",
	"BMP":      ".bmp",
	"TIFF":     ".tif",
	"HDR":      ".hdr",
	"WEBP":     ".webp",
}

// Resource is an externalized image.
type Resource struct {
	Image *nodetree.Image
	// Path is the slash separated path relative to the package target.
	Path string
	// Existed reports that the file was already present and left untouched.
	Existed bool
}

// Externalizer writes embedded images next to a packaged program.
type Externalizer struct {
	target string
	made   bool
	names  map[*nodetree.Image]string
	used   map[string]struct{}
}

// NewExternalizer returns an externalizer writing below target.
func NewExternalizer(target string) *Externalizer {
	return &Externalizer{
		target: target,
		names:  make(map[*nodetree.Image]string),
		used:   make(map[string]struct{}),
	}
}

// Externalize saves img under the assets directory unless a file of the
// same name already exists. The boolean is false when there is nothing to
// load: the image has no backing data and no earlier export left a file.
func (x *Externalizer) Externalize(img *nodetree.Image) (Resource, bool, error) {
	rel := path.Join(AssetsDir, x.filename(img))
	full := filepath.Join(x.target, filepath.FromSlash(rel))
	res := Resource{Image: img, Path: rel}

	_, err := os.Stat(full)
	switch {
	case err == nil:
		res.Existed = true
		return res, true, nil
	case !errors.Is(err, fs.ErrNotExist):
		return res, false, NewGenerationError("externalize", rel, "stat resource", err)
	case !img.HasData():
		return res, false, nil
	}
	if !x.made {
		if err := os.MkdirAll(filepath.Join(x.target, AssetsDir), 0o755); err != nil {
			return res, false, NewGenerationError("externalize", AssetsDir, "create assets directory", err)
		}
		x.made = true
	}
	if err := os.WriteFile(full, img.Data, 0o644); err != nil {
		return res, false, NewGenerationError("externalize", rel, "write resource", err)
	}
	return res, true, nil
}

// filename derives a stable file name from the image name and format.
// Distinct images sharing a sanitized name get numeric suffixes.
func (x *Externalizer) filename(img *nodetree.Image) string {
	if name, ok := x.names[img]; ok {
		return name
	}
	ext, ok := formatExt[strings.ToUpper(img.Format)]
	if !ok {
		ext = ".png"
	}
	base := sanitizeFilename(strings.TrimSuffix(img.Name, ext))
	name := base + ext
	for i := 1; ; i++ {
		if _, ok := x.used[name]; !ok {
			break
		}
		name = base + "_" + strconv.Itoa(i) + ext
	}
	x.used[name] = struct{}{}
	x.names[img] = name
	return name
}

func sanitizeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
	s = strings.Trim(s, ".")
	if s == "" {
		return "image"
	}
	return s
}

// String implements fmt.Stringer.
func (r Resource) String() string {
	if r.Existed {
		return fmt.Sprintf("%s (existing)", r.Path)
	}
	return r.Path
}
