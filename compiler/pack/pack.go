// Package pack writes an exported program as a Go package directory: the
// program file, a manifest and an optional license.
package pack

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/nodegen/compiler/gen"
)

// Version is the generator version recorded in manifests.
const Version = "0.4.0"

// Namespace is the UUID namespace of package ids.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/syssam/nodegen"))

// File names written next to the program.
const (
	ManifestFile = "manifest.json"
	LicenseFile  = "LICENSE"
)

// Meta describes the package being written.
type Meta struct {
	// Package names the program file. Defaults to gen.DefaultPackage.
	Package string
	// Generator overrides the recorded generator version.
	Generator string
	// License is written to LICENSE when not empty.
	License string
	// Time is the recorded creation time. Defaults to now.
	Time time.Time
}

// Manifest describes a written package.
type Manifest struct {
	ID        uuid.UUID `json:"id"`
	Package   string    `json:"package"`
	Root      string    `json:"root"`
	Trees     []string  `json:"trees"`
	Resources []string  `json:"resources,omitempty"`
	Generator string    `json:"generator"`
	Created   time.Time `json:"created"`
}

// PackageID returns the id of the package holding root. The same package
// and root always map to the same id.
func PackageID(pkg, root string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(pkg+"/"+root))
}

// Metrics tracks writer activity.
type Metrics struct {
	FilesWritten int
	TotalBytes   int64
}

// Writer writes package files in parallel.
type Writer struct {
	dir     string
	workers int

	mu      sync.Mutex
	metrics Metrics
}

// NewWriter returns a writer targeting dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a snapshot of the writer metrics.
func (w *Writer) Metrics() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// fileTask is a single file to write.
type fileTask struct {
	name   string // path relative to the writer directory
	data   []byte
	format bool // run goimports before writing
}

// Write writes the program of res with its manifest and license.
func (w *Writer) Write(ctx context.Context, res *gen.Result, meta Meta) (*Manifest, error) {
	if res == nil || len(res.Trees) == 0 {
		return nil, fmt.Errorf("pack: empty export result")
	}
	if meta.Package == "" {
		meta.Package = gen.DefaultPackage
	}
	if meta.Generator == "" {
		meta.Generator = "nodegen " + Version
	}
	if meta.Time.IsZero() {
		meta.Time = time.Now()
	}
	root := res.Trees[len(res.Trees)-1].Name
	m := &Manifest{
		ID:        PackageID(meta.Package, root),
		Package:   meta.Package,
		Root:      root,
		Generator: meta.Generator,
		Created:   meta.Time.UTC(),
	}
	for _, t := range res.Trees {
		m.Trees = append(m.Trees, t.Name)
	}
	for _, r := range res.Resources {
		m.Resources = append(m.Resources, r.Path)
	}
	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("pack: encode manifest: %w", err)
	}
	files := []fileTask{
		{name: meta.Package + ".go", data: res.Source, format: true},
		{name: ManifestFile, data: append(manifest, '\n')},
	}
	if meta.License != "" {
		files = append(files, fileTask{name: LicenseFile, data: []byte(meta.License)})
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("pack: create output directory: %w", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func (w *Writer) writeFile(f fileTask) error {
	fullPath := filepath.Join(w.dir, f.name)
	data := f.data
	if f.format {
		formatted, err := imports.Process(fullPath, data, nil)
		if err != nil {
			// Keep the unformatted source around for debugging.
			debugPath := fullPath + ".error"
			_ = os.WriteFile(debugPath, data, 0o644)
			return fmt.Errorf("pack: format %s: %w (unformatted written to %s)", f.name, err, debugPath)
		}
		data = formatted
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("pack: write %s: %w", f.name, err)
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(data))
	w.mu.Unlock()
	return nil
}

// Write writes res into dir. See Writer.Write.
func Write(dir string, res *gen.Result, meta Meta) (*Manifest, error) {
	return NewWriter(dir).Write(context.Background(), res, meta)
}

// ReadManifest reads the manifest of the package in dir.
func ReadManifest(dir string) (*Manifest, error) {
	buf, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	m := &Manifest{}
	if err := json.Unmarshal(buf, m); err != nil {
		return nil, fmt.Errorf("pack: decode manifest: %w", err)
	}
	return m, nil
}
