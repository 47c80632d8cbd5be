package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/scene"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]*Model

	// pool builds group geometry in parallel; workers idle out between loads.
	pool    worker.DynamicWorkerPool
	workers int
}

// Loader imports Wavefront OBJ files with their MTL libraries and caches the parsed result.
// Every Load returns a fresh node subtree so that each instance owns its GPU state.
type Loader interface {
	// Load imports an OBJ file, or reuses the cached parse of the same path, and builds a new
	// subtree: an empty root with one empty child per object, each holding one mesh node per group.
	//
	// Parameters:
	//   - path: the .obj file path
	//
	// Returns:
	//   - *scene.Object3D: the new subtree root
	//   - error: error if the file cannot be read or parsed, or a group names an undefined material
	Load(path string) (*scene.Object3D, error)

	// LoadReader imports OBJ text from a reader and caches it under name.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: the OBJ text
	//   - dir: the directory mtllib and map_Kd paths are resolved against
	//
	// Returns:
	//   - *scene.Object3D: the new subtree root
	//   - error: error if parsing fails or a group names an undefined material
	LoadReader(name string, r io.Reader, dir string) (*scene.Object3D, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Model: the cached model or nil
	Get(name string) *Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]*Model: all cached models keyed by name
	Models() map[string]*Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]*Model),
		workers:    max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (*scene.Object3D, error) {
	key := filepath.Clean(path)
	if m := l.Get(key); m != nil {
		return m.Instantiate(), nil
	}

	f, err := os.Open(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	defer f.Close()

	m, err := l.parse(strings.TrimSuffix(filepath.Base(key), filepath.Ext(key)), f, filepath.Dir(key))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(key, m).Instantiate(), nil
}

func (l *loader) LoadReader(name string, r io.Reader, dir string) (*scene.Object3D, error) {
	if m := l.Get(name); m != nil {
		return m.Instantiate(), nil
	}

	m, err := l.parse(name, r, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, m).Instantiate(), nil
}

func (l *loader) Get(name string) *Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]*Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// store caches m unless a concurrent load got there first, and returns the cached model.
func (l *loader) store(key string, m *Model) *Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[key]; ok {
		return cached
	}
	l.modelCache[key] = m
	return m
}

func (l *loader) parse(name string, r io.Reader, dir string) (*Model, error) {
	data, err := ParseOBJ(r)
	if err != nil {
		return nil, err
	}

	libs, libErr := loadLibraries(data.MaterialLibs, dir)
	if libErr != nil {
		common.Logger().Warn("material library failed to load, using default materials", "model", name, "error", libErr)
	}

	m := &Model{Name: name}
	type job struct {
		object, group int
		polygons      []Polygon
	}
	var jobs []job
	for _, obj := range data.Objects {
		mo := ModelObject{Name: obj.Name}
		for _, g := range obj.Groups {
			if len(g.Polygons) == 0 {
				continue
			}
			mg := ModelGroup{Name: g.Name}
			if libErr == nil && g.Material != "" {
				entry, ok := libs[g.Material]
				if !ok {
					return nil, fmt.Errorf("group %q: material %q %w", g.Name, g.Material, ErrUnresolvedMaterial)
				}
				mg.material = entry.material
				mg.mtlDir = entry.dir
			}
			jobs = append(jobs, job{object: len(m.Objects), group: len(mo.Groups), polygons: g.Polygons})
			mo.Groups = append(mo.Groups, mg)
		}
		m.Objects = append(m.Objects, mo)
	}

	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		id, jCap := i, j
		l.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				vertices, indices, err := buildGeometry(data, jCap.polygons)
				if err != nil {
					errs[id] = err
					return nil, err
				}
				g := &m.Objects[jCap.object].Groups[jCap.group]
				g.Vertices = vertices
				g.Indices = indices
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			j := jobs[i]
			return nil, fmt.Errorf("group %q: %w", m.Objects[j.object].Groups[j.group].Name, err)
		}
	}
	return m, nil
}

type libraryEntry struct {
	material *MTLMaterial
	dir      string
}

// loadLibraries parses every mtllib, resolved against dir. Later libraries override earlier
// definitions of the same name.
func loadLibraries(names []string, dir string) (map[string]libraryEntry, error) {
	out := make(map[string]libraryEntry)
	for _, name := range names {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}
		materials, err := parseMTLFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range materials {
			out[k] = libraryEntry{material: v, dir: filepath.Dir(path)}
		}
	}
	return out, nil
}

func parseMTLFile(path string) (map[string]*MTLMaterial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	materials, err := ParseMTL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return materials, nil
}
