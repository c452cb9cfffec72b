package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/cupscope-cli/internal/ingest"
	"github.com/KaramelBytes/cupscope-cli/internal/utils"
)

const (
	projectFileName = "project.json"
	outputsDirName  = "outputs"
)

// Artifact kinds recorded by analyze and render.
const (
	KindReport = "report"
	KindXLSX   = "xlsx"
	KindCSV    = "csv"
	KindChart  = "chart"
)

// Project groups datasets and the artifacts produced from them.
type Project struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Datasets    map[string]*Dataset  `json:"datasets"`
	Artifacts   map[string]*Artifact `json:"artifacts"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	rootDir string
}

// Dataset is a registered input file.
type Dataset struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rows        int       `json:"rows"`
	Samples     int       `json:"samples"`
	AddedAt     time.Time `json:"added_at"`
}

// Artifact is an output file written into the project.
type Artifact struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	DatasetID string    `json:"dataset_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		Artifacts:   make(map[string]*Artifact),
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	if p.Artifacts == nil {
		p.Artifacts = make(map[string]*Artifact)
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// OutputDir returns the directory analysis outputs are written to.
func (p *Project) OutputDir() string { return filepath.Join(p.rootDir, outputsDirName) }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// AddDataset loads path with opt to check its columns, then registers it.
func (p *Project) AddDataset(path, description string, opt ingest.Options) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	for _, d := range p.Datasets {
		if d.Path == abs {
			return nil, fmt.Errorf("dataset already added: %s", d.Name)
		}
	}
	ds, err := ingest.Load(abs, opt)
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		ID:          uuid.NewString(),
		Path:        abs,
		Name:        filepath.Base(abs),
		Description: strings.TrimSpace(description),
		Rows:        ds.Rows,
		Samples:     len(ds.Samples),
		AddedAt:     time.Now(),
	}
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	p.Datasets[d.ID] = d
	p.UpdatedAt = time.Now()
	return d, nil
}

// FindDataset resolves a dataset by ID, ID prefix or file name.
func (p *Project) FindDataset(ref string) (*Dataset, error) {
	if d, ok := p.Datasets[ref]; ok {
		return d, nil
	}
	var hits []*Dataset
	for _, d := range p.Datasets {
		if d.Name == ref || (len(ref) >= 4 && strings.HasPrefix(d.ID, ref)) {
			hits = append(hits, d)
		}
	}
	switch len(hits) {
	case 0:
		return nil, fmt.Errorf("dataset not found: %s", ref)
	case 1:
		return hits[0], nil
	default:
		return nil, fmt.Errorf("dataset reference %q is ambiguous (%d matches)", ref, len(hits))
	}
}

// RecordArtifact registers an output file produced from datasetID. A file
// already recorded under the same path is updated in place, since writing it
// again replaced the earlier content.
func (p *Project) RecordArtifact(kind, path, datasetID string) *Artifact {
	for _, a := range p.Artifacts {
		if a.Path == path {
			a.Kind, a.DatasetID, a.CreatedAt = kind, datasetID, time.Now()
			p.UpdatedAt = a.CreatedAt
			return a
		}
	}
	a := &Artifact{
		ID:        uuid.NewString(),
		Kind:      kind,
		Path:      path,
		DatasetID: datasetID,
		CreatedAt: time.Now(),
	}
	if p.Artifacts == nil {
		p.Artifacts = make(map[string]*Artifact)
	}
	p.Artifacts[a.ID] = a
	p.UpdatedAt = time.Now()
	return a
}

// SortedDatasets returns datasets ordered by AddedAt, then Name, then Path.
func (p *Project) SortedDatasets() []*Dataset {
	out := make([]*Dataset, 0, len(p.Datasets))
	for _, d := range p.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// SortedArtifacts returns artifacts ordered by CreatedAt then Path.
func (p *Project) SortedArtifacts() []*Artifact {
	out := make([]*Artifact, 0, len(p.Artifacts))
	for _, a := range p.Artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Path < out[j].Path
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
