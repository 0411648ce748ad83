package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/meshview/pkg/models"
)

// progressThreshold is the smallest OBJ file that gets a progress bar.
const progressThreshold = 8 << 20

// loadModel loads a mesh by extension. Large OBJ files show a byte
// progress bar on stderr when progress is set.
func loadModel(path string, progress bool) (*models.Mesh, error) {
	start := time.Now()

	var mesh *models.Mesh
	var err error
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		mesh, err = loadOBJ(path, progress)
	} else {
		mesh, err = models.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	lo, hi := mesh.Bounds()
	slog.Debug("model loaded",
		"path", path,
		"bounds", fmt.Sprintf("%v..%v", lo, hi),
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"elapsed", time.Since(start))
	return mesh, nil
}

func loadOBJ(path string, progress bool) (*models.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if progress {
		if info, err := f.Stat(); err == nil && info.Size() >= progressThreshold {
			bar := progressbar.DefaultBytes(info.Size(), "read "+filepath.Base(path))
			defer bar.Close()
			r = io.TeeReader(f, bar)
		}
	}

	return models.ParseOBJ(r, filepath.Base(path))
}

// summary is the one-line description printed after loading.
func summary(m *models.Mesh) string {
	return fmt.Sprintf("Loaded: %s (%d vertices, %d texcoords, %d normals, %d triangles)",
		m.Name, len(m.Positions), len(m.Texcoords), len(m.Normals), m.TriangleCount())
}
