package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a model file, choosing the loader by file extension.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("unsupported format: %q (use .obj or .glb)", ext)
	}
}

// Supported reports whether Load understands the file's extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj", ".glb", ".gltf":
		return true
	}
	return false
}
