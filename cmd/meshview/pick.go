package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/meshview/pkg/models"
)

// errNoModel means the user left the prompt empty.
var errNoModel = errors.New("no model selected")

// listModels returns the supported model files in dir, sorted by name.
func listModels(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && models.Supported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// pickModel lists the models in dir and asks for one on in until an
// existing file is named. An empty answer or EOF returns errNoModel.
// Relative answers are resolved against dir.
func pickModel(dir string, in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintf(out, "Current directory: %s\n", dir)
	names, err := listModels(dir)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "(no .obj or .glb files in this directory)")
	} else {
		fmt.Fprintln(out, "Available models:")
		for _, n := range names {
			fmt.Fprintf(out, "  - %s\n", n)
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Model file (Enter to quit): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("read input: %w", err)
			}
			return "", errNoModel
		}

		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			return "", errNoModel
		}

		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(out, "No file %q in this directory.\n", name)
			if !strings.HasSuffix(strings.ToLower(name), ".obj") {
				fmt.Fprintf(out, "Hint: did you mean %q? Include the extension.\n", name+".obj")
			}
			continue
		}
		return path, nil
	}
}
