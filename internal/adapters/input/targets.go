// internal/adapters/input/targets.go
package input

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/errors"
)

// LoadTargets lee un target por línea desde path, ignorando líneas en blanco.
// Falla si la ruta está vacía, no existe, no es un archivo regular o no contiene targets.
func LoadTargets(path string) ([]domain.Target, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "targets file path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "targets file %s does not exist", path)
		}
		return nil, errors.Wrapf(errors.ErrInvalidInput, "stat %s: %v", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read %s: %v", path, err)
	}

	targets := domain.ParseTargets(lines)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s has no non-blank lines", domain.ErrNoTargets, path)
	}
	return targets, nil
}
