package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/tablecheck/internal/harness"
)

// scenarioFile is a scenario loaded from disk, or the reason it could not be.
type scenarioFile struct {
	Path     string
	Scenario *harness.Scenario
	Err      error
}

// name returns the scenario name, or the file stem when loading failed.
func (f scenarioFile) name() string {
	if f.Scenario != nil {
		return f.Scenario.Name
	}
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// checkDir returns an ExitCommandError unless dir is an existing directory.
func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "error accessing scenarios directory", err)
	}
	if !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("not a directory: %s", dir))
	}
	return nil
}

// findScenarioFiles finds all scenario files under dir, skipping golden
// directories. filter is a glob matched against the file stem.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		if !harness.IsScenarioFile(path) {
			return nil
		}

		if filter != "" {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	sort.Strings(files)
	return files, err
}

// loadScenarioFiles loads every file, collecting per-file errors. Scenario
// names must be unique because golden files are keyed by name.
func loadScenarioFiles(paths []string) []scenarioFile {
	files := make([]scenarioFile, len(paths))
	seen := make(map[string]string, len(paths))

	for i, path := range paths {
		files[i].Path = path
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			files[i].Err = err
			continue
		}
		if first, dup := seen[scenario.Name]; dup {
			files[i].Err = fmt.Errorf("%s: duplicate scenario name %q (first defined in %s)", path, scenario.Name, first)
			continue
		}
		seen[scenario.Name] = path
		files[i].Scenario = scenario
	}
	return files
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenariosDir, name string) string {
	return filepath.Join(scenariosDir, "golden", name+".golden")
}
