package pipeline

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"span-mapper/internal/cas"
	"span-mapper/internal/schema"
)

// FileJob reads a document file typed against ts. When outDir is set the
// mapped document is written there under the same base name and format;
// otherwise the input file is left untouched.
func FileJob(ts *schema.TypeSystem, path, outDir string) Job {
	job := Job{
		Name: path,
		Open: func() (*cas.Document, error) { return cas.ReadFile(ts, path) },
	}

	if outDir != "" {
		job.Done = func(doc *cas.Document) error {
			return cas.WriteFile(doc, filepath.Join(outDir, filepath.Base(path)))
		}
	}

	return job
}

// FileJobs builds a FileJob per path, creating outDir when needed.
func FileJobs(ts *schema.TypeSystem, paths []string, outDir string) ([]Job, error) {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create output directory %s", outDir)
		}
	}

	jobs := make([]Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, FileJob(ts, p, outDir))
	}

	return jobs, nil
}
