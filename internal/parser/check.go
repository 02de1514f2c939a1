package parser

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/remeh/sizedwaitgroup"
)

type CheckResult struct {
	File  string
	Notes int
	Holds int
	Err   error
}

// CheckDir loads every json chart below dir, at most workers at a time.
// Results are ordered by file name.
func (p *DefaultParser) CheckDir(dir string, workers int) ([]CheckResult, error) {
	if workers < 1 {
		workers = 1
	}

	files := []string{}
	if err := filepath.Walk(dir, func(name string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if !info.IsDir() && path.Ext(info.Name()) == ".json" {
			files = append(files, name)
		}
		return nil
	}); nil != err {
		return nil, fmt.Errorf("unable to walk chart directory: %w", err)
	}
	sort.Strings(files)

	results := make([]CheckResult, len(files))
	swg := sizedwaitgroup.New(workers)
	for i, file := range files {
		swg.Add()
		go func(i int, file string) {
			defer swg.Done()
			results[i].File = file
			chart, err := p.ParseFile(file)
			if nil != err {
				results[i].Err = err
				return
			}
			results[i].Notes = chart.NoteCount()
			results[i].Holds = chart.HoldCount()
		}(i, file)
	}
	swg.Wait()

	return results, nil
}
