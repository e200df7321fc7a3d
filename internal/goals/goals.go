package goals

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/vk/depgridgo/internal/address"
)

// Output formats shared by the listing goals.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// fanOut runs fn(i) for i in [0, n) across a bounded pool of workers and
// blocks until all calls return: a job channel feeding worker goroutines.
func fanOut(workers, n int, fn func(i int)) {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := range n {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// writeLines prints one address per line, already-sorted input expected.
func writeLines(outW io.Writer, addrs []address.Address) error {
	for _, a := range addrs {
		if _, err := fmt.Fprintln(outW, a.String()); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON prints v indented with the given prefix string followed by a
// trailing newline.
func writeJSON(outW io.Writer, v any, indent string) error {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	data = append(data, '\n')
	_, err = outW.Write(data)
	return err
}

// perRootMapping assembles the JSON object shape shared by the dependents
// and dependencies goals: each input root mapped to its sorted result list.
func perRootMapping(roots []address.Address, results []address.Set) map[string][]string {
	mapping := make(map[string][]string, len(roots))
	for i, root := range roots {
		mapping[root.String()] = address.Specs(results[i].Sorted())
	}
	return mapping
}
