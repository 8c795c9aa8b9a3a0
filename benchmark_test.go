package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/evanrichards/tree-lint-ts/internal/app"
)

const benchmarkTemplate = `// @sort
const config = {
  zebra: "value1",
  alpha: "value2", // critical setting
  beta: "value3",
};

/** Release channels */
// @sort:reverse
export const channels = ['beta', 'stable', 'nightly'];
`

// createBenchmarkFiles writes count copies of the template into dir
func createBenchmarkFiles(b *testing.B, dir string, count int) {
	b.Helper()

	for i := 0; i < count; i++ {
		filename := filepath.Join(dir, fmt.Sprintf("test_%d.ts", i))
		if err := os.WriteFile(filename, []byte(benchmarkTemplate), 0o644); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkCommand(b *testing.B, files, workers int) {
	dir := b.TempDir()
	createBenchmarkFiles(b, dir, files)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cmd := app.NewCommand()
		cmd.SetArgs([]string{"--workers", fmt.Sprint(workers), dir})
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		if err := cmd.Execute(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSingleFile(b *testing.B) {
	benchmarkCommand(b, 1, 1)
}

func BenchmarkParallelProcessing(b *testing.B) {
	benchmarkCommand(b, 100, 4)
}

func BenchmarkSequentialProcessing(b *testing.B) {
	benchmarkCommand(b, 100, 1)
}
