///usr/bin/true; exec /usr/bin/env go run "$0" "$@"

// Command buildruntime compiles runtimec into libeigenruntime.a (plus
// its generated header) via `go build -buildmode=c-archive`. It is
// the one-command analogue of tinyrange-rtg/tools/build.go's
// argument-list `exec.Command` invocations: no shell strings, ever
// (spec §5's subprocess-invocation contract applies here just as much
// as it does to internal/pipeline's own linker call).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

func main() {
	outDir := flag.String("o", "build", "output directory for libeigenruntime.a/.h")
	pkgDir := flag.String("pkg", "./runtimec", "path to the runtimec package")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "buildruntime: %v\n", err)
		os.Exit(1)
	}

	archivePath := filepath.Join(*outDir, "libeigenruntime.a")
	cmd := exec.Command("go", "build", "-buildmode=c-archive", "-o", archivePath, *pkgDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "buildruntime: go build failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", archivePath)
}
