// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

const mod = "vpdesign/"

func TestImportBoundaries(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not on PATH")
	}
	cmd := exec.Command("go", "list", "-json", "../../...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	outer := []string{
		"vpdesign/internal/app", "vpdesign/internal/config",
		"vpdesign/internal/pipeline", "vpdesign/internal/writers", "vpdesign/cmd/",
	}
	bans := map[string][]string{
		// Reference data readers know nothing about designs.
		"vpdesign/internal/fasta":        append([]string{"vpdesign/internal/design", "vpdesign/internal/anchor"}, outer...),
		"vpdesign/internal/alignability": append([]string{"vpdesign/internal/design", "vpdesign/internal/fasta"}, outer...),
		"vpdesign/internal/enzyme":       append([]string{"vpdesign/internal/design"}, outer...),
		"vpdesign/internal/anchor":       append([]string{"vpdesign/internal/design"}, outer...),
		"vpdesign/internal/design":       append([]string{"vpdesign/internal/fasta", "vpdesign/internal/logging"}, outer...),
		"vpdesign/internal/pipeline": {
			"vpdesign/internal/app", "vpdesign/internal/config",
			"vpdesign/internal/writers", "vpdesign/cmd/",
		},
		"vpdesign/internal/writers": {
			"vpdesign/internal/app", "vpdesign/internal/config",
			"vpdesign/internal/pipeline", "vpdesign/cmd/",
		},
		"vpdesign/pkg/api": {"vpdesign/internal/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, mod) {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if imp != prefix && !strings.HasPrefix(imp, prefix+"/") {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, mod) {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
