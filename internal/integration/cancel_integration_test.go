package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vpdesign/internal/app"
)

func TestCtrlC_MidDesign_Exit130(t *testing.T) {
	if testing.Short() {
		t.Skip("large fixture")
	}
	f := newFixture(t)
	index(t, f)

	// Many anchors so designing is underway when the context is cancelled.
	var anchors strings.Builder
	for i := 0; i < 200000; i++ {
		fmt.Fprintf(&anchors, "chr1\t%d\tG%d\t+\n", 1+i%300, i)
	}
	fn := write(t, filepath.Join(t.TempDir(), "many.tsv"), anchors.String())
	args := f.designArgs("--anchors", fn, "--threads", "2", "-o", os.DevNull)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	var out, errBuf bytes.Buffer
	code := app.RunContext(ctx, args, &out, &errBuf)
	require.Equal(t, 130, code, errBuf.String())
}
