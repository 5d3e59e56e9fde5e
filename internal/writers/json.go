package writers

import (
	"bufio"
	"encoding/json"
	"io"

	"vpdesign/internal/design"
	"vpdesign/pkg/api"
)

func init() {
	Register("json", writeJSON)
	Register("jsonl", writeJSONL)
}

// writeJSON writes an indented array of api.ViewPointV1.
func writeJSON(w io.Writer, vps []*design.ViewPoint, _ Options) error {
	list := make([]api.ViewPointV1, 0, len(vps))
	for _, vp := range vps {
		list = append(list, ToAPIViewPoint(vp))
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return err
	}
	return bw.Flush()
}

// writeJSONL writes one api.ViewPointV1 per line.
func writeJSONL(w io.Writer, vps []*design.ViewPoint, _ Options) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	enc := json.NewEncoder(bw)
	for _, vp := range vps {
		if err := enc.Encode(ToAPIViewPoint(vp)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
