// pkg/api/viewpoints_v1.go
package api

// ViewPointV1 is the stable JSON/JSONL schema for one designed viewpoint.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
// Coordinates are one-based and inclusive.
type ViewPointV1 struct {
	Name           string      `json:"name"`
	Accession      string      `json:"accession,omitempty"`
	Chrom          string      `json:"chrom"`
	Pos            int         `json:"pos"`
	Strand         string      `json:"strand"` // "+" | "-"
	Approach       string      `json:"approach"`
	Start          int         `json:"start"`
	End            int         `json:"end"`
	Score          float64     `json:"score"`
	Resolved       bool        `json:"resolved"`
	Modified       bool        `json:"modified,omitempty"`
	UpstreamSpan   int         `json:"upstream_span"`
	DownstreamSpan int         `json:"downstream_span"`
	ActiveLength   int         `json:"active_length"`
	ActiveCount    int         `json:"active_segments"`
	Segments       []SegmentV1 `json:"segments"`
}

// SegmentV1 is one restriction fragment of a viewpoint.
type SegmentV1 struct {
	Start          int      `json:"start"`
	End            int      `json:"end"`
	Length         int      `json:"length"`
	Selected       bool     `json:"selected"`
	Class          string   `json:"class"` // "balanced" | "unbalanced" | "unselectable"
	OverlapsAnchor bool     `json:"overlaps_anchor,omitempty"`
	GC             float64  `json:"gc"`
	Repeat         float64  `json:"repeat"`
	GCUp           float64  `json:"gc_up"`
	GCDown         float64  `json:"gc_down"`
	RepeatUp       float64  `json:"repeat_up"`
	RepeatDown     float64  `json:"repeat_down"`
	Baits          []BaitV1 `json:"baits,omitempty"`
}

// BaitV1 is a capture probe on a fragment margin.
type BaitV1 struct {
	Start        int     `json:"start"`
	End          int     `json:"end"`
	Margin       string  `json:"margin"` // "up" | "down"
	GC           float64 `json:"gc"`
	Repeat       float64 `json:"repeat"`
	Alignability float64 `json:"alignability"` // -1 when unscored
}
