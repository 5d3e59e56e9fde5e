// Package writers turns designed viewpoints into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, JSON/JSONL, BED, GFF).
//   - The design package stays domain-only; pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
