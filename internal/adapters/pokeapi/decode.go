package pokeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/okian/pokelookup/internal/domain/roster"
)

type namedResource struct {
	Name string `json:"name"`
}

type typeSlot struct {
	Slot int           `json:"slot"`
	Type namedResource `json:"type"`
}

type pastType struct {
	Generation namedResource `json:"generation"`
	Types      []typeSlot    `json:"types"`
}

type document struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Types     []typeSlot `json:"types"`
	PastTypes []pastType `json:"past_types"`
}

// Decode maps one PokeAPI pokemon document to a raw roster record. Type
// names are ordered by slot; override order is preserved.
func Decode(doc []byte) (roster.RawRecord, error) {
	var d document
	if err := json.Unmarshal(doc, &d); err != nil {
		return roster.RawRecord{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return d.record(), nil
}

// DecodeDataset reads a JSON array of PokeAPI documents, the format of the
// pokemon.json dataset file.
func DecodeDataset(r io.Reader) ([]roster.RawRecord, error) {
	var docs []document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("%w: dataset: %w", ErrInvalidDocument, err)
	}
	out := make([]roster.RawRecord, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].record())
	}
	return out, nil
}

func (d *document) record() roster.RawRecord {
	rec := roster.RawRecord{
		ID:    d.ID,
		Name:  d.Name,
		Types: slotNames(d.Types),
	}
	for _, p := range d.PastTypes {
		rec.PastTypes = append(rec.PastTypes, roster.PastTypes{
			Generation: p.Generation.Name,
			Types:      slotNames(p.Types),
		})
	}
	return rec
}

func slotNames(slots []typeSlot) []string {
	if len(slots) == 0 {
		return nil
	}
	sorted := append([]typeSlot(nil), slots...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })
	names := make([]string, len(sorted))
	for i, s := range sorted {
		names[i] = s.Type.Name
	}
	return names
}
