package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ExportJSON writes every cached document as one JSON array, the dataset
// file format read by pokeapi.DecodeDataset.
func ExportJSON(ctx context.Context, store Store, w io.Writer) (int, error) {
	docs, err := store.All(ctx)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("["); err != nil {
		return 0, err
	}
	for i, d := range docs {
		if !json.Valid(d.Body) {
			return i, fmt.Errorf("export #%d: document is not valid JSON", d.ID)
		}
		if i > 0 {
			if _, err := bw.WriteString(","); err != nil {
				return i, err
			}
		}
		if _, err := bw.Write(d.Body); err != nil {
			return i, err
		}
	}
	if _, err := bw.WriteString("]\n"); err != nil {
		return len(docs), err
	}
	return len(docs), bw.Flush()
}
