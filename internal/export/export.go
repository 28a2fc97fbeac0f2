package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/storage"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
)

// Data is the JSON document written for a run.
type Data struct {
	storage.RunMetadata
	Times    []float64   `json:"times"`
	States   [][]float64 `json:"states"`
	Controls [][]float64 `json:"controls"`
}

func NewData(meta storage.RunMetadata, result *dynamo.Result) Data {
	data := Data{
		RunMetadata: meta,
		Times:       result.Times,
		States:      make([][]float64, len(result.States)),
		Controls:    make([][]float64, len(result.Controls)),
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}
	return data
}

func WriteJSON(w io.Writer, meta storage.RunMetadata, result *dynamo.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewData(meta, result))
}

func WriteCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if err := storage.WriteCSV(cw, result); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Write renders result in the given format.
func Write(w io.Writer, format Format, meta storage.RunMetadata, result *dynamo.Result) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, result)
	case FormatJSON:
		return WriteJSON(w, meta, result)
	case FormatSVG:
		_, err := io.WriteString(w, ResultToSVG(result, 800, 400)+"\n")
		return err
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}
