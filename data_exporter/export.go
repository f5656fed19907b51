package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/xor-shift/mcprng/common"
)

func outFileName(tmpl, batchKey string) (string, error) {
	outFileNameTemplate, err := template.New("").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("creating the output filename template: %w", err)
	}

	var buf bytes.Buffer

	templateArguments := struct {
		BatchKey string
	}{
		BatchKey: batchKey,
	}

	if err = outFileNameTemplate.Execute(&buf, templateArguments); err != nil {
		return "", fmt.Errorf("executing the output filename template: %w", err)
	}

	return buf.String(), nil
}

// writeCSV writes one line per grid row, prefixed with the stream and row
// numbers. Failed streams produce no lines.
func writeCSV(w io.Writer, results []common.JobResult, columnTitles bool) error {
	csvWriter := csv.NewWriter(w)

	if columnTitles {
		maxColumns := 0
		for _, r := range results {
			for _, row := range r.Result {
				if len(row) > maxColumns {
					maxColumns = len(row)
				}
			}
		}

		columns := []string{"Stream", "Generator", "Row"}
		for i := 0; i < maxColumns; i++ {
			columns = append(columns, fmt.Sprintf("Column %d", i))
		}

		if err := csvWriter.Write(columns); err != nil {
			return err
		}
	}

	for _, r := range results {
		for i, row := range r.Result {
			rowStrings := []string{strconv.Itoa(r.StreamNumber), r.Generator, strconv.Itoa(i)}

			for _, v := range row {
				rowStrings = append(rowStrings, strconv.FormatFloat(v, 'g', -1, 64))
			}

			if err := csvWriter.Write(rowStrings); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func writeJSON(w io.Writer, results []common.JobResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(results)
}
