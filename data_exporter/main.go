package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/xor-shift/mcprng/common"
	"github.com/xor-shift/mcprng/store"
)

func main() {
	log := common.NewLogger("data_exporter")

	if err := common.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("loading dotenv failed")
	}

	args := struct {
		Batch              string `name:"batch" short:"b" help:"batch key to export" required:""`
		Out                string `name:"out" short:"o" default:"batch_{{.BatchKey}}.csv" help:"File to output to (templated)"`
		Format             string `name:"format" short:"f" enum:"csv,json" default:"csv" help:"Data format"`
		ExportColumnTitles bool   `name:"export_column_titles" negatable:"" default:"true" help:"(applicable only to CSV outputs) whether to include column titles for CSV exports"`
	}{}

	_ = kong.Parse(&args)

	db, err := store.Open(common.MySQLConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("opening the database failed")
	}

	results, err := db.LoadBatch(context.Background(), args.Batch)
	_ = db.Close()
	if err != nil {
		log.Fatal().Err(err).Str("batch", args.Batch).Msg("failed to fetch the batch")
	}

	fileName, err := outFileName(args.Out, args.Batch)
	if err != nil {
		log.Fatal().Err(err).Msg("bad output file name")
	}

	outFile, err := os.Create(fileName)
	if err != nil {
		log.Fatal().Err(err).Str("file", fileName).Msg("error while creating the output file")
	}

	if args.Format == "json" {
		err = writeJSON(outFile, results)
	} else {
		err = writeCSV(outFile, results, args.ExportColumnTitles)
	}

	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		log.Fatal().Err(err).Str("file", fileName).Msg("error while writing the output file")
	}

	log.Info().Int("streams", len(results)).Str("file", fileName).Msg("exported")
}
