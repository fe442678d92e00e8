package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var exportLimit int

var exportCmd = &cobra.Command{
	Use:   "export <out.xlsx>",
	Short: "Export cached simulations and the leaderboard to a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		f := xlsx.NewFile()

		simSheet, err := f.AddSheet("Simulations")
		if err != nil {
			return eris.Wrap(err, "add simulations sheet")
		}
		header := simSheet.AddRow()
		for _, h := range []string{"Prompt", "Result", "Created At"} {
			header.AddCell().Value = h
		}

		entries, err := st.ListSimulations(ctx, exportLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			row := simSheet.AddRow()
			row.AddCell().Value = e.Prompt
			row.AddCell().Value = e.Result
			row.AddCell().Value = e.CreatedAt.Format("2006-01-02 15:04:05")
		}

		boardSheet, err := f.AddSheet("Leaderboard")
		if err != nil {
			return eris.Wrap(err, "add leaderboard sheet")
		}
		header = boardSheet.AddRow()
		for _, h := range []string{"Topic", "Score"} {
			header.AddCell().Value = h
		}

		scores, err := st.TopScores(ctx, exportLimit)
		if err != nil {
			return err
		}
		titler := cases.Title(language.English)
		for _, s := range scores {
			row := boardSheet.AddRow()
			row.AddCell().Value = titler.String(strings.ReplaceAll(s.Topic, "_", " "))
			row.AddCell().SetFloat(s.Score)
		}

		if err := f.Save(args[0]); err != nil {
			return eris.Wrapf(err, "save %s", args[0])
		}

		zap.L().Info("export complete",
			zap.String("path", args[0]),
			zap.Int("simulations", len(entries)),
			zap.Int("scores", len(scores)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportLimit, "limit", 500, "max rows per sheet")
	rootCmd.AddCommand(exportCmd)
}
