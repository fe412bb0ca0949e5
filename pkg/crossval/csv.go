package crossval

import (
	"encoding/csv"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

func WriteCSVHeader(writer *csv.Writer) error {
	header := []string{
		"Stop",

		"Statistical Parity (Mean)", "Statistical Parity (Min)", "Statistical Parity (Max)", "Statistical Parity (StdDev)",
		"Disparate Impact (Mean)", "Disparate Impact (Min)", "Disparate Impact (Max)", "Disparate Impact (StdDev)",
		"Zero One Loss (Mean)", "Zero One Loss (Min)", "Zero One Loss (Max)", "Zero One Loss (StdDev)",
		"Accuracy (Mean)", "Accuracy (Min)", "Accuracy (Max)", "Accuracy (StdDev)",
		"F1 Score (Mean)", "F1 Score (Min)", "F1 Score (Max)", "F1 Score (StdDev)",
	}

	if err := writer.Write(header); err != nil {
		return err
	} else {
		writer.Flush()
		return nil
	}
}

func WriteCSVRow(writer *csv.Writer, point SweepPoint) error {
	row := []string{
		fmt.Sprintf("%d", point.Stop),
	}
	for _, values := range [][]float64{
		point.Metrics.StatParity,
		point.Metrics.DispImpact,
		point.Metrics.ZeroOneLoss,
		point.Metrics.Accuracy,
		point.Metrics.F1,
	} {
		row = append(row,
			fmt.Sprintf("%0.6f", stat.Mean(values, nil)),
			fmt.Sprintf("%0.6f", minFloats(values)),
			fmt.Sprintf("%0.6f", maxFloats(values)),
			fmt.Sprintf("%0.6f", stat.StdDev(values, nil)),
		)
	}

	if err := writer.Write(row); err != nil {
		return err
	} else {
		writer.Flush()
		return nil
	}
}
