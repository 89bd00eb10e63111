package reporter

import (
	"encoding/csv"
	"io"
	"strconv"
)

// SceneTable is one analyzed stream's scene list for CSV rendering.
type SceneTable struct {
	InputFile string
	Scenes    []SceneSummary
}

var csvHeader = []string{
	"input_file", "scene_number", "start_timecode", "end_timecode",
	"length_frames", "duration",
}

// WriteScenesCSV renders scene tables as CSV, one row per scene with a
// single shared header.
func WriteScenesCSV(w io.Writer, tables ...SceneTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, table := range tables {
		for _, sc := range table.Scenes {
			record := []string{
				table.InputFile,
				strconv.Itoa(sc.Number),
				sc.Start,
				sc.End,
				strconv.FormatInt(sc.Frames, 10),
				sc.Duration,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
