package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Trace is the recorded state of one run, one entry per rendered frame.
type Trace struct {
	Name     string             `json:"name"`
	FPS      int                `json:"fps"`
	Points   int                `json:"points"`
	Frames   []int              `json:"frames"`
	States   []dynamo.State     `json:"states"`
	Impulses []Impulse          `json:"impulses,omitempty"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// Impulse is a pointer transition as recorded in a trace.
type Impulse struct {
	Frame      int     `json:"frame"`
	Transition string  `json:"transition"`
	Point      int     `json:"point"`
	Value      float64 `json:"value"`
}

// WriteCSV writes one row per frame: frame, time, radial effects, speeds.
func WriteCSV(w io.Writer, t *Trace) error {
	cw := csv.NewWriter(w)

	header := []string{"frame", "time"}
	for i := 0; i < t.Points; i++ {
		header = append(header, fmt.Sprintf("r%d", i))
	}
	for i := 0; i < t.Points; i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	fps := float64(t.FPS)
	if fps <= 0 {
		fps = 60
	}
	for i, x := range t.States {
		frame := i + 1
		if i < len(t.Frames) {
			frame = t.Frames[i]
		}
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(frame), strconv.FormatFloat(float64(frame)/fps, 'f', 6, 64))
		for _, v := range x {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, t *Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// ReadCSV parses a trace written by WriteCSV. Rows are expected to carry
// the same number of radial effects and speeds.
func ReadCSV(r io.Reader) (*Trace, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("trace: missing header")
	}
	header := records[0]
	if len(header) < 2 || (len(header)-2)%2 != 0 {
		return nil, fmt.Errorf("trace: malformed header %v", header)
	}
	t := &Trace{Points: (len(header) - 2) / 2}

	for n, record := range records[1:] {
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("trace row %d: %w", n+1, err)
		}
		if t.FPS == 0 && frame > 0 {
			if sec, err := strconv.ParseFloat(record[1], 64); err == nil && sec > 0 {
				t.FPS = int(math.Round(float64(frame) / sec))
			}
		}
		x := make(dynamo.State, 0, len(record)-2)
		for _, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("trace row %d: %w", n+1, err)
			}
			x = append(x, v)
		}
		t.Frames = append(t.Frames, frame)
		t.States = append(t.States, x)
	}
	return t, nil
}
