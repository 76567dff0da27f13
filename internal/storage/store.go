package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/spinarena/internal/pattern"
	"github.com/san-kum/spinarena/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var statesHeader = []string{
	"step", "time", "id", "x", "y", "vx", "vy", "angular_velocity", "rotation",
	"radius", "mass", "color", "pattern", "count", "outline", "held",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Bodies    int                `json:"bodies"`
	Steps     int                `json:"steps"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
	Totals    sim.StepStats      `json:"totals"`
}

// Save writes a run directory and returns its id. ID, Timestamp and the
// result-derived fields of meta are filled in here. A run that fails to write
// leaves no directory behind.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(meta.Scene, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Metrics = result.Metrics
	meta.Totals = result.Totals
	meta.Steps = result.StepsTaken
	if len(result.Frames) > 0 {
		meta.Bodies = len(result.Frames[0].Bodies)
	}

	if err := writeRun(runDir, meta, result.Frames); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, frames []sim.Frame) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeFrames(w, frames); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// newRunDir creates <scene>_<timestamp>, adding a counter when two runs land
// in the same second.
func (s *Store) newRunDir(scene string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", scene, now.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func (s *Store) open(runID, name string) (*os.File, error) {
	return os.Open(filepath.Join(s.baseDir, runID, name))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// writeFrames writes one row per body. A frame without bodies gets a single
// row holding only step and time so it survives a round trip.
func writeFrames(w *csv.Writer, frames []sim.Frame) error {
	if err := w.Write(statesHeader); err != nil {
		return err
	}
	for _, f := range frames {
		if len(f.Bodies) == 0 {
			row := make([]string, len(statesHeader))
			row[0] = strconv.Itoa(f.Step)
			row[1] = formatFloat(f.Time)
			if err := w.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, b := range f.Bodies {
			row := []string{
				strconv.Itoa(f.Step),
				formatFloat(f.Time),
				strconv.Itoa(b.ID),
				formatFloat(b.X),
				formatFloat(b.Y),
				formatFloat(b.VX),
				formatFloat(b.VY),
				formatFloat(b.AngularVelocity),
				formatFloat(b.Rotation),
				formatFloat(b.Radius),
				formatFloat(b.Mass),
				b.Color,
				b.Pattern.Kind.String(),
				strconv.Itoa(b.Pattern.Count),
				strconv.FormatBool(b.Pattern.Outline),
				strconv.FormatBool(b.Held),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads the sampled frames of a run back. Arena size is taken from
// the stored parameters.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := s.open(runID, statesFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	for i, record := range records {
		if i == 0 {
			continue
		}
		step, t, body, ok, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", statesFile, i+1, err)
		}

		if len(frames) == 0 || frames[len(frames)-1].Step != step {
			frames = append(frames, sim.Frame{
				Step:   step,
				Time:   t,
				Width:  meta.Params["width"],
				Height: meta.Params["height"],
				Bodies: []sim.BodyState{},
			})
		}
		if ok {
			last := &frames[len(frames)-1]
			last.Bodies = append(last.Bodies, body)
		}
	}

	return frames, nil
}

// parseRow reads one states.csv record. ok is false for the marker row of an
// empty frame.
func parseRow(record []string) (step int, t float64, b sim.BodyState, ok bool, err error) {
	if len(record) != len(statesHeader) {
		return 0, 0, b, false, fmt.Errorf("expected %d fields, got %d", len(statesHeader), len(record))
	}

	if step, err = strconv.Atoi(record[0]); err != nil {
		return 0, 0, b, false, err
	}
	if t, err = strconv.ParseFloat(record[1], 64); err != nil {
		return 0, 0, b, false, err
	}
	if record[2] == "" {
		return step, t, b, false, nil
	}
	if b.ID, err = strconv.Atoi(record[2]); err != nil {
		return 0, 0, b, false, err
	}

	floats := []*float64{&b.X, &b.Y, &b.VX, &b.VY, &b.AngularVelocity, &b.Rotation, &b.Radius, &b.Mass}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(record[3+i], 64); err != nil {
			return 0, 0, b, false, err
		}
	}

	b.Color = record[11]
	if b.Pattern.Kind, err = pattern.ParseKind(record[12]); err != nil {
		return 0, 0, b, false, err
	}
	if b.Pattern.Count, err = strconv.Atoi(record[13]); err != nil {
		return 0, 0, b, false, err
	}
	if b.Pattern.Outline, err = strconv.ParseBool(record[14]); err != nil {
		return 0, 0, b, false, err
	}
	if b.Held, err = strconv.ParseBool(record[15]); err != nil {
		return 0, 0, b, false, err
	}

	return step, t, b, true, nil
}

// Series extracts one value per frame, e.g. total energy, for plotting.
func Series(frames []sim.Frame, value func(sim.Frame) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = value(f)
	}
	return out
}
