package signals

import (
	"fmt"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"tradepilot/internal/models"
)

// Recorder appends webhook-received signals to the signal log CSVs, so the
// live stream feeds the same files the offline analyzer replays.
type Recorder struct {
	mu       sync.Mutex
	buyPath  string
	sellPath string
}

// NewRecorder creates a recorder writing to the given signal sources.
func NewRecorder(buyPath, sellPath string) *Recorder {
	return &Recorder{buyPath: buyPath, sellPath: sellPath}
}

// Record appends one signal to the side's log file, creating it with a
// header when missing.
func (r *Recorder) Record(symbol string, side models.Side, date models.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.buyPath
	if side == models.SideSell {
		path = r.sellPath
	}

	info, err := os.Stat(path)
	newFile := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening signal log: %w", err)
	}
	defer f.Close()

	rows := []*signalRow{{Date: date.String(), Symbol: symbol}}
	if newFile {
		return gocsv.MarshalFile(&rows, f)
	}
	return gocsv.MarshalWithoutHeaders(&rows, f)
}
