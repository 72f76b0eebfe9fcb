package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads price bars from a CSV file with columns
// time,symbol,close[,volume] (header optional) and returns a Dataset with no
// whale or sentiment data attached. Handy for fixtures and ad-hoc datasets
// exported from other tools.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []Bar
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	return NewDataset(bars), nil
}

func parseBarRow(row []string) (Bar, error) {
	if len(row) < 3 {
		return Bar{}, fmt.Errorf("bad row (need time,symbol,close): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Bar{}, fmt.Errorf("bad time %q: %w", row[0], err)
		}
	}

	closePx, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return Bar{}, fmt.Errorf("bad close %q: %w", row[2], err)
	}

	b := Bar{
		Time:   t.UTC(),
		Symbol: strings.TrimSpace(row[1]),
		Close:  closePx,
	}

	if len(row) >= 4 && strings.TrimSpace(row[3]) != "" {
		vol, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad volume %q: %w", row[3], err)
		}
		b.Volume = vol
	}

	return b, nil
}
