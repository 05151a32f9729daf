package voxsculpt

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// VoxelRecord is the interchange form of one voxel. Coordinates are
// floats on the wire because generated content arrives unrounded; they
// are rounded on import. Color is "#rrggbb".
type VoxelRecord struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Color string  `json:"color"`
}

func parseHexColor(s string) (RGB, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, fmt.Errorf("bad color %q: %w", s, err)
	}
	return RGBFromBytes(r, g, b), nil
}

// VoxelsFromRecords converts wire records into model voxels. Records
// with non-finite coordinates or unparseable colors are dropped with a
// warning; the simulation store never sees them.
func VoxelsFromRecords(records []VoxelRecord, log Logger) []VoxelData {
	if log == nil {
		log = NewNopLogger()
	}
	voxels := make([]VoxelData, 0, len(records))
	for i, rec := range records {
		if !finite(rec.X) || !finite(rec.Y) || !finite(rec.Z) {
			log.Warnf("dropping voxel %d: non-finite coordinates", i)
			continue
		}
		color, err := parseHexColor(rec.Color)
		if err != nil {
			log.Warnf("dropping voxel %d: %v", i, err)
			continue
		}
		voxels = append(voxels, VoxelData{
			X:     int(math.Round(rec.X)),
			Y:     int(math.Round(rec.Y)),
			Z:     int(math.Round(rec.Z)),
			Color: color,
		})
	}
	return voxels
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func recordsFromVoxels(voxels []VoxelData) []VoxelRecord {
	records := make([]VoxelRecord, len(voxels))
	for i, v := range voxels {
		records[i] = VoxelRecord{
			X:     float64(v.X),
			Y:     float64(v.Y),
			Z:     float64(v.Z),
			Color: v.Color.String(),
		}
	}
	return records
}

// JSONData snapshots the live store as records, rubble excluded.
// Positions are rounded to the grid; in PhaseStable that is exactly
// the sculpture's model. Read only, no simulation effect.
func (e *Engine) JSONData() ([]byte, error) {
	records := make([]VoxelRecord, 0, len(e.voxels))
	for i := range e.voxels {
		if e.targets[i].Rubble {
			continue
		}
		v := &e.voxels[i]
		records = append(records, VoxelRecord{
			X:     math.Round(float64(v.Position.X())),
			Y:     math.Round(float64(v.Position.Y())),
			Z:     math.Round(float64(v.Position.Z())),
			Color: v.Color.String(),
		})
	}
	return json.MarshalIndent(records, "", "  ")
}

// SaveModel writes a voxel list as a JSON model file.
func SaveModel(voxels []VoxelData, filename string) error {
	bytes, err := json.MarshalIndent(recordsFromVoxels(voxels), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, bytes, 0644)
}

// LoadModel reads a JSON model file into a normalized voxel list.
func LoadModel(filename string, log Logger) ([]VoxelData, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var records []VoxelRecord
	if err := json.Unmarshal(bytes, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return Normalize(VoxelsFromRecords(records, log)), nil
}
