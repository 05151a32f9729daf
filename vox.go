package voxsculpt

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
)

const voxMagicNumber = "VOX "

// VoxVoxel is one cell of a MagicaVoxel model, palette-indexed.
type VoxVoxel struct {
	X, Y, Z, ColorIndex byte
}

type VoxModel struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []VoxVoxel
}

// VoxPalette holds RGBA colors; index 0 is unused by convention.
type VoxPalette [256][4]byte

type VoxFile struct {
	Version int
	Models  []VoxModel
	Palette VoxPalette
}

// LoadVoxFile parses a MagicaVoxel .vox file. Only the chunks this
// project needs are handled: SIZE, XYZI, RGBA and PACK. Unknown chunks
// are skipped.
func LoadVoxFile(filename string) (*VoxFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseVox(file)
}

func ParseVox(r io.Reader) (*VoxFile, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if string(magic[:]) != voxMagicNumber {
		return nil, errors.New("not a valid VOX file")
	}

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}

	voxFile := &VoxFile{
		Version: int(version),
		Palette: defaultPalette(),
	}

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		var chunkSize, childrenSize int32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &childrenSize); err != nil {
			return nil, err
		}

		chunkData := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, err
		}

		switch string(chunkID[:]) {
		case "MAIN":
			continue
		case "SIZE":
			if len(chunkData) < 12 {
				return nil, errors.New("SIZE chunk too small")
			}
			if len(voxFile.Models) == 0 {
				voxFile.Models = append(voxFile.Models, VoxModel{})
			}
			model := &voxFile.Models[len(voxFile.Models)-1]
			model.SizeX = binary.LittleEndian.Uint32(chunkData[0:4])
			model.SizeY = binary.LittleEndian.Uint32(chunkData[4:8])
			model.SizeZ = binary.LittleEndian.Uint32(chunkData[8:12])
		case "XYZI":
			if len(voxFile.Models) == 0 {
				voxFile.Models = append(voxFile.Models, VoxModel{})
			}
			model := &voxFile.Models[len(voxFile.Models)-1]
			if len(chunkData) < 4 {
				return nil, errors.New("XYZI chunk too small")
			}
			numVoxels := binary.LittleEndian.Uint32(chunkData[:4])
			model.Voxels = make([]VoxVoxel, numVoxels)
			for i := 0; i < int(numVoxels); i++ {
				offset := 4 + i*4
				if offset+3 >= len(chunkData) {
					return nil, errors.New("XYZI chunk data overflow")
				}
				model.Voxels[i] = VoxVoxel{
					X:          chunkData[offset],
					Y:          chunkData[offset+1],
					Z:          chunkData[offset+2],
					ColorIndex: chunkData[offset+3],
				}
			}
		case "RGBA":
			for i := 0; i < 255; i++ {
				offset := i * 4
				if offset+3 >= len(chunkData) {
					break
				}
				voxFile.Palette[i+1][0] = chunkData[offset]
				voxFile.Palette[i+1][1] = chunkData[offset+1]
				voxFile.Palette[i+1][2] = chunkData[offset+2]
				voxFile.Palette[i+1][3] = chunkData[offset+3]
			}
		case "PACK":
			if len(chunkData) >= 4 {
				numModels := binary.LittleEndian.Uint32(chunkData[:4])
				if numModels > 0 {
					voxFile.Models = make([]VoxModel, numModels)
				}
			}
		}
	}

	return voxFile, nil
}

// ModelVoxels converts one model of a parsed file into an engine voxel
// list, resolving palette indices to colors. MagicaVoxel is z-up; the
// engine is y-up, so Y and Z swap here. The result is normalized.
func (f *VoxFile) ModelVoxels(index int) ([]VoxelData, error) {
	if index < 0 || index >= len(f.Models) {
		return nil, errors.New("vox model index out of range")
	}
	model := f.Models[index]

	voxels := make([]VoxelData, 0, len(model.Voxels))
	for _, v := range model.Voxels {
		c := f.Palette[v.ColorIndex]
		voxels = append(voxels, VoxelData{
			X:     int(v.X),
			Y:     int(v.Z),
			Z:     int(v.Y),
			Color: RGBFromBytes(c[0], c[1], c[2]),
		})
	}
	return Normalize(voxels), nil
}

// LoadVoxModel is the one-call import path: first model of the file as
// a normalized voxel list.
func LoadVoxModel(filename string) ([]VoxelData, error) {
	file, err := LoadVoxFile(filename)
	if err != nil {
		return nil, err
	}
	if len(file.Models) == 0 {
		return nil, errors.New("vox file contains no models")
	}
	return file.ModelVoxels(0)
}

func defaultPalette() VoxPalette {
	var palette VoxPalette
	for i := range palette {
		palette[i] = [4]uint8{255, 255, 255, 255} // white as fallback
	}
	return palette
}
