package voxsculpt

import (
	"fmt"
	"math"
)

// RGB is a 24-bit packed color, 0xRRGGBB.
type RGB uint32

func RGBFromBytes(r, g, b uint8) RGB {
	return RGB(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c RGB) R() uint8 { return uint8(c >> 16) }
func (c RGB) G() uint8 { return uint8(c >> 8) }
func (c RGB) B() uint8 { return uint8(c) }

func (c RGB) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// DistanceSq is the squared Euclidean distance between two colors in
// RGB space. Cheap enough to run inside the assignment scan.
func (c RGB) DistanceSq(other RGB) float32 {
	dr := float32(c.R()) - float32(other.R())
	dg := float32(c.G()) - float32(other.G())
	db := float32(c.B()) - float32(other.B())
	return dr*dr + dg*dg + db*db
}

// VoxelData describes one voxel of a model: an integer grid position
// and a solid color. Model sources (presets, .vox import, generators)
// produce these; the engine never mutates them.
type VoxelData struct {
	X, Y, Z int
	Color   RGB
}

// Normalize shifts a voxel list so the horizontal midpoint of its
// bounding box sits at x=0, z=0 and the lowest voxel rests at y=0.
// The shift is rounded to whole cells once, so relative positions
// survive intact. An empty list is returned unchanged.
func Normalize(voxels []VoxelData) []VoxelData {
	if len(voxels) == 0 {
		return voxels
	}

	minX, maxX := voxels[0].X, voxels[0].X
	minY := voxels[0].Y
	minZ, maxZ := voxels[0].Z, voxels[0].Z
	for _, v := range voxels[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Z < minZ {
			minZ = v.Z
		}
		if v.Z > maxZ {
			maxZ = v.Z
		}
	}

	shiftX := int(math.Round(float64(minX+maxX) / 2.0))
	shiftZ := int(math.Round(float64(minZ+maxZ) / 2.0))

	out := make([]VoxelData, len(voxels))
	for i, v := range voxels {
		out[i] = VoxelData{
			X:     v.X - shiftX,
			Y:     v.Y - minY,
			Z:     v.Z - shiftZ,
			Color: v.Color,
		}
	}
	return out
}
