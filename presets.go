package voxsculpt

// Built-in sculpture models. Each generator returns a normalized voxel
// list ready for the engine.

// PresetSphere builds a solid sphere of the given radius with a simple
// vertical color gradient.
func PresetSphere(radius int) []VoxelData {
	voxels := []VoxelData{}
	r2 := float32(radius * radius)

	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			for z := -radius; z <= radius; z++ {
				fx, fy, fz := float32(x), float32(y), float32(z)
				if fx*fx+fy*fy+fz*fz > r2 {
					continue
				}
				shade := uint8(120 + 120*(y+radius)/(2*radius+1))
				voxels = append(voxels, VoxelData{
					X: x, Y: y, Z: z,
					Color: RGBFromBytes(60, shade, 220),
				})
			}
		}
	}
	return Normalize(voxels)
}

// PresetTower builds a solid rectangular tower with banded floors.
func PresetTower(sizeX, sizeY, sizeZ int) []VoxelData {
	voxels := []VoxelData{}
	for x := 0; x < sizeX; x++ {
		for y := 0; y < sizeY; y++ {
			for z := 0; z < sizeZ; z++ {
				color := RGBFromBytes(200, 170, 120)
				if y%4 == 3 {
					color = RGBFromBytes(120, 90, 60)
				}
				voxels = append(voxels, VoxelData{X: x, Y: y, Z: z, Color: color})
			}
		}
	}
	return Normalize(voxels)
}

// PresetPyramid builds a stepped square pyramid.
func PresetPyramid(baseRadius, height int) []VoxelData {
	voxels := []VoxelData{}
	for y := 0; y < height; y++ {
		r := baseRadius - (y*baseRadius)/height
		shade := uint8(140 + 100*y/height)
		for x := -r; x <= r; x++ {
			for z := -r; z <= r; z++ {
				voxels = append(voxels, VoxelData{
					X: x, Y: y, Z: z,
					Color: RGBFromBytes(shade, uint8(60+y*3), 80),
				})
			}
		}
	}
	return Normalize(voxels)
}

// PresetHeart builds a solid heart from the classic implicit surface,
// sampled on the voxel grid.
func PresetHeart(radius int) []VoxelData {
	voxels := []VoxelData{}
	s := 1.4 / float32(radius)

	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			for z := -radius; z <= radius; z++ {
				fx := float32(x) * s
				fy := float32(y) * s
				fz := float32(z) * s

				// (x^2 + 9/4 z^2 + y^2 - 1)^3 - x^2 y^3 - 9/80 z^2 y^3 <= 0
				a := fx*fx + 2.25*fz*fz + fy*fy - 1
				if a*a*a-fx*fx*fy*fy*fy-0.1125*fz*fz*fy*fy*fy > 0 {
					continue
				}
				voxels = append(voxels, VoxelData{
					X: x, Y: y, Z: z,
					Color: RGBFromBytes(230, 40, uint8(60+(y+radius)*2)),
				})
			}
		}
	}
	return Normalize(voxels)
}
