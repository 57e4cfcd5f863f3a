package mapcontainer

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils/vector"
)

// Edge data is a flat little-endian stream of point blocks:
// an int32 count followed by count float32 (x, y) pairs.

const maxBlockPoints = 1 << 24

func WritePointBlock(w io.Writer, points []vector.Vector2) error {
	buf := make([]byte, 4+8*len(points))

	binary.LittleEndian.PutUint32(buf, uint32(int32(len(points))))

	for i, p := range points {
		offset := 4 + 8*i
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(float32(p.GetX())))
		binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(float32(p.GetY())))
	}

	_, err := w.Write(buf)

	return errors.Wrap(err, "could not write point block")
}

func WritePointBlocks(w io.Writer, blocks ...[]vector.Vector2) error {
	for _, block := range blocks {
		if err := WritePointBlock(w, block); err != nil {
			return err
		}
	}

	return nil
}

// ReadPointBlock returns io.EOF when the stream ends cleanly before a block
func ReadPointBlock(r io.Reader) ([]vector.Vector2, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "could not read point count")
	}

	if count < 0 || count > maxBlockPoints {
		return nil, errors.Errorf("invalid point count %d", count)
	}

	raw := make([]float32, 2*int(count))
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, errors.Wrapf(err, "could not read %d points", count)
	}

	points := make([]vector.Vector2, count)
	for i := range points {
		points[i] = vector.MakeVector2(float64(raw[2*i]), float64(raw[2*i+1]))
	}

	return points, nil
}

func ReadPointBlocks(r io.Reader) ([][]vector.Vector2, error) {
	blocks := make([][]vector.Vector2, 0)

	for {
		block, err := ReadPointBlock(r)
		if err == io.EOF {
			return blocks, nil
		}

		if err != nil {
			return nil, errors.Wrapf(err, "block %d", len(blocks))
		}

		blocks = append(blocks, block)
	}
}

// ReadEdgeData reads an outer block, an inner block and an optional raceline block.
// Without raceline, the path is the midline of the two boundaries.
func ReadEdgeData(r io.Reader) (*MapContainer, error) {
	blocks, err := ReadPointBlocks(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read edge data")
	}

	if len(blocks) < 2 {
		return nil, errors.Errorf("edge data needs an outer and an inner boundary, got %d blocks", len(blocks))
	}

	outer, inner := blocks[0], blocks[1]

	var raceline []vector.Vector2
	if len(blocks) > 2 && len(blocks[2]) > 0 {
		raceline = blocks[2]
	} else {
		raceline = Midline(outer, inner)
	}

	return MakeMapContainer("", outer, inner, raceline), nil
}

// Midline pairs every inner point with its nearest outer point and keeps the middle
func Midline(outer, inner []vector.Vector2) []vector.Vector2 {
	res := make([]vector.Vector2, 0, len(inner))

	if len(outer) == 0 {
		return res
	}

	for _, p := range inner {
		nearest := outer[0]
		best := p.DistanceSqTo(nearest)

		for _, q := range outer[1:] {
			if d := p.DistanceSqTo(q); d < best {
				best = d
				nearest = q
			}
		}

		res = append(res, p.Lerp(nearest, 0.5))
	}

	return res
}
