package rosette

import (
	"math"
	"math/rand"
)

// samplePolygon walks the closed polygon through corners and returns points
// spaced at most step apart, starting with the first corner.
func samplePolygon(corners []Point, step float64) []Point {
	var out []Point
	for i, a := range corners {
		b := corners[(i+1)%len(corners)]
		n := int(math.Ceil(a.Dist(b) / step))
		if n < 1 {
			n = 1
		}
		for k := 0; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)})
		}
	}
	return out
}

func polar(center Point, r, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: center.X + r*math.Cos(rad), Y: center.Y + r*math.Sin(rad)}
}

// wedgeCell builds a thin triangular cell whose tip points at center from
// direction deg, tipDist pixels away. Neighbouring wedges only approach each
// other at their tips, so the closest boundary pair of two wedges is tip to tip.
func wedgeCell(id int, center Point, deg, tipDist float64) Cell {
	tip := polar(center, tipDist, deg)
	b1 := polar(center, tipDist+60, deg-10)
	b2 := polar(center, tipDist+60, deg+10)
	return Cell{
		ID:       id,
		Boundary: samplePolygon([]Point{tip, b1, b2}, 1),
		Centroid: polar(center, tipDist+40, deg),
		Area:     600,
	}
}

// junction returns n wedges spaced evenly around center, with IDs starting at firstID.
func junction(firstID, n int, center Point, tipDist float64) []Cell {
	cells := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		cells = append(cells, wedgeCell(firstID+i, center, float64(i)*360/float64(n), tipDist))
	}
	return cells
}

// squareCell returns the outline of the axis-aligned square [x0,x0+side-1]x[y0,y0+side-1]
// sampled at every pixel.
func squareCell(id int, x0, y0, side float64) Cell {
	x1, y1 := x0+side-1, y0+side-1
	return Cell{
		ID: id,
		Boundary: samplePolygon([]Point{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		}, 1),
		Centroid: Point{X: (x0 + x1) / 2, Y: (y0 + y1) / 2},
		Area:     side * side,
	}
}

// randomCells scatters small circular cells over a square region, including
// negative coordinates.
func randomCells(seed int64, n int) []Cell {
	rng := rand.New(rand.NewSource(seed))
	cells := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		c := Point{X: rng.Float64()*240 - 40, Y: rng.Float64()*240 - 40}
		r := 4 + rng.Float64()*8
		var pts []Point
		for deg := 0.0; deg < 360; deg += 15 {
			pts = append(pts, polar(c, r, deg))
		}
		cells = append(cells, Cell{ID: i + 1, Boundary: pts, Centroid: c, Area: math.Pi * r * r})
	}
	return cells
}

// bruteMinDist is the reference O(B²) minimum boundary distance.
func bruteMinDist(a, b Cell) float64 {
	best := math.Inf(1)
	for _, p := range a.Boundary {
		for _, q := range b.Boundary {
			best = math.Min(best, p.Dist(q))
		}
	}
	return best
}

func shuffled(cells []Cell, seed int64) []Cell {
	out := make([]Cell, len(cells))
	copy(out, cells)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// minDistTo is the distance from p to the nearest boundary point of c.
func minDistTo(c Cell, p Point) float64 {
	best := math.Inf(1)
	for _, q := range c.Boundary {
		best = math.Min(best, p.Dist(q))
	}
	return best
}
