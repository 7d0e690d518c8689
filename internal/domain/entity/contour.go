package entity

import (
	"image"
	"math"
)

// Contour упорядоченная граница одной связной области бинарной маски
type Contour []image.Point

// SignedArea считает знаковую площадь многоугольника по формуле шнуровки.
func (c Contour) SignedArea() float64 {
	if len(c) < 3 {
		return 0
	}

	var sum float64
	for i := range c {
		p := c[i]
		q := c[(i+1)%len(c)]
		sum += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return sum / 2
}

// Area возвращает площадь контура, всегда неотрицательную.
func (c Contour) Area() float64 {
	return math.Abs(c.SignedArea())
}

// Moments считает геометрические моменты m00, m10, m01 по теореме Грина.
// m00 совпадает со знаковой площадью.
func (c Contour) Moments() (m00, m10, m01 float64) {
	if len(c) < 3 {
		return 0, 0, 0
	}

	for i := range c {
		p := c[i]
		q := c[(i+1)%len(c)]
		cross := float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
		m00 += cross
		m10 += cross * (float64(p.X) + float64(q.X))
		m01 += cross * (float64(p.Y) + float64(q.Y))
	}

	m00 /= 2
	m10 /= 6
	m01 /= 6
	return m00, m10, m01
}

// Centroid возвращает центр масс контура. Для вырожденного контура
// (нулевая площадь) возвращает центр ограничивающей рамки.
func (c Contour) Centroid() (x, y float64) {
	m00, m10, m01 := c.Moments()
	if m00 == 0 {
		r := c.BoundingRect()
		return float64(r.Min.X+r.Max.X-1) / 2, float64(r.Min.Y+r.Max.Y-1) / 2
	}
	return m10 / m00, m01 / m00
}

// BoundingRect возвращает ограничивающую рамку контура в пикселях.
// Max — на единицу дальше крайнего пикселя, как в image.Rectangle.
func (c Contour) BoundingRect() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}

	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
