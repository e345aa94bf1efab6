package simulate

import (
	"context"
	"errors"
	"time"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"wayfinder.app/internal/geo"
)

var ErrEmptyLine = errors.New("simulate: empty line")

// Line is a route polyline prepared for playback.
type Line struct {
	ls     orb.LineString
	length float64
}

func NewLine(points []geo.Point) (Line, error) {
	if len(points) == 0 {
		return Line{}, ErrEmptyLine
	}
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return Line{}, err
		}
		ls = append(ls, orb.Point{p.Lng, p.Lat})
	}
	return Line{ls: ls, length: orbgeo.LengthHaversine(ls)}, nil
}

// Length is the line length in meters.
func (l Line) Length() float64 {
	return l.length
}

// At returns the point distance meters along the line, clamped to its ends.
func (l Line) At(distance float64) geo.Point {
	if len(l.ls) == 1 || distance <= 0 {
		return toPoint(l.ls[0])
	}
	if distance >= l.length {
		return toPoint(l.ls[len(l.ls)-1])
	}
	p, _ := orbgeo.PointAtDistanceAlongLine(l.ls, distance)
	return toPoint(p)
}

func toPoint(p orb.Point) geo.Point {
	return geo.Point{Lat: p.Lat(), Lng: p.Lon()}
}

// Playback emits positions along the line at speedMps, one per interval,
// starting at the first vertex. The channel closes after the last vertex is
// emitted or when ctx is done.
func Playback(ctx context.Context, line Line, speedMps float64, interval time.Duration) (<-chan geo.Point, error) {
	if len(line.ls) == 0 {
		return nil, ErrEmptyLine
	}
	if speedMps <= 0 || interval <= 0 {
		return nil, errors.New("simulate: speed and interval must be positive")
	}

	out := make(chan geo.Point)
	step := speedMps * interval.Seconds()

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for traveled := 0.0; ; traveled += step {
			select {
			case out <- line.At(traveled):
			case <-ctx.Done():
				return
			}
			if traveled >= line.length {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
