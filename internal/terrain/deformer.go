package terrain

import (
	"fmt"
	"math"

	vec "github.com/ChenRaptor/procedural-universe/pkg/math"
	"github.com/ChenRaptor/procedural-universe/pkg/noise"
	"github.com/ChenRaptor/procedural-universe/pkg/palette"
)

// Height and climate blend constants.
const (
	mountainWeight   = 0.6
	continentWeight  = 0.4
	continentEdge    = 0.1
	bigMountainEdge  = 0.2
	bigMountainBonus = 0.25

	altitudeCooling = 0.7
	tempCoarseGain  = 0.3
	tempFineGain    = 0.15
	humCoarseGain   = 0.7
	humFineGain     = 0.3
	humidityRange   = 0.7

	humCoarseOffset = 100
	humFineOffset   = 200

	equatorWidth = 1e-4
)

// Sample is everything derived for one unit-sphere direction.
type Sample struct {
	Continent   float64
	BigMountain float64
	Mountain    float64
	Detail      float64

	// Radius is the deformed radius after the sea clamp.
	Radius float64
	Ocean  bool
	Biome  Biome

	Latitude    float64 // 0 at the north pole, 1 at the south pole
	Altitude    float64 // (Radius - base) / amplitude; zero for ocean
	Temperature float64 // zero for ocean
	Humidity    float64 // zero for ocean
}

// Elevation returns the blended height signal that drives both the radius
// and the ocean color.
func (s Sample) Elevation() float64 {
	return s.Mountain*s.BigMountain*mountainWeight + s.Continent*continentWeight
}

// Relief returns the mountain factor used for rock coloring.
func (s Sample) Relief() float64 {
	return s.Mountain * s.BigMountain
}

// Deformer turns unit-sphere directions into terrain samples. It holds no
// mutable state and is safe for concurrent use.
type Deformer struct {
	params Params

	continent   *noise.Fractal
	bigMountain *noise.Fractal
	mountain    *noise.Fractal
	detail      *noise.Fractal
	tempCoarse  *noise.Fractal
	tempFine    *noise.Fractal
	humCoarse   *noise.Fractal
	humFine     *noise.Fractal
}

// NewDeformer validates p and binds its layers to src.
func NewDeformer(src noise.Source, p Params) (*Deformer, error) {
	if src == nil {
		return nil, noise.ErrNilSource
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d := &Deformer{params: p}
	bind := []struct {
		dst   **noise.Fractal
		layer noise.Layer
	}{
		{&d.continent, p.Layers.Continent},
		{&d.bigMountain, p.Layers.BigMountain},
		{&d.mountain, p.Layers.Mountain},
		{&d.detail, p.Layers.Detail},
		{&d.tempCoarse, p.Layers.Temperature.Coarse},
		{&d.tempFine, p.Layers.Temperature.Fine},
		{&d.humCoarse, p.Layers.Humidity.Coarse},
		{&d.humFine, p.Layers.Humidity.Fine},
	}
	for _, b := range bind {
		f, err := noise.NewFractal(src, b.layer)
		if err != nil {
			return nil, fmt.Errorf("binding noise layer: %w", err)
		}
		*b.dst = f
	}
	return d, nil
}

// Params returns the parameters d was built with.
func (d *Deformer) Params() Params {
	return d.params
}

// Sample derives height, climate and biome at the unit direction v.
func (d *Deformer) Sample(v vec.Vec3) Sample {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	p := &d.params

	s := Sample{
		Continent:   d.continent.Eval(x, y, z),
		BigMountain: d.bigMountain.Eval(x, y, z),
		Mountain:    d.mountain.Eval(x, y, z),
		Detail:      d.detail.Eval(x, y, z),
		Latitude:    math.Acos(clamp(y, -1, 1)) / math.Pi,
	}

	radius := p.Radius + s.Elevation()*p.Amplitude
	radius += smoothstep(0, bigMountainEdge, s.BigMountain) *
		smoothstep(0, continentEdge, s.Continent) *
		s.BigMountain * p.Amplitude * bigMountainBonus

	// Ocean membership is decided by comparing against the value just
	// assigned, never by recomputing the threshold.
	if radius <= p.SeaLevel {
		radius = p.SeaLevel
	}
	s.Radius = radius
	if radius == p.SeaLevel {
		s.Ocean = true
		s.Biome = Ocean
		return s
	}

	if p.Amplitude > 0 {
		s.Altitude = (radius - p.Radius) / p.Amplitude
	}
	s.Temperature = d.temperature(x, y, z, s.Latitude, s.Altitude)
	s.Humidity = d.humidity(x, y, z)
	s.Biome = Classify(s.Temperature, s.Humidity, s.Radius, p.SeaLevel)
	return s
}

func (d *Deformer) temperature(x, y, z, latitude, altitude float64) float64 {
	base := clamp(1-math.Abs(latitude-0.5)*2-altitude*altitudeCooling, 0, 1)
	return base +
		tempCoarseGain*d.tempCoarse.Eval(x, y, z) +
		tempFineGain*d.tempFine.Eval(x, y, z)
}

func (d *Deformer) humidity(x, y, z float64) float64 {
	coarse := d.humCoarse.Eval(x+humCoarseOffset, y+humCoarseOffset, z+humCoarseOffset)
	fine := d.humFine.Eval(x+humFineOffset, y+humFineOffset, z+humFineOffset)
	return (humCoarseGain*coarse + humFineGain*fine + 1) * 0.5 * humidityRange
}

// Color returns the vertex color for s.
func (d *Deformer) Color(s Sample) palette.RGB {
	p := &d.params
	if p.ShowEquator && math.Abs(s.Latitude-0.5) < equatorWidth {
		return palette.Red
	}

	if s.Ocean {
		return p.Palettes.Biomes[Ocean].At(s.Elevation())
	}

	pal, ok := p.Palettes.Biomes[s.Biome]
	if !ok {
		pal = p.Palettes.Biomes[Forest]
	}
	biome := pal.At(s.Detail)

	relief := s.Relief()
	rock := p.Palettes.Relief.At(relief)
	w := math.Abs(math.Tanh(p.Palettes.ReliefSharpness * relief))

	biomeShare := p.Palettes.FlatBiomeWeight * (1 - w)
	return biome.Scale(float32(biomeShare)).Add(rock.Scale(float32(1 - biomeShare)))
}

// smoothstep is the cubic Hermite ease between e0 and e1.
func smoothstep(e0, e1, x float64) float64 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
