package scene

import (
	"math"

	"github.com/Comcast/vizcrew/widget"
)

// DefaultViewAngle is the camera's default vertical view angle in
// degrees.
const DefaultViewAngle = 30

// Camera looks from Position at FocalPoint.
type Camera struct {
	Position   Vec3    `json:"position"`
	FocalPoint Vec3    `json:"focalPoint"`
	ViewUp     Vec3    `json:"viewUp"`
	ViewAngle  float64 `json:"viewAngle"`
}

func NewCamera() *Camera {
	return &Camera{
		Position:  Vec3{0, 0, 1},
		ViewUp:    Vec3{0, 1, 0},
		ViewAngle: DefaultViewAngle,
	}
}

// Project returns p's display coordinates in a w by h viewport, with
// the origin at the lower left.  Points behind the camera aren't
// projected.
func (c *Camera) Project(p Vec3, w, h float64) (float64, float64, bool) {
	dir := c.FocalPoint.Sub(c.Position).Unit()
	right := dir.Cross(c.ViewUp).Unit()
	if dir.Norm() == 0 || right.Norm() == 0 || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	up := right.Cross(dir)

	v := p.Sub(c.Position)
	z := v.Dot(dir)
	if z <= 0 {
		return 0, 0, false
	}
	angle := c.ViewAngle
	if angle <= 0 {
		angle = DefaultViewAngle
	}
	f := 1 / math.Tan(angle*math.Pi/360)
	x := f * v.Dot(right) / z * h / w
	y := f * v.Dot(up) / z
	return (x + 1) / 2 * w, (y + 1) / 2 * h, true
}

// Renderer holds the actors of one scene.
type Renderer struct {
	Actors     []*Actor
	Axes       *CubeAxes
	Background Vec3
	Camera     *Camera
}

func NewRenderer() *Renderer {
	return &Renderer{
		Background: Vec3{0.32, 0.34, 0.43},
		Camera:     NewCamera(),
	}
}

func (r *Renderer) Add(as ...*Actor) *Renderer {
	r.Actors = append(r.Actors, as...)
	return r
}

// Bounds is the union of the visible actors' bounds.
func (r *Renderer) Bounds() (Bounds, error) {
	b := EmptyBounds()
	for _, a := range r.Actors {
		if !a.Visibility {
			continue
		}
		ab, err := a.Bounds()
		if err != nil {
			return b, err
		}
		b = b.Union(ab)
	}
	return b, nil
}

// ResetCamera points the camera at the center of the visible actors
// and backs it off until everything fits.  The direction of view and
// the view up are preserved.
func (r *Renderer) ResetCamera() error {
	if r.Camera == nil {
		r.Camera = NewCamera()
	}
	b, err := r.Bounds()
	if err != nil {
		return err
	}
	if !b.Valid() {
		b = Bounds{-1, 1, -1, 1, -1, 1}
	}
	c := r.Camera
	normal := c.Position.Sub(c.FocalPoint).Unit()
	if normal.Norm() == 0 {
		normal = Vec3{0, 0, 1}
	}
	radius := b.Diagonal() / 2
	if radius == 0 {
		radius = 0.5
	}
	angle := c.ViewAngle
	if angle <= 0 {
		angle = DefaultViewAngle
	}
	distance := radius / math.Sin(angle*math.Pi/360)

	c.FocalPoint = b.Center()
	c.Position = c.FocalPoint.Add(normal.Scale(distance))
	return nil
}

// SceneActor is the serialized form of an Actor.
type SceneActor struct {
	Name     string    `json:"name"`
	Geometry *Geometry `json:"geometry"`
	Property *Property `json:"property"`
	Visible  bool      `json:"visible"`
}

// Scene is the serialized form of a Renderer.
type Scene struct {
	Background Vec3         `json:"background"`
	Camera     *Camera      `json:"camera"`
	Actors     []SceneActor `json:"actors"`
	Axes       []Axis       `json:"axes,omitempty"`
	AxesBounds *Bounds      `json:"axesBounds,omitempty"`
}

// Scene runs every actor's pipeline and gathers the results.
//
// Invisible actors are included (so the client can keep their
// place) without geometry.
func (r *Renderer) Scene() (*Scene, error) {
	s := &Scene{
		Background: r.Background,
		Camera:     r.Camera,
		Actors:     make([]SceneActor, 0, len(r.Actors)),
	}
	for _, a := range r.Actors {
		sa := SceneActor{
			Name:     a.Name,
			Property: a.Property,
			Visible:  a.Visibility,
		}
		if a.Visibility && a.Mapper != nil {
			g, _, err := a.Mapper.Geometry()
			if err != nil {
				return nil, err
			}
			sa.Geometry = g
		}
		s.Actors = append(s.Actors, sa)
	}
	if r.Axes != nil && r.Axes.Visibility && r.Axes.Bounds.Valid() {
		b := r.Axes.Bounds
		s.Axes = r.Axes.Axes()
		s.AxesBounds = &b
	}
	return s, nil
}

// Artifact returns the scene as a widget artifact.
func (r *Renderer) Artifact() (*widget.Artifact, error) {
	s, err := r.Scene()
	if err != nil {
		return nil, err
	}
	return widget.NewArtifact(widget.KindScene, s), nil
}
