package game

import (
	"slices"

	"github.com/jakecoffman/cp"
)

// Space is the scene's spatial index, backed by a Chipmunk space. Agents
// are circles on kinematic bodies; obstacles are boxes on the static body.
// The space is never stepped: it only answers queries.
type Space struct {
	space  *cp.Space
	bodies map[Handle]*cp.Body
	shapes map[Handle]*cp.Shape
	radius map[Handle]float64
}

// NewSpace creates an empty spatial index.
func NewSpace() *Space {
	return &Space{
		space:  cp.NewSpace(),
		bodies: make(map[Handle]*cp.Body),
		shapes: make(map[Handle]*cp.Shape),
		radius: make(map[Handle]float64),
	}
}

func toCP(p Vec3) cp.Vector { return cp.Vector{X: p.X, Y: p.Z} }

func shapeFilter(cat Category) cp.ShapeFilter {
	return cp.ShapeFilter{Categories: uint(cat), Mask: ^uint(0)}
}

// queryFilter matches shapes in any of the mask categories.
func queryFilter(mask Category) cp.ShapeFilter {
	return cp.ShapeFilter{Categories: ^uint(0), Mask: uint(mask)}
}

// AddAgent registers h as a circle of radius r at pos.
func (s *Space) AddAgent(h Handle, cat Category, pos Vec3, r float64) {
	if _, ok := s.bodies[h]; ok {
		s.Remove(h)
	}
	body := s.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(toCP(pos))
	shape := s.space.AddShape(cp.NewCircle(body, r, cp.Vector{}))
	shape.SetFilter(shapeFilter(cat))
	shape.UserData = h
	s.bodies[h] = body
	s.shapes[h] = shape
	s.radius[h] = r
}

// AddObstacle registers a solid box.
func (s *Space) AddObstacle(b Box) {
	bb := cp.BB{L: b.MinX, B: b.MinZ, R: b.MaxX, T: b.MaxZ}
	shape := s.space.AddShape(cp.NewBox2(s.space.StaticBody, bb, 0))
	shape.SetFilter(shapeFilter(CategoryObstacle))
}

// Move relocates h's body. The shape is re-added so its cached bounding
// box follows the body; the space is never stepped to do that for us.
func (s *Space) Move(h Handle, pos Vec3) {
	body, ok := s.bodies[h]
	if !ok {
		return
	}
	body.SetPosition(toCP(pos))
	shape := s.shapes[h]
	s.space.RemoveShape(shape)
	s.space.AddShape(shape)
}

// Remove drops h from the index.
func (s *Space) Remove(h Handle) {
	if shape, ok := s.shapes[h]; ok {
		s.space.RemoveShape(shape)
		delete(s.shapes, h)
	}
	if body, ok := s.bodies[h]; ok {
		s.space.RemoveBody(body)
		delete(s.bodies, h)
	}
	delete(s.radius, h)
}

// Len returns the number of registered agents.
func (s *Space) Len() int { return len(s.bodies) }

// OverlapSphere returns agents in mask whose centre lies within radius of
// center, sorted by handle.
func (s *Space) OverlapSphere(center Vec3, radius float64, mask Category) []Handle {
	var out []Handle
	c := toCP(center)
	s.space.BBQuery(cp.NewBBForCircle(c, radius), queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		h, ok := shape.UserData.(Handle)
		if !ok {
			return
		}
		// The box query is coarse; keep only centres in range.
		if s.bodies[h].Position().Distance(c) <= radius {
			out = append(out, h)
		}
	}, nil)
	slices.Sort(out)
	return out
}

// RaycastBlocked reports whether an obstacle lies on the ground-plane
// segment between from and to.
func (s *Space) RaycastBlocked(from, to Vec3) bool {
	info := s.space.SegmentQueryFirst(toCP(from), toCP(to), 0, queryFilter(CategoryObstacle))
	return info.Shape != nil
}
