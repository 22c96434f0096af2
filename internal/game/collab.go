package game

// Handle identifies an object in the scene. The zero Handle means "none".
type Handle uint32

// NoHandle is the zero Handle.
const NoHandle Handle = 0

// Category is a bit set used to filter spatial queries.
type Category uint

const (
	CategoryLeader Category = 1 << iota
	CategoryFollower
	CategoryHunter
	CategoryObstacle

	// CategoryTargets is what hunters look for.
	CategoryTargets = CategoryLeader | CategoryFollower
)

// PrefabKind names the kind of object Lifecycle.Instantiate creates.
type PrefabKind int

const (
	PrefabChicken PrefabKind = iota
	PrefabHunter
	PrefabLeader
)

func (k PrefabKind) String() string {
	switch k {
	case PrefabChicken:
		return "chicken"
	case PrefabHunter:
		return "hunter"
	case PrefabLeader:
		return "leader"
	default:
		return "unknown"
	}
}

// Navigator moves a single object toward a destination along a path.
// Position and Forward report where the driven object currently is.
type Navigator interface {
	SetDestination(p Vec3)
	RemainingDistance() float64
	Stop()
	Resume()
	HasPath() bool
	SetSpeed(speed float64)
	Position() Vec3
	Forward() Vec3
}

// SpatialQuery answers read-only questions about the scene. Results are a
// snapshot valid for the current tick only.
type SpatialQuery interface {
	OverlapSphere(center Vec3, radius float64, mask Category) []Handle
	RaycastBlocked(from, to Vec3) bool
}

// Lifecycle creates and removes scene objects.
type Lifecycle interface {
	Instantiate(kind PrefabKind, pos Vec3, yaw float64) Handle
	Destroy(h Handle)
	FadeThenDestroy(h Handle, seconds float64)
	FindByTag(tag string) (Handle, bool)
}

// Target is anything a hunter can chase.
type Target interface {
	Handle() Handle
	Position() Vec3
	// Capturable reports whether Capture has any effect. The leader is a
	// valid chase target but is never captured.
	Capturable() bool
	Captured() bool
	Capture()
}

// TargetDirectory resolves spatial query hits to chase targets.
type TargetDirectory interface {
	Target(h Handle) (Target, bool)
}

// RosterView is the read-only side of a Roster handed to followers.
type RosterView interface {
	IndexOf(h Handle) (int, bool)
	Count() int
}

// Leader is what a follower needs from the object it follows. Only the
// leader mutates its roster; Release is how a follower asks to be dropped.
type Leader interface {
	Position() Vec3
	Forward() Vec3
	FollowRegion() (Region, bool)
	Followers() RosterView
	Release(h Handle) bool
}
