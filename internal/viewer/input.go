package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Chicken-King/internal/game"
)

// keyReader reports whether a key is held. It is ebiten.IsKeyPressed in the
// running viewer.
type keyReader func(ebiten.Key) bool

// keys tracks held keys between frames for edge-triggered actions.
type keys struct {
	read keyReader
	prev map[ebiten.Key]bool
	cur  map[ebiten.Key]bool
}

func newKeys(read keyReader) *keys {
	return &keys{read: read, prev: map[ebiten.Key]bool{}, cur: map[ebiten.Key]bool{}}
}

// held reports whether any of ks is down.
func (k *keys) held(ks ...ebiten.Key) bool {
	for _, key := range ks {
		if k.read(key) {
			return true
		}
	}
	return false
}

// pressed reports a key that went down this frame.
func (k *keys) pressed(key ebiten.Key) bool {
	k.cur[key] = k.read(key)
	return k.cur[key] && !k.prev[key]
}

// next ends the frame.
func (k *keys) next() {
	k.prev, k.cur = k.cur, make(map[ebiten.Key]bool, len(k.cur))
}

// leaderInput reads the leader's movement and action keys.
func leaderInput(k *keys) game.Input {
	var move game.Vec3
	if k.held(ebiten.KeyW, ebiten.KeyArrowUp) {
		move.Z++
	}
	if k.held(ebiten.KeyS, ebiten.KeyArrowDown) {
		move.Z--
	}
	if k.held(ebiten.KeyD, ebiten.KeyArrowRight) {
		move.X++
	}
	if k.held(ebiten.KeyA, ebiten.KeyArrowLeft) {
		move.X--
	}
	space, e := k.pressed(ebiten.KeySpace), k.pressed(ebiten.KeyE)
	return game.Input{
		Move:         move,
		Sprint:       k.held(ebiten.KeyShiftLeft, ebiten.KeyShiftRight),
		ToggleCrouch: k.pressed(ebiten.KeyC),
		Recruit:      space || e,
	}
}
