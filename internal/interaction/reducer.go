// Package interaction holds the page-scoped toggle state of a page visit:
// liked feed items and their displayed counts, open panels and the active
// index of each carousel.
package interaction

import (
	"fmt"
	"maps"

	"github.com/organconnect/organconnect/backend/internal/models"
)

// ItemState is what the page shows for one feed item.
type ItemState struct {
	Liked          bool `json:"liked"`
	DisplayedLikes int  `json:"displayed_likes"`
}

// State is the full interaction state of one page. Values are treated as
// immutable: Reduce never writes into the maps of its input.
type State struct {
	Items     map[models.ItemKey]ItemState
	Panels    map[string]bool
	Carousels map[string]int
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

// ToggleLike flips the liked flag of Item. BaseLikes and InitiallyLiked seed
// the item the first time it is touched and are ignored afterwards.
type ToggleLike struct {
	Item           models.ItemKey
	BaseLikes      int
	InitiallyLiked bool
}

type TogglePanel struct {
	Panel string
}

type SetPanel struct {
	Panel string
	Open  bool
}

// ScrollCarousel moves the active index one step, clamped to [0, Length-1].
type ScrollCarousel struct {
	Carousel  string
	Direction Direction
	Length    int
}

func (ToggleLike) isAction()     {}
func (TogglePanel) isAction()    {}
func (SetPanel) isAction()       {}
func (ScrollCarousel) isAction() {}

// Reduce returns the state that follows s under a. It is pure: the same
// (s, a) always yields the same result and s is left untouched.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ToggleLike:
		cur, ok := s.Items[a.Item]
		if !ok {
			cur = ItemState{Liked: a.InitiallyLiked, DisplayedLikes: a.BaseLikes}
		}
		if cur.Liked {
			cur.DisplayedLikes--
		} else {
			cur.DisplayedLikes++
		}
		cur.Liked = !cur.Liked

		items := cloneOrNew(s.Items)
		items[a.Item] = cur
		s.Items = items
	case TogglePanel:
		panels := cloneOrNew(s.Panels)
		panels[a.Panel] = !panels[a.Panel]
		s.Panels = panels
	case SetPanel:
		panels := cloneOrNew(s.Panels)
		panels[a.Panel] = a.Open
		s.Panels = panels
	case ScrollCarousel:
		idx := s.Carousels[a.Carousel]
		switch {
		case a.Direction == DirectionDown && idx < a.Length-1:
			idx++
		case a.Direction == DirectionUp && idx > 0:
			idx--
		}
		carousels := cloneOrNew(s.Carousels)
		carousels[a.Carousel] = idx
		s.Carousels = carousels
	}
	return s
}

func cloneOrNew[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return make(map[K]V)
	}
	return maps.Clone(m)
}
