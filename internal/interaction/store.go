package interaction

import (
	"errors"
	"sort"
	"sync"

	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/samber/lo"
)

var ErrUnknownCarousel = errors.New("unknown carousel")

// Index is the immutable set of feed items a page was mounted with.
type Index map[models.ItemKey]models.FeedItem

func NewIndex(lists ...[]models.FeedItem) Index {
	idx := make(Index)
	for _, list := range lists {
		for _, item := range list {
			idx[item.Key] = item
		}
	}
	return idx
}

// Count returns how many items of kind the index holds.
func (i Index) Count(kind models.FeedKind) int {
	return len(lo.PickBy(i, func(k models.ItemKey, _ models.FeedItem) bool { return k.Kind == kind }))
}

// Store owns the interaction state of one page visit. Every mutation goes
// through Reduce while holding mu, so concurrent requests for the same page
// are applied one after the other.
type Store struct {
	mu        sync.Mutex
	state     State
	index     Index
	carousels map[string]int
}

// NewStore builds an empty store. carousels maps each carousel name to the
// number of slides it holds.
func NewStore(index Index, carousels map[string]int) *Store {
	if index == nil {
		index = Index{}
	}
	return &Store{index: index, carousels: carousels}
}

func (s *Store) dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// ToggleLike flips the liked flag of key and returns the resulting item
// state. Items missing from the index start from zero likes.
func (s *Store) ToggleLike(key models.ItemKey) ItemState {
	item := s.index[key]
	st := s.dispatch(ToggleLike{Item: key, BaseLikes: item.LikesCount, InitiallyLiked: item.InitiallyLiked})
	return st.Items[key]
}

// Item reports the displayed state of key without touching it.
func (s *Store) Item(key models.ItemKey) ItemState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.state.Items[key]; ok {
		return st
	}
	item := s.index[key]
	return ItemState{Liked: item.InitiallyLiked, DisplayedLikes: item.LikesCount}
}

func (s *Store) TogglePanel(panel string) bool {
	return s.dispatch(TogglePanel{Panel: panel}).Panels[panel]
}

func (s *Store) SetPanel(panel string, open bool) {
	s.dispatch(SetPanel{Panel: panel, Open: open})
}

// Scroll moves carousel one step in dir and returns the new active index.
func (s *Store) Scroll(carousel string, dir Direction) (int, error) {
	length, ok := s.carousels[carousel]
	if !ok {
		return 0, ErrUnknownCarousel
	}
	st := s.dispatch(ScrollCarousel{Carousel: carousel, Direction: dir, Length: length})
	return st.Carousels[carousel], nil
}

// ItemSnapshot is the serialisable form of a touched item.
type ItemSnapshot struct {
	models.ItemKey
	ItemState
}

type Snapshot struct {
	Items     []ItemSnapshot  `json:"items"`
	Panels    map[string]bool `json:"panels"`
	Carousels map[string]int  `json:"carousels"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()

	items := lo.MapToSlice(st.Items, func(k models.ItemKey, v ItemState) ItemSnapshot {
		return ItemSnapshot{ItemKey: k, ItemState: v}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind < items[j].Kind
		}
		return items[i].ID < items[j].ID
	})

	carousels := make(map[string]int, len(s.carousels))
	for name := range s.carousels {
		carousels[name] = st.Carousels[name]
	}
	return Snapshot{
		Items:     items,
		Panels:    lo.Assign(st.Panels),
		Carousels: carousels,
	}
}
