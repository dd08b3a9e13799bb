// Package pages owns the state of one page visit: its interaction store,
// forms, chat widget and toast outbox, from mount to unmount.
package pages

import (
	"fmt"

	"github.com/organconnect/organconnect/backend/internal/forms"
	"github.com/organconnect/organconnect/backend/internal/models"
)

// Name is a routed page of the site.
type Name string

const (
	Home            Name = "home"
	About           Name = "about"
	Resources       Name = "resources"
	Events          Name = "events"
	Community       Name = "community"
	Donate          Name = "donate"
	RecipientPortal Name = "recipient-portal"
	Register        Name = "register"
)

// ReelsCarousel is the carousel of the community page.
const ReelsCarousel = "reels"

type layout struct {
	chat         bool
	forms        []forms.Kind
	registration bool
	feed         bool
	requires     models.Capability
}

var layouts = map[Name]layout{
	Home:            {chat: true},
	About:           {chat: true},
	Resources:       {chat: true},
	Events:          {chat: true, forms: []forms.Kind{forms.KindEvent}},
	Community:       {chat: true, forms: []forms.Kind{forms.KindPost}, feed: true},
	Donate:          {chat: true, forms: []forms.Kind{forms.KindDonor}, requires: models.CapDonate},
	RecipientPortal: {chat: true, forms: []forms.Kind{forms.KindRecipient}, requires: models.CapPostRequirement},
	Register:        {registration: true},
}

func ParseName(s string) (Name, error) {
	if _, ok := layouts[Name(s)]; ok {
		return Name(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// Allowed reports whether principal may open the page.
func (n Name) Allowed(p models.Principal) bool {
	l := layouts[n]
	return l.requires == "" || p.Can(l.requires)
}
