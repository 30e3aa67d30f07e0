// Package geoconsent decides when the country badge may ask the browser
// for a location: the visitor's choice is remembered in a durable or
// session scope and a deny suppresses the prompt for good.
package geoconsent

import (
	"context"
	"errors"

	"dh2ocol/internal/visitors"
)

type Choice string

const (
	ChoiceAllowPersistent Choice = "allow_persistent"
	ChoiceAllowSession    Choice = "allow_session"
	ChoiceAllowOnce       Choice = "allow_once"
	ChoiceDeny            Choice = "deny"
)

func ParseChoice(v string) (Choice, error) {
	switch Choice(v) {
	case ChoiceAllowPersistent, ChoiceAllowSession, ChoiceAllowOnce, ChoiceDeny:
		return Choice(v), nil
	default:
		return "", errors.New("geoconsent: opción de consentimiento desconocida: " + v)
	}
}

// Action is what the widget should do on load.
type Action string

const (
	// ActionLocate resolves the country without asking again.
	ActionLocate Action = "locate"
	// ActionPrompt shows the consent dialog.
	ActionPrompt Action = "prompt"
	// ActionNone hides the badge; a past deny stays denied.
	ActionNone Action = "none"
)

const (
	durableChoiceKey = "geo_consent_choice"
	sessionChoiceKey = "geo_consent_session"
	countryCacheKey  = "geo_country_name"
)

// Resolver arbitrates between the durable choice, the session choice and
// the session-cached country name.
type Resolver struct {
	durable visitors.Store
	session visitors.Store
}

func NewResolver(durable, session visitors.Store) *Resolver {
	return &Resolver{durable: durable, session: session}
}

// Bootstrap returns the load-time action. Priority: durable deny, durable
// allow, session allow, then prompt. allow_once never reaches here because
// Apply does not persist it.
func (r *Resolver) Bootstrap(ctx context.Context) (Action, error) {
	if v, err := r.durable.Get(ctx, durableChoiceKey); err == nil {
		switch Choice(v) {
		case ChoiceDeny:
			return ActionNone, nil
		case ChoiceAllowPersistent:
			return ActionLocate, nil
		}
		// An unknown stored value falls through to the prompt.
	} else if err != visitors.ErrNotFound {
		return ActionNone, err
	}

	if v, err := r.session.Get(ctx, sessionChoiceKey); err == nil {
		if Choice(v) == ChoiceAllowSession {
			return ActionLocate, nil
		}
	} else if err != visitors.ErrNotFound {
		return ActionNone, err
	}

	return ActionPrompt, nil
}

// Apply records the visitor's answer and reports whether to locate now.
func (r *Resolver) Apply(ctx context.Context, c Choice) (bool, error) {
	switch c {
	case ChoiceAllowPersistent:
		return true, r.durable.Set(ctx, durableChoiceKey, string(c))
	case ChoiceAllowSession:
		return true, r.session.Set(ctx, sessionChoiceKey, string(c))
	case ChoiceAllowOnce:
		// Single use: nothing is stored, the next load prompts again.
		return true, nil
	case ChoiceDeny:
		return false, r.durable.Set(ctx, durableChoiceKey, string(c))
	default:
		return false, errors.New("geoconsent: opción de consentimiento desconocida: " + string(c))
	}
}

// CachedCountry returns the session-cached country name, or "" when the
// cache is cold.
func (r *Resolver) CachedCountry(ctx context.Context) (string, error) {
	v, err := r.session.Get(ctx, countryCacheKey)
	if err == visitors.ErrNotFound {
		return "", nil
	}
	return v, err
}

// SetCountry caches a resolved country name for the rest of the session.
func (r *Resolver) SetCountry(ctx context.Context, name string) error {
	return r.session.Set(ctx, countryCacheKey, name)
}
