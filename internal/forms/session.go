package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/notify"
	"github.com/organconnect/organconnect/backend/validators"
	"github.com/samber/lo"
)

var validate = validators.New()

// Form is the field-level surface shared by every form of a page.
type Form interface {
	Kind() Kind
	SetField(name string, value any) error
	ToggleOption(name, option string) error
	Values() map[string]any
	Validate() []Violation
	Submit(ctx context.Context) (Result, error)
}

// Result is what a successful submit hands back to the caller.
type Result struct {
	Accepted bool          `json:"accepted"`
	Token    *models.Token `json:"token,omitempty"`
}

// PanelCloser hides a panel of the owning page.
type PanelCloser interface {
	SetPanel(panel string, open bool)
}

// Session is the local state of one form: its field values and whether a
// submit is running.
type Session struct {
	mu         sync.Mutex
	def        *Definition
	values     map[string]any
	submitting bool
	notify     notify.Channel
	panels     PanelCloser
	log        *slog.Logger
}

func NewSession(def *Definition, ch notify.Channel, panels PanelCloser, log *slog.Logger) *Session {
	return &Session{
		def:    def,
		values: def.initialValues(),
		notify: ch,
		panels: panels,
		log:    log.With("form", def.Kind),
	}
}

func (s *Session) Kind() Kind { return s.def.Kind }

// SetField replaces the value of one field. The value must match the field
// type; a rejected value leaves the form unchanged.
func (s *Session) SetField(name string, value any) error {
	f, ok := s.def.field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	v, err := coerce(f, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
	return nil
}

// ToggleOption adds option to a multi-select field, or removes it if present.
func (s *Session) ToggleOption(name, option string) error {
	f, ok := s.def.field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if f.Type != FieldSet {
		return fmt.Errorf("%w: %s", ErrNotSetField, name)
	}
	if len(f.Options) > 0 && !lo.Contains(f.Options, option) {
		return fmt.Errorf("%w: %q is not an option of %s", ErrInvalidValue, option, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.values[name].([]string)
	if lo.Contains(cur, option) {
		s.values[name] = lo.Without(cur, option)
	} else {
		s.values[name] = append(slices.Clone(cur), option)
	}
	return nil
}

func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneValues(s.values)
}

func (s *Session) Validate() []Violation {
	s.mu.Lock()
	values := cloneValues(s.values)
	s.mu.Unlock()
	_, violations := s.def.decode(values)
	return violations
}

// Submit validates the form and, when it is clean, runs the accept hook,
// raises the success toast and resets the fields if the form says so.
// Invalid forms are left untouched and reported through a destructive toast.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return Result{}, ErrSubmitting
	}
	form, violations := s.def.decode(cloneValues(s.values))
	if len(violations) > 0 {
		s.mu.Unlock()
		s.rejected(violations)
		return Result{}, &ValidationError{Violations: violations}
	}
	s.submitting = true
	s.mu.Unlock()

	var err error
	if s.def.Accept != nil {
		err = s.def.Accept(ctx, form)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if err != nil {
		s.log.Error("Form submission failed", "error", err)
		s.notify.Notify("Submission Failed", err.Error(), models.ToastDestructive)
		return Result{}, err
	}

	s.notify.Notify(s.def.Success.Title, s.def.Success.Description, models.ToastDefault)
	if s.def.ResetOnSuccess {
		s.values = s.def.initialValues()
	}
	if s.def.ClosePanel != "" && s.panels != nil {
		s.panels.SetPanel(s.def.ClosePanel, false)
	}
	s.log.Info("Form submitted")
	return Result{Accepted: true}, nil
}

func (s *Session) rejected(violations []Violation) {
	if hasCode(violations, CodeConsentRequired) {
		s.notify.Notify("Consent Required", "Please provide your consent to proceed with registration.", models.ToastDestructive)
		return
	}
	s.notify.Notify("Please check the form", violations[0].Message, models.ToastDestructive)
}

// decode turns raw values into the definition's target struct and runs its
// validate tags over it.
func (d *Definition) decode(values map[string]any) (any, []Violation) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, []Violation{{Code: CodeInvalidFormat, Message: err.Error()}}
	}
	target := d.Target()
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, []Violation{{Code: CodeInvalidFormat, Message: err.Error()}}
	}
	if err := validate.Struct(target); err != nil {
		return target, toViolations(err)
	}
	return target, nil
}

func coerce(f Field, value any) (any, error) {
	switch f.Type {
	case FieldBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a boolean", ErrInvalidValue, f.Name)
		}
		return b, nil
	case FieldSet:
		var set []string
		switch v := value.(type) {
		case []string:
			set = v
		case []any:
			for _, item := range v {
				str, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s expects a list of strings", ErrInvalidValue, f.Name)
				}
				set = append(set, str)
			}
		default:
			return nil, fmt.Errorf("%w: %s expects a list of strings", ErrInvalidValue, f.Name)
		}
		set = lo.Uniq(set)
		if len(f.Options) > 0 {
			if bad, ok := lo.Find(set, func(o string) bool { return !lo.Contains(f.Options, o) }); ok {
				return nil, fmt.Errorf("%w: %q is not an option of %s", ErrInvalidValue, bad, f.Name)
			}
		}
		if set == nil {
			set = []string{}
		}
		return set, nil
	default:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a string", ErrInvalidValue, f.Name)
		}
		if str != "" && len(f.Options) > 0 && !lo.Contains(f.Options, str) {
			return nil, fmt.Errorf("%w: %q is not an option of %s", ErrInvalidValue, str, f.Name)
		}
		return str, nil
	}
}

func cloneValues(values map[string]any) map[string]any {
	out := maps.Clone(values)
	for k, v := range out {
		if set, ok := v.([]string); ok {
			out[k] = slices.Clone(set)
		}
	}
	return out
}
