// Package carrier resolves tracking numbers to the carrier that issued them.
//
// Every carrier is described by a Rule: a fixed prefix followed by a body of
// MinLen..MaxLen characters drawn from one Charset. Rules are kept in a
// shape where overlap between two of them is decidable, so the Registry can
// refuse a rule that would make detection ambiguous at configuration time
// instead of at lookup time.
package carrier

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

var (
	ErrInvalidRule     = errors.New("invalid carrier rule")
	ErrOverlappingRule = errors.New("carrier rule overlaps an existing rule")
)

// Charset is the set of characters allowed in a tracking number body.
type Charset string

const (
	Digits  Charset = "digits"
	Letters Charset = "letters"
	Alnum   Charset = "alnum"
)

// alphabet is every character any charset may contain; tracking numbers are
// compared upper-cased.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func (c Charset) valid() bool {
	return c == Digits || c == Letters || c == Alnum
}

func (c Charset) allows(b byte) bool {
	isDigit := b >= '0' && b <= '9'
	isLetter := b >= 'A' && b <= 'Z'
	switch c {
	case Digits:
		return isDigit
	case Letters:
		return isLetter
	case Alnum:
		return isDigit || isLetter
	}
	return false
}

func (c Charset) intersects(o Charset) bool {
	for i := 0; i < len(alphabet); i++ {
		if c.allows(alphabet[i]) && o.allows(alphabet[i]) {
			return true
		}
	}
	return false
}

func (c Charset) class() string {
	switch c {
	case Digits:
		return `\d`
	case Letters:
		return `[A-Z]`
	default:
		return `[A-Z0-9]`
	}
}

// Rule is the lexical format of one carrier's tracking numbers.
type Rule struct {
	Carrier domain.Carrier
	Prefix  string
	Charset Charset
	// MinLen and MaxLen bound the body length, prefix excluded.
	MinLen int
	MaxLen int
}

func (r Rule) validate() error {
	switch {
	case !r.Carrier.Known():
		return fmt.Errorf("%w: carrier id is required", ErrInvalidRule)
	case !r.Carrier.Scope.Valid():
		return fmt.Errorf("%w: %s: unknown scope %q", ErrInvalidRule, r.Carrier.ID, r.Carrier.Scope)
	case !r.Charset.valid():
		return fmt.Errorf("%w: %s: unknown charset %q", ErrInvalidRule, r.Carrier.ID, r.Charset)
	case r.MinLen < 0 || r.MaxLen < r.MinLen:
		return fmt.Errorf("%w: %s: bad length range %d..%d", ErrInvalidRule, r.Carrier.ID, r.MinLen, r.MaxLen)
	case r.Prefix == "" && r.MaxLen == 0:
		return fmt.Errorf("%w: %s: rule matches only the empty string", ErrInvalidRule, r.Carrier.ID)
	case r.Prefix != strings.ToUpper(r.Prefix):
		return fmt.Errorf("%w: %s: prefix must be upper case", ErrInvalidRule, r.Carrier.ID)
	}
	return nil
}

// Match reports whether the normalised tracking number fits the rule.
func (r Rule) Match(s string) bool {
	if !strings.HasPrefix(s, r.Prefix) {
		return false
	}
	body := s[len(r.Prefix):]
	if len(body) < r.MinLen || len(body) > r.MaxLen {
		return false
	}
	for i := 0; i < len(body); i++ {
		if !r.Charset.allows(body[i]) {
			return false
		}
	}
	return true
}

// Pattern renders the rule as an anchored regular expression.
func (r Rule) Pattern() string {
	count := fmt.Sprintf("{%d}", r.MinLen)
	if r.MaxLen != r.MinLen {
		count = fmt.Sprintf("{%d,%d}", r.MinLen, r.MaxLen)
	}
	return "^" + regexp.QuoteMeta(r.Prefix) + r.Charset.class() + count + "$"
}

// Overlaps reports whether some string satisfies both rules.
func (r Rule) Overlaps(o Rule) bool {
	short, long := r, o
	if len(short.Prefix) > len(long.Prefix) {
		short, long = long, short
	}
	if !strings.HasPrefix(long.Prefix, short.Prefix) {
		return false
	}
	// The part of the longer prefix past the shorter one is body text for
	// the shorter rule.
	ext := long.Prefix[len(short.Prefix):]
	for i := 0; i < len(ext); i++ {
		if !short.Charset.allows(ext[i]) {
			return false
		}
	}

	lo := max(len(short.Prefix)+short.MinLen, len(long.Prefix)+long.MinLen)
	hi := min(len(short.Prefix)+short.MaxLen, len(long.Prefix)+long.MaxLen)
	if lo > hi {
		return false
	}
	// A total length equal to the long prefix needs no shared body character.
	if lo == len(long.Prefix) {
		return true
	}
	return short.Charset.intersects(long.Charset)
}

// Normalize trims and upper-cases a tracking number; carrier formats are
// case-insensitive.
func Normalize(trackingNumber string) string {
	return strings.ToUpper(strings.TrimSpace(trackingNumber))
}

// Registry holds mutually exclusive carrier rules. Detect is lock-free;
// Register swaps in a new rule list.
type Registry struct {
	mu    sync.Mutex // serialises Register
	rules atomic.Pointer[[]Rule]
}

// NewRegistry builds a registry, rejecting invalid or overlapping rules.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{}
	empty := []Rule{}
	r.rules.Store(&empty)
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a rule. It fails if the rule is malformed, if the carrier
// already has a rule, or if any string would match both the new rule and
// an existing one.
func (r *Registry) Register(rule Rule) error {
	if err := rule.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.rules.Load()
	for _, existing := range current {
		if existing.Carrier.ID == rule.Carrier.ID {
			return fmt.Errorf("%w: carrier %s already registered", ErrInvalidRule, rule.Carrier.ID)
		}
		if existing.Overlaps(rule) {
			return fmt.Errorf("%w: %s (%s) vs %s (%s)", ErrOverlappingRule,
				rule.Carrier.ID, rule.Pattern(), existing.Carrier.ID, existing.Pattern())
		}
	}

	next := make([]Rule, len(current), len(current)+1)
	copy(next, current)
	next = append(next, rule)
	r.rules.Store(&next)
	return nil
}

// Detect returns the carrier whose rule matches, or domain.UnknownCarrier.
func (r *Registry) Detect(trackingNumber string) domain.Carrier {
	s := Normalize(trackingNumber)
	for _, rule := range *r.rules.Load() {
		if rule.Match(s) {
			return rule.Carrier
		}
	}
	return domain.UnknownCarrier
}

// IsValid reports whether any carrier claims the tracking number.
func (r *Registry) IsValid(trackingNumber string) bool {
	return r.Detect(trackingNumber).Known()
}

// Rules returns a snapshot of the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	current := *r.rules.Load()
	out := make([]Rule, len(current))
	copy(out, current)
	return out
}

// Rule returns the rule registered for a carrier.
func (r *Registry) Rule(id domain.CarrierID) (Rule, bool) {
	for _, rule := range *r.rules.Load() {
		if rule.Carrier.ID == id {
			return rule, true
		}
	}
	return Rule{}, false
}

// DefaultRules are the carriers served out of the box.
//
// UPS bodies are accepted at 15 or 16 characters: shorter legacy labels are
// still in circulation.
func DefaultRules() []Rule {
	return []Rule{
		{
			Carrier: domain.Carrier{ID: domain.CarrierNational, Name: "BantuDelice", Scope: domain.ScopeNational},
			Prefix:  "BD", Charset: Digits, MinLen: 6, MaxLen: 6,
		},
		{
			Carrier: domain.Carrier{ID: domain.CarrierDHL, Name: "DHL Express", Scope: domain.ScopeInternational},
			Prefix:  "DHL", Charset: Digits, MinLen: 9, MaxLen: 10,
		},
		{
			Carrier: domain.Carrier{ID: domain.CarrierUPS, Name: "UPS", Scope: domain.ScopeInternational},
			Prefix:  "1Z", Charset: Alnum, MinLen: 15, MaxLen: 16,
		},
		{
			Carrier: domain.Carrier{ID: domain.CarrierFedEx, Name: "FedEx", Scope: domain.ScopeInternational},
			Prefix:  "", Charset: Digits, MinLen: 12, MaxLen: 12,
		},
	}
}
