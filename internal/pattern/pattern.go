// Package pattern describes the decoration drawn on a disk. Patterns are
// plain data: renderers decide how a Flower or Swirl actually looks.
package pattern

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/spinarena/internal/dynamo"
)

type Kind int

const (
	Circle Kind = iota
	Flower
	Star
	Swirl
)

const (
	MinPetals = 5
	MaxPetals = 10
	MinSwirls = 2
	MaxSwirls = 5
)

func (k Kind) String() string {
	switch k {
	case Circle:
		return "circle"
	case Flower:
		return "flower"
	case Star:
		return "star"
	case Swirl:
		return "swirl"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "circle":
		return Circle, nil
	case "flower":
		return Flower, nil
	case "star":
		return Star, nil
	case "swirl":
		return Swirl, nil
	}
	return Circle, fmt.Errorf("unknown pattern %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Pattern is one decoration. Count is the number of petals, star points or
// swirl arms and is zero for a plain circle.
type Pattern struct {
	Kind    Kind `json:"kind" yaml:"kind"`
	Count   int  `json:"count,omitempty" yaml:"count,omitempty"`
	Outline bool `json:"outline,omitempty" yaml:"outline,omitempty"`
}

func (p Pattern) String() string {
	s := p.Kind.String()
	if p.Count > 0 {
		s = fmt.Sprintf("%s(%d)", s, p.Count)
	}
	if p.Outline {
		s += " outline"
	}
	return s
}

// Validate checks that Count is in range for the kind.
func (p Pattern) Validate() error {
	switch p.Kind {
	case Flower, Star:
		if p.Count < MinPetals || p.Count > MaxPetals {
			return fmt.Errorf("%s count %d outside [%d, %d]", p.Kind, p.Count, MinPetals, MaxPetals)
		}
	case Swirl:
		if p.Count < MinSwirls || p.Count > MaxSwirls {
			return fmt.Errorf("swirl count %d outside [%d, %d]", p.Count, MinSwirls, MaxSwirls)
		}
		if p.Outline {
			return fmt.Errorf("swirl has no outline variant")
		}
	case Circle:
		if p.Count != 0 {
			return fmt.Errorf("circle takes no count")
		}
	default:
		return fmt.Errorf("unknown pattern kind %d", p.Kind)
	}
	return nil
}

// Choose draws a pattern. A uniform 1..8 roll selects the variant; the last
// slot repeats the filled flower, so flowers come up twice as often.
func Choose(r *rand.Rand) Pattern {
	switch dynamo.RandomInt(r, 1, 8) {
	case 1:
		return Pattern{Kind: Flower, Count: dynamo.RandomInt(r, MinPetals, MaxPetals)}
	case 2:
		return Pattern{Kind: Flower, Count: dynamo.RandomInt(r, MinPetals, MaxPetals), Outline: true}
	case 3:
		return Pattern{Kind: Star, Count: dynamo.RandomInt(r, MinPetals, MaxPetals)}
	case 4:
		return Pattern{Kind: Star, Count: dynamo.RandomInt(r, MinPetals, MaxPetals), Outline: true}
	case 5:
		return Pattern{Kind: Swirl, Count: dynamo.RandomInt(r, MinSwirls, MaxSwirls)}
	case 6:
		return Pattern{Kind: Circle}
	case 7:
		return Pattern{Kind: Circle, Outline: true}
	default:
		return Pattern{Kind: Flower, Count: dynamo.RandomInt(r, MinPetals, MaxPetals)}
	}
}
