package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TowerKind identifies one of the purchasable tower types.
type TowerKind int

const (
	Tomato TowerKind = iota
	Potato
	Cabbage
)

// TowerKinds lists every kind in shop order.
var TowerKinds = []TowerKind{Tomato, Potato, Cabbage}

func (k TowerKind) String() string {
	switch k {
	case Tomato:
		return "Tomato"
	case Potato:
		return "Potato"
	case Cabbage:
		return "Cabbage"
	}
	return fmt.Sprintf("TowerKind(%d)", int(k))
}

// Valid reports whether k is one of the known kinds.
func (k TowerKind) Valid() bool {
	return k >= Tomato && k <= Cabbage
}

// ParseTowerKind accepts a kind name in any case.
func ParseTowerKind(s string) (TowerKind, error) {
	for _, k := range TowerKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTowerKind, s)
}

func (k TowerKind) MarshalYAML() (any, error) {
	return strings.ToLower(k.String()), nil
}

func (k *TowerKind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseTowerKind(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = parsed
	return nil
}
