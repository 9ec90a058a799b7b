// Package parser turns host input lines into dispatcher commands and
// their typed arguments.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/voxelrealm/simcore/internal/geo"
	"github.com/voxelrealm/simcore/pkg/core"
)

// ErrInvalidArgs is returned when a command's arguments cannot be parsed.
var ErrInvalidArgs = errors.New("invalid arguments")

// verbs that take a sub command word, as in "SPAWN ITEM".
var compound = map[string]bool{"SPAWN": true}

// parseIntFromFloat parses a string that may be an integer ("3") or a
// whole float ("3.0").
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

func argErr(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidArgs, field, err)
}

// ParseLine splits an input line into a dispatcher command and its
// arguments: "spawn item apple 3" becomes ":SPAWN:ITEM:" with
// ["apple", "3"]. ok is false for blank lines and # comments.
func ParseLine(line string) (command string, args []string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return "", nil, false
	}

	verb := strings.ToUpper(fields[0])
	rest := fields[1:]
	if compound[verb] && len(rest) > 0 {
		verb += ":" + strings.ToUpper(rest[0])
		rest = rest[1:]
	}
	return ":" + verb + ":", rest, true
}

func parseVec(field, s string) (core.Vec3, bool, error) {
	v, hasY, err := geo.ParseVec3(s)
	if err != nil {
		return core.Vec3{}, false, argErr(field, err)
	}
	return v, hasY, nil
}

func parseCount(field, s string) (int, error) {
	n, err := parseIntFromFloat(s)
	if err != nil {
		return 0, argErr(field, err)
	}
	if n < 0 {
		return 0, argErr(field, fmt.Errorf("%d is negative", n))
	}
	return int(n), nil
}

// ParseAttack parses "x,y,z dx,dy,dz [slot]". Without a slot the active
// slot is used.
func ParseAttack(args []string) (Attack, error) {
	if len(args) < 2 || len(args) > 3 {
		return Attack{}, fmt.Errorf("%w: attack wants position, direction and optional slot", ErrInvalidArgs)
	}
	pos, _, err := parseVec("position", args[0])
	if err != nil {
		return Attack{}, err
	}
	dir, hasY, err := parseVec("direction", args[1])
	if err != nil {
		return Attack{}, err
	}
	if !hasY {
		return Attack{}, argErr("direction", errors.New("needs three components"))
	}
	if dir.Len() == 0 {
		return Attack{}, argErr("direction", errors.New("zero length"))
	}

	a := Attack{Position: pos, Direction: dir, Slot: -1}
	if len(args) == 3 {
		if a.Slot, err = parseCount("slot", args[2]); err != nil {
			return Attack{}, err
		}
	}
	return a, nil
}

// ParseMove parses the new player position of a MOVE command. hasY is
// false for the ground shorthand.
func ParseMove(args []string) (pos core.Vec3, hasY bool, err error) {
	if len(args) != 1 {
		return core.Vec3{}, false, fmt.Errorf("%w: move wants one position", ErrInvalidArgs)
	}
	return parseVec("position", args[0])
}

// ParseSlot parses the inventory slot index of a SLOT command.
func ParseSlot(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: slot wants one index", ErrInvalidArgs)
	}
	return parseCount("slot", args[0])
}

// ParseSpawnItem parses "type [count] [x,y,z|x,z] [color]".
func ParseSpawnItem(args []string) (SpawnItem, error) {
	if len(args) == 0 || len(args) > 4 {
		return SpawnItem{}, fmt.Errorf("%w: spawn item wants type, count, position and color", ErrInvalidArgs)
	}
	s := SpawnItem{Type: args[0], Count: 1}
	var err error
	if len(args) > 1 {
		if s.Count, err = parseCount("count", args[1]); err != nil {
			return SpawnItem{}, err
		}
	}
	if len(args) > 2 {
		if s.Position, s.HasY, err = parseVec("position", args[2]); err != nil {
			return SpawnItem{}, err
		}
		s.HasPosition = true
	}
	if len(args) > 3 {
		s.Color = args[3]
	}
	return s, nil
}

// ParseSpawnCharacter parses "kind [count] [x,y,z|x,z]". Unknown kinds
// are rejected here rather than spawned as passive characters.
func ParseSpawnCharacter(args []string) (SpawnCharacter, error) {
	if len(args) == 0 || len(args) > 3 {
		return SpawnCharacter{}, fmt.Errorf("%w: spawn character wants kind, count and position", ErrInvalidArgs)
	}
	kind := core.ParseKind(strings.ToLower(args[0]))
	if kind == core.KindUnknown {
		return SpawnCharacter{}, argErr("kind", fmt.Errorf("unknown kind %q", args[0]))
	}

	s := SpawnCharacter{Kind: kind, Count: 1}
	var err error
	if len(args) > 1 {
		if s.Count, err = parseCount("count", args[1]); err != nil {
			return SpawnCharacter{}, err
		}
	}
	if len(args) > 2 {
		if s.Near, _, err = parseVec("position", args[2]); err != nil {
			return SpawnCharacter{}, err
		}
		s.HasPosition = true
	}
	return s, nil
}

// ParseLoad returns the optional save reference of a LOAD command.
func ParseLoad(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: load wants at most one save reference", ErrInvalidArgs)
}
