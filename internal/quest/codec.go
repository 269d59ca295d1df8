package quest

import (
	"fmt"
	"strconv"
	"strings"
)

// Flag indexes an auxiliary boolean stored alongside a stage.
type Flag uint8

// FlagSet is a set of Flags.
type FlagSet uint32

// Has reports whether f is set.
func (s FlagSet) Has(f Flag) bool { return s&(1<<f) != 0 }

// With returns s with f set.
func (s FlagSet) With(f Flag) FlagSet { return s | 1<<f }

// Without returns s with f cleared.
func (s FlagSet) Without(f Flag) FlagSet { return s &^ (1 << f) }

// Flagged is a stage plus the quest's auxiliary flags. Quests without flags
// always have Flags == 0.
type Flagged[S Stage] struct {
	Stage S
	Flags FlagSet
}

// Codec converts a quest value to and from its stored string.
type Codec[S Stage] interface {
	Encode(v Flagged[S]) string
	Decode(raw string) (Flagged[S], error)
}

// EnumCodec stores a bare stage name.
type EnumCodec[S Stage] struct {
	byName map[string]S
	values []S
}

// NewEnumCodec builds a codec for the given stage values. Every value of the
// enumeration must be listed.
func NewEnumCodec[S Stage](values ...S) *EnumCodec[S] {
	c := &EnumCodec[S]{byName: make(map[string]S, len(values)), values: values}
	for _, v := range values {
		c.byName[v.String()] = v
	}
	return c
}

// Values returns the stages the codec knows, in declaration order.
func (c *EnumCodec[S]) Values() []S {
	return append([]S(nil), c.values...)
}

// Encode returns the stage name. Flags are not representable and are dropped.
func (c *EnumCodec[S]) Encode(v Flagged[S]) string {
	return v.Stage.String()
}

// Decode parses a stage name.
func (c *EnumCodec[S]) Decode(raw string) (Flagged[S], error) {
	s, err := c.parseStage(raw)
	return Flagged[S]{Stage: s}, err
}

func (c *EnumCodec[S]) parseStage(name string) (S, error) {
	if s, ok := c.byName[strings.TrimSpace(name)]; ok {
		return s, nil
	}
	var zero S
	return zero, fmt.Errorf("%w: unknown stage %q", ErrCorruptValue, name)
}

// flagFormatVersion prefixes every value FlagCodec writes.
const flagFormatVersion = "v2"

// FlagCodec stores a stage with named flags as "v2|<Stage>|<flag>,<flag>".
// It also reads the older positional form "Stage,True,False,...".
type FlagCodec[S Stage] struct {
	stages *EnumCodec[S]
	names  []string
	index  map[string]Flag
}

// NewFlagCodec builds a codec whose flags are named by names, in Flag order.
func NewFlagCodec[S Stage](stages *EnumCodec[S], names ...string) *FlagCodec[S] {
	c := &FlagCodec[S]{stages: stages, names: names, index: make(map[string]Flag, len(names))}
	for i, n := range names {
		c.index[n] = Flag(i)
	}
	return c
}

// Encode writes the versioned form. Flags are listed in Flag order.
func (c *FlagCodec[S]) Encode(v Flagged[S]) string {
	var set []string
	for i, n := range c.names {
		if v.Flags.Has(Flag(i)) {
			set = append(set, n)
		}
	}
	return flagFormatVersion + "|" + v.Stage.String() + "|" + strings.Join(set, ",")
}

// Decode reads either the versioned or the legacy positional form.
func (c *FlagCodec[S]) Decode(raw string) (Flagged[S], error) {
	if strings.HasPrefix(raw, flagFormatVersion+"|") {
		return c.decodeVersioned(raw)
	}
	return c.decodeLegacy(raw)
}

func (c *FlagCodec[S]) decodeVersioned(raw string) (Flagged[S], error) {
	var v Flagged[S]
	parts := strings.Split(raw, "|")
	if len(parts) != 3 {
		return v, fmt.Errorf("%w: malformed value %q", ErrCorruptValue, raw)
	}

	stage, err := c.stages.parseStage(parts[1])
	if err != nil {
		return v, err
	}
	v.Stage = stage

	if parts[2] == "" {
		return v, nil
	}
	for _, name := range strings.Split(parts[2], ",") {
		f, ok := c.index[strings.TrimSpace(name)]
		if !ok {
			return Flagged[S]{}, fmt.Errorf("%w: unknown flag %q", ErrCorruptValue, name)
		}
		v.Flags = v.Flags.With(f)
	}
	return v, nil
}

func (c *FlagCodec[S]) decodeLegacy(raw string) (Flagged[S], error) {
	var v Flagged[S]
	parts := strings.Split(raw, ",")

	stage, err := c.stages.parseStage(parts[0])
	if err != nil {
		return v, err
	}
	v.Stage = stage

	if len(parts) != 1 && len(parts)-1 != len(c.names) {
		return Flagged[S]{}, fmt.Errorf("%w: %d flags in %q, expected none or %d", ErrCorruptValue, len(parts)-1, raw, len(c.names))
	}
	for i, p := range parts[1:] {
		on, err := strconv.ParseBool(strings.TrimSpace(p))
		if err != nil {
			return Flagged[S]{}, fmt.Errorf("%w: flag %d in %q: %v", ErrCorruptValue, i, raw, err)
		}
		if on {
			v.Flags = v.Flags.With(Flag(i))
		}
	}
	return v, nil
}
