package requirement

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes free text for vocabulary matching: NFKC, case folding and
// collapsed whitespace. Underscores and hyphens are kept.
func Fold(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Material is the closed housing material vocabulary.
type Material string

const (
	MaterialUnknown Material = ""
	MaterialMetal   Material = "metal"
	MaterialPlastic Material = "plastic"
)

var materialSynonyms = map[string]Material{
	"metal":         MaterialMetal,
	"metallic":      MaterialMetal,
	"aluminum":      MaterialMetal,
	"aluminium":     MaterialMetal,
	"steel":         MaterialMetal,
	"stainless":     MaterialMetal,
	"alloy":         MaterialMetal,
	"zinc":          MaterialMetal,
	"plastic":       MaterialPlastic,
	"polymer":       MaterialPlastic,
	"thermoplastic": MaterialPlastic,
	"lcp":           MaterialPlastic,
	"pbt":           MaterialPlastic,
	"nylon":         MaterialPlastic,
	"composite":     MaterialPlastic,
}

var negationWords = map[string]bool{
	"no":      true,
	"not":     true,
	"non":     true,
	"free":    true,
	"without": true,
}

// ParseMaterial maps a synonym to its canonical material. Input outside the
// closed synonym set is MaterialUnknown. A negated metal ("non-metal",
// "metal-free") is plastic; any other negated material is unknown.
func ParseMaterial(s string) Material {
	key := Fold(s)
	if m, ok := materialSynonyms[key]; ok {
		return m
	}

	found, negated := MaterialUnknown, false
	for _, word := range strings.FieldsFunc(key, isSeparator) {
		if negationWords[word] {
			negated = true
			continue
		}
		if rest, ok := strings.CutPrefix(word, "non"); ok {
			if m, ok := materialSynonyms[rest]; ok {
				negated = true
				if found == MaterialUnknown {
					found = m
				}
				continue
			}
		}
		if m, ok := materialSynonyms[word]; ok && found == MaterialUnknown {
			found = m
		}
	}

	switch {
	case !negated:
		return found
	case found == MaterialMetal:
		return MaterialPlastic
	}
	return MaterialUnknown
}

// MountLocation is the closed mounting location vocabulary.
type MountLocation string

const (
	LocationUnknown  MountLocation = ""
	LocationInternal MountLocation = "internal"
	LocationExternal MountLocation = "external"
)

var locationSynonyms = map[string]MountLocation{
	"internal": LocationInternal,
	"inside":   LocationInternal,
	"in-box":   LocationInternal,
	"enclosed": LocationInternal,
	"external": LocationExternal,
	"outside":  LocationExternal,
	"exterior": LocationExternal,
	"outdoor":  LocationExternal,
	"panel":    LocationExternal,
}

// ParseLocation maps a synonym to its canonical location.
func ParseLocation(s string) MountLocation {
	key := Fold(s)
	if l, ok := locationSynonyms[key]; ok {
		return l
	}
	for _, word := range strings.FieldsFunc(key, func(r rune) bool { return r == ' ' || r == ',' || r == '/' }) {
		if l, ok := locationSynonyms[word]; ok {
			return l
		}
	}
	return LocationUnknown
}

// ConnectionType is the closed interconnect topology vocabulary.
type ConnectionType string

const (
	ConnectionUnknown    ConnectionType = ""
	ConnectionPCBToPCB   ConnectionType = "PCB-to-PCB"
	ConnectionPCBToCable ConnectionType = "PCB-to-Cable"
	ConnectionCableToPCB ConnectionType = "Cable-to-PCB"
	ConnectionCableCable ConnectionType = "Cable-to-Cable"
)

var connectionSynonyms = map[string]ConnectionType{
	"pcb-to-pcb":     ConnectionPCBToPCB,
	"pcb to pcb":     ConnectionPCBToPCB,
	"board-to-board": ConnectionPCBToPCB,
	"board to board": ConnectionPCBToPCB,
	"pcb-to-cable":   ConnectionPCBToCable,
	"pcb to cable":   ConnectionPCBToCable,
	"board-to-cable": ConnectionPCBToCable,
	"board-to-wire":  ConnectionPCBToCable,
	"board to wire":  ConnectionPCBToCable,
	"wire-to-board":  ConnectionCableToPCB,
	"cable-to-pcb":   ConnectionCableToPCB,
	"cable to pcb":   ConnectionCableToPCB,
	"cable-to-board": ConnectionCableToPCB,
	"cable-to-cable": ConnectionCableCable,
	"cable to cable": ConnectionCableCable,
	"wire-to-wire":   ConnectionCableCable,
	"wire to wire":   ConnectionCableCable,
}

// ParseConnectionType maps a synonym to its canonical connection type.
func ParseConnectionType(s string) ConnectionType {
	key := strings.ReplaceAll(Fold(s), "_", "-")
	if c, ok := connectionSynonyms[key]; ok {
		return c
	}
	for _, syn := range connectionKeys {
		if strings.Contains(key, syn) {
			return connectionSynonyms[syn]
		}
	}
	return ConnectionUnknown
}

var connectionKeys = func() []string {
	keys := make([]string, 0, len(connectionSynonyms))
	for k := range connectionSynonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// InvolvesCable reports whether one side of the connection is a cable.
func (c ConnectionType) InvolvesCable() bool {
	return c == ConnectionPCBToCable || c == ConnectionCableToPCB || c == ConnectionCableCable
}

var gaugePattern = regexp.MustCompile(`(?i)^(?:awg\s*-?\s*(\d+(?:\.\d+)?)|(\d+(?:\.\d+)?)\s*-?\s*awg)$`)

// ParseGauge accepts "AWG26", "26 AWG" and bare numbers.
func ParseGauge(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if m := gaugePattern.FindStringSubmatch(s); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

var (
	yesWords = map[string]bool{"yes": true, "y": true, "true": true, "required": true, "needed": true, "yeah": true, "yep": true}
	noWords  = map[string]bool{"no": true, "n": true, "false": true, "not required": true, "none": true, "nope": true}
)

// ParseBoolWord understands yes/no style replies.
func ParseBoolWord(s string) (bool, bool) {
	key := strings.Trim(Fold(s), ".!")
	if yesWords[key] {
		return true, true
	}
	if noWords[key] {
		return false, true
	}
	return false, false
}

func isSeparator(r rune) bool {
	return r == ' ' || r == ',' || r == '/' || r == '-' || r == '(' || r == ')'
}
