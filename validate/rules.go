package validate

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseRule parses the textual form of a Check.
//
//	length:<byte|display|letter>:<min>:<max>   min or max may be empty for no limit
//	range:<min>:<max>                          min or max may be empty for no limit
//	match:<regexp>
//	format:<name>                              see Formats
func ParseRule(rule string) (Check, error) {
	name, args, _ := strings.Cut(rule, ":")
	switch strings.TrimSpace(name) {
	case "length":
		parts := strings.Split(args, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("rule %q: want length:<mode>:<min>:<max>", rule)
		}
		var mode LengthMode
		switch parts[0] {
		case "byte":
			mode = ByByte
		case "display":
			mode = ByDisplay
		case "letter":
			mode = ByLetter
		default:
			return nil, fmt.Errorf("rule %q: unknown length mode %q", rule, parts[0])
		}
		min, err := parseLimit(parts[1], -1)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule, err)
		}
		max, err := parseLimit(parts[2], -1)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule, err)
		}
		return Length(mode, int(min), int(max)), nil

	case "range":
		parts := strings.Split(args, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("rule %q: want range:<min>:<max>", rule)
		}
		min, err := parseLimit(parts[0], math.Inf(-1))
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule, err)
		}
		max, err := parseLimit(parts[1], math.Inf(1))
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule, err)
		}
		return Range(min, max), nil

	case "match":
		re, err := regexp.Compile(args)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule, err)
		}
		return Match(re), nil

	case "format":
		check, err := Format(strings.TrimSpace(args))
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule, err)
		}
		return check, nil
	}

	return nil, fmt.Errorf("unknown rule %q", rule)
}

func parseLimit(s string, none float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return none, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseRules returns a Validator from rules, a set of textual rules for each path.
func ParseRules(rules map[string][]string) (*Validator, error) {
	paths := make([]string, 0, len(rules))
	for path := range rules {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	v := New()
	for _, path := range paths {
		for _, rule := range rules[path] {
			check, err := ParseRule(rule)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", path, err)
			}
			v.Add(path, check)
		}
	}
	return v, nil
}
