package validate

import (
	"fmt"
	"math"
	"net"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// LengthMode is how the length of a string is counted.
type LengthMode int

// String length modes.
const (
	// ByByte counts bytes.
	ByByte LengthMode = iota + 1

	// ByDisplay counts ASCII characters as 1 and everything else as 2; the width in a monospace terminal.
	ByDisplay

	// ByLetter counts characters.
	ByLetter
)

// String implements fmt.Stringer.
func (m LengthMode) String() string {
	switch m {
	case ByByte:
		return "byte"
	case ByDisplay:
		return "display"
	case ByLetter:
		return "letter"
	}
	return fmt.Sprintf("LengthMode(%d)", int(m))
}

// StrLength returns the length of s counted by mode.
// It returns false if mode is ByDisplay and s has a byte that can't start a UTF-8 sequence,
// or the last sequence is cut short.
func StrLength(s string, mode LengthMode) (int, bool) {
	switch mode {
	case ByLetter:
		return utf8.RuneCountInString(s), true

	case ByDisplay:
		n, i := 0, 0
		for i < len(s) {
			c := s[i]
			switch {
			case c <= 0x7f:
				i, n = i+1, n+1
			case c <= 0xdf:
				i, n = i+2, n+2
			case c <= 0xef:
				i, n = i+3, n+2
			case c <= 0xf7:
				i, n = i+4, n+2
			case c <= 0xfb:
				i, n = i+5, n+2
			case c <= 0xfd:
				i, n = i+6, n+2
			default:
				return n, false
			}
		}
		return n, i == len(s)
	}

	return len(s), true
}

// Length checks that strings have a length between min and max, counted by mode.
// A negative min or max is no limit.
func Length(mode LengthMode, min, max int) Check {
	return func(v interface{}) error {
		var s string
		switch sv := v.(type) {
		case string:
			s = sv
		case []byte:
			s = string(sv)
		default:
			return fmt.Errorf("%w: length of %T", ErrInvalid, v)
		}

		n, ok := StrLength(s, mode)
		if !ok {
			return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalid, s)
		}
		if min >= 0 && n < min {
			return fmt.Errorf("%w: %v length %v is less than %v", ErrInvalid, mode, n, min)
		}
		if max >= 0 && n > max {
			return fmt.Errorf("%w: %v length %v is more than %v", ErrInvalid, mode, n, max)
		}
		return nil
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int8:
		return float64(n), true
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Range checks that numbers are between min and max inclusive.
// Use math.Inf for no limit.
func Range(min, max float64) Check {
	return func(v interface{}) error {
		f, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("%w: %T is not a number", ErrInvalid, v)
		}
		if math.IsNaN(f) || f < min || f > max {
			return fmt.Errorf("%w: %v is not in [%v, %v]", ErrInvalid, f, min, max)
		}
		return nil
	}
}

// Match checks that strings match re.
func Match(re *regexp.Regexp) Check {
	return func(v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %T is not a string", ErrInvalid, v)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("%w: %q doesn't match %v", ErrInvalid, s, re)
		}
		return nil
	}
}

var (
	mobileRe   = regexp.MustCompile(`^(\+86)?1[34578]\d{9}$`)
	emailRe    = regexp.MustCompile(`^\w+([-+.]\w+)*@\w+([-.]\w+)*\.\w+([-.]\w+)*$`)
	urlRe      = regexp.MustCompile(`(http|https|ftp|file)(://)?([\da-z.-]+)\.([a-z]{2,6})([/\w .?&%=-]*)*/?`)
	zipCodeRe  = regexp.MustCompile(`^[1-9]\d{5}$`)
	plateRe    = regexp.MustCompile(`^[京津渝沪冀晋辽吉黑苏浙皖闽赣鲁豫鄂湘粤琼川贵云陕秦甘陇青台蒙桂宁新藏澳军海航警][A-Za-z][\s-]?[0-9a-zA-Z]{5,6}$`)
	dateRe     = regexp.MustCompile(`^\d{4}([-/]\d{1,2}){2}$`)
	dateTimeRe = regexp.MustCompile(`^\d{4}([-/]\d{1,2}){2} \d{1,2}:\d{1,2}:\d{1,2}$`)
	phoneRe    = regexp.MustCompile(`^(\d{3}-\d{8}|\d{4}-\d{7})$`)
	priceRe    = regexp.MustCompile(`^-?\d+(\.\d{0,2})?$`)
)

// IsMobile reports whether s is a mainland China mobile number, optionally prefixed with +86.
func IsMobile(s string) bool { return mobileRe.MatchString(s) }

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool { return emailRe.MatchString(s) }

// IsURL reports whether s contains something that looks like a URL.
func IsURL(s string) bool { return urlRe.MatchString(s) }

// IsIP reports whether s is a dotted IPv4 address.
func IsIP(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && strings.Count(s, ".") == 3
}

// IsZipCode reports whether s is a six digit postal code.
func IsZipCode(s string) bool { return zipCodeRe.MatchString(s) }

// IsPlateNumber reports whether s is a vehicle plate number.
// New energy vehicle plates are one character longer.
func IsPlateNumber(s string) bool { return plateRe.MatchString(s) }

// IsDate reports whether s is a date like 2006-01-02 or 2006/1/2.
func IsDate(s string) bool { return dateRe.MatchString(s) }

// IsDateTime reports whether s is a date and time like 2006-01-02 15:04:05.
func IsDateTime(s string) bool { return dateTimeRe.MatchString(s) }

// IsPhone reports whether s is a landline number with an area code, like 010-12345678.
// The whole of s must be the number; a three digit area code takes eight digits, and a four digit one seven.
func IsPhone(s string) bool { return phoneRe.MatchString(s) }

// IsPrice reports whether s is a decimal with at most two digits after the point.
func IsPrice(s string) bool { return priceRe.MatchString(s) }

var (
	idCardFactor = [17]int{7, 9, 10, 5, 8, 4, 2, 1, 6, 3, 7, 9, 10, 5, 8, 4, 2}
	idCardCheck  = [11]byte{'1', '0', 'X', '9', '8', '7', '6', '5', '4', '3', '2'}
)

// IsIDCard reports whether s is an 18 digit resident identity card number with a correct check digit.
func IsIDCard(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 18 {
		return false
	}

	total := 0
	for i := 0; i < 17; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		total += int(s[i]-'0') * idCardFactor[i]
	}

	check := s[17]
	if check == 'x' {
		check = 'X'
	}
	return check == idCardCheck[total%11]
}

// Formats are the named string formats usable with Format.
var Formats = map[string]func(string) bool{
	"mobile":   IsMobile,
	"email":    IsEmail,
	"url":      IsURL,
	"ip":       IsIP,
	"zip":      IsZipCode,
	"plate":    IsPlateNumber,
	"date":     IsDate,
	"datetime": IsDateTime,
	"phone":    IsPhone,
	"idcard":   IsIDCard,
	"price":    IsPrice,
}

// FormatNames returns the names in Formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(Formats))
	for name := range Formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format checks that strings are in the named format.
// Prices may also be numbers.
func Format(name string) (Check, error) {
	is, ok := Formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q; want one of %v", name, strings.Join(FormatNames(), ", "))
	}

	return func(v interface{}) error {
		var s string
		switch sv := v.(type) {
		case string:
			s = sv
		default:
			if name != "price" {
				return fmt.Errorf("%w: %T is not a string", ErrInvalid, v)
			}
			if _, isNum := toFloat(v); !isNum {
				return fmt.Errorf("%w: %T is not a price", ErrInvalid, v)
			}
			s = fmt.Sprint(v)
		}
		if !is(s) {
			return fmt.Errorf("%w: %q is not a valid %v", ErrInvalid, s, name)
		}
		return nil
	}, nil
}
