package asset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const maxMultiPartNo = 999

var extensionPattern = regexp.MustCompile(`(\.\w+)$`)

// FormatMultiPartFileName returns the file name (or path, or URL) of part no
// of a multi-part asset. Part 1 is the base name itself; later parts insert
// `_noNNN` before the extension:
//
//	Score.png, Score_no002.png, Score_no003.png, ...
func FormatMultiPartFileName(base string, no int) (string, error) {
	if no < 1 || no > maxMultiPartNo {
		return "", fmt.Errorf("%s: part %d: %w", base, no, ErrPartOutOfRange)
	}
	if no == 1 {
		return base, nil
	}
	suffix := fmt.Sprintf("_no%03d", no)
	if !extensionPattern.MatchString(base) {
		return base + suffix, nil
	}
	return extensionPattern.ReplaceAllString(base, suffix+"${1}"), nil
}

// SelectSubset parses a part selection expression against count parts
// numbered from 1. An empty expression selects every part.
//
//	"1"        first part
//	"1,3,5"    first, third and fifth
//	"1-3,5-7"  1,2,3,5,6,7
//	"-7"       1-7
//	"7-"       7 to the last part
//
// Token order is preserved. Nothing is sorted or deduplicated.
func SelectSubset(expr string, count int) ([]int, error) {
	expr = strings.Join(strings.Fields(expr), "")
	if expr == "" {
		all := make([]int, count)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	var out []int
	for _, token := range strings.Split(expr, ",") {
		if token == "" {
			return nil, fmt.Errorf("%w: empty token in %q", ErrInvalidSelection, expr)
		}
		if !strings.Contains(token, "-") {
			no, err := parsePartNo(token, count)
			if err != nil {
				return nil, err
			}
			out = append(out, no)
			continue
		}

		begin, end, found := strings.Cut(token, "-")
		if !found || strings.Contains(end, "-") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSelection, token)
		}
		if begin == "" {
			begin = "1"
		}
		if end == "" {
			end = strconv.Itoa(count)
		}
		from, err := parsePartNo(begin, count)
		if err != nil {
			return nil, err
		}
		to, err := parsePartNo(end, count)
		if err != nil {
			return nil, err
		}
		if to < from {
			return nil, fmt.Errorf("%w: range %d-%d ends before it begins", ErrInvalidSelection, from, to)
		}
		for no := from; no <= to; no++ {
			out = append(out, no)
		}
	}
	return out, nil
}

func parsePartNo(value string, count int) (int, error) {
	no, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, value)
	}
	if no < 1 || no > count {
		return 0, fmt.Errorf("part %d of %d: %w", no, count, ErrPartOutOfRange)
	}
	return no, nil
}
